package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type TaskEditCmd struct {
	Task      string  `arg:"" help:"Task name, ID or ID prefix."`
	Name      *string `help:"New name."`
	Category  *string `short:"c" help:"New category."`
	Time      *string `short:"t" help:"New time of day."`
	Frequency *string `short:"f" help:"New frequency."`
	Weekdays  *string `short:"w" help:"New comma-separated weekdays for custom frequency."`
	PerWeek   *int    `short:"n" help:"New weekly target."`
}

// apply copies the flags that were given onto task.
func (c *TaskEditCmd) apply(task *models.Task) error {
	var err error
	if c.Name != nil {
		task.Name = *c.Name
	}
	if c.Category != nil {
		if task.Category, err = models.ParseCategory(*c.Category); err != nil {
			return err
		}
	}
	if c.Time != nil {
		if task.TimeOfDay, err = models.ParseTimeOfDay(*c.Time); err != nil {
			return err
		}
	}
	if c.Frequency != nil {
		if task.Frequency, err = models.ParseFrequency(*c.Frequency); err != nil {
			return err
		}
	}
	if c.Weekdays != nil {
		if task.Weekdays, err = cli.ParseWeekdays(*c.Weekdays); err != nil {
			return err
		}
	}
	if c.PerWeek != nil {
		task.TimesPerWeek = *c.PerWeek
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	task, found, err := session.FindTask(c.Task)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task not found: %s", c.Task)
	}

	// Parse before touching the store so bad flags change nothing.
	edited := task
	if err := c.apply(&edited); err != nil {
		return err
	}
	updated, _, err := session.UpdateTask(task.ID, func(t *models.Task) { *t = edited })
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	fmt.Printf("Updated task: %s (%s, %s, %s)\n",
		updated.Name, updated.Category, updated.TimeOfDay, cli.FormatFrequency(updated))
	return nil
}
