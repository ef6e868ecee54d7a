package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type TaskAddCmd struct {
	Name      string `arg:"" help:"Task name."`
	Category  string `short:"c" help:"Category (health|work|personal|learning|fitness|mindfulness)." default:"personal"`
	Time      string `short:"t" help:"Time of day (morning|afternoon|evening|anytime)." default:"anytime"`
	Frequency string `short:"f" help:"Frequency (daily|weekly|custom)." default:"daily"`
	Weekdays  string `short:"w" help:"Comma-separated weekdays for custom frequency."`
	PerWeek   int    `short:"n" help:"Target completions per week for weekly frequency."`
}

// Build turns the flags into a task, parsing every enum.
func (c *TaskAddCmd) Build() (models.Task, error) {
	category, err := models.ParseCategory(c.Category)
	if err != nil {
		return models.Task{}, err
	}
	tod, err := models.ParseTimeOfDay(c.Time)
	if err != nil {
		return models.Task{}, err
	}
	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Name:         c.Name,
		Category:     category,
		TimeOfDay:    tod,
		Frequency:    freq,
		TimesPerWeek: c.PerWeek,
	}
	if freq == models.FrequencyCustom {
		if c.Weekdays == "" {
			return models.Task{}, fmt.Errorf("--weekdays must be specified for custom frequency")
		}
		if task.Weekdays, err = cli.ParseWeekdays(c.Weekdays); err != nil {
			return models.Task{}, err
		}
	}
	return task, nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task, err := c.Build()
	if err != nil {
		return err
	}
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}

	added, unlocked, err := session.AddTask(task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Printf("Added task: %s (%s, %s, %s) [ID: %s]\n",
		added.Name, added.Category, added.TimeOfDay, cli.FormatFrequency(added), cli.ShortID(added.ID))
	cli.PrintUnlocked(unlocked)
	return nil
}
