package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type TaskListCmd struct {
	Category string `short:"c" help:"Only show tasks in this category."`
	ShowIDs  bool   `help:"Show full task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var filter models.Category
	if c.Category != "" {
		var err error
		if filter, err = models.ParseCategory(c.Category); err != nil {
			return err
		}
	}

	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	tasks, err := session.Tasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Tasks:"))
	for _, task := range tasks {
		if filter != "" && task.Category != filter {
			continue
		}
		id := cli.ShortID(task.ID)
		if c.ShowIDs {
			id = task.ID
		}
		fmt.Printf("  %s %s - %s, %s (%s)\n",
			cli.MutedStyle.Render(id), task.Name, task.Category, task.TimeOfDay, cli.FormatFrequency(task))
	}
	return nil
}
