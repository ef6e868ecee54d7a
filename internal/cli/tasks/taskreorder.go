package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type TaskReorderCmd struct {
	Tasks []string `arg:"" help:"Tasks in the desired order; unlisted tasks keep their relative order after them."`
}

func (c *TaskReorderCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(c.Tasks))
	for _, ref := range c.Tasks {
		task, found, err := session.FindTask(ref)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("task not found: %s", ref)
		}
		ids = append(ids, task.ID)
	}

	tasks, err := session.ReorderTasks(ids)
	if err != nil {
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}
	for i, task := range tasks {
		fmt.Printf("  %d. %s\n", i+1, task.Name)
	}
	return nil
}
