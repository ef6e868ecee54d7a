package tasks

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task name, ID or ID prefix."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
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

	ok, err := cli.Confirm(fmt.Sprintf("Delete %q and all of its completions?", task.Name), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if _, err := session.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("Deleted task: %s (ID: %s)\n", task.Name, cli.ShortID(task.ID))
	return nil
}
