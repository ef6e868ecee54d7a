package tracking

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
)

type DoneCmd struct {
	Task string `arg:"" help:"Task name, ID or ID prefix."`
	Date string `short:"d" help:"Date to record (YYYY-MM-DD), defaults to today."`
	Note string `help:"Optional note."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	task, err := findTask(session, c.Task)
	if err != nil {
		return err
	}

	res, _, err := session.CompleteTask(task.ID, c.Date, c.Note)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if res.AlreadyDone {
		fmt.Printf("%s is already done on %s.\n", task.Name, res.Completion.Date)
		return nil
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s done", task.Name)) +
		cli.MutedStyle.Render(fmt.Sprintf(" (%s)", res.Completion.Date)))
	fmt.Printf("  +%d points", res.PointsEarned)
	if res.LevelsGained > 0 {
		fmt.Print(cli.TitleStyle.Render(fmt.Sprintf("  Level up! Now level %d", res.Profile.Level)))
	}
	fmt.Println()
	if res.ActivitySaved {
		fmt.Printf("  %s %d%% (%d/%d)\n", cli.Bar(float64(res.Activity.CompletionRate), 20),
			res.Activity.CompletionRate, res.Activity.TasksCompleted, res.Activity.TaskTotal)
	}
	fmt.Printf("  Streak: %d day(s)\n", res.Streak.Current)
	cli.PrintUnlocked(res.Unlocked)
	return nil
}

type UndoCmd struct {
	Task string `arg:"" help:"Task name, ID or ID prefix."`
	Date string `short:"d" help:"Date to clear (YYYY-MM-DD), defaults to today."`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	task, err := findTask(session, c.Task)
	if err != nil {
		return err
	}

	removed, st, err := session.UncompleteTask(task.ID, c.Date)
	if err != nil {
		return fmt.Errorf("failed to undo completion: %w", err)
	}
	if !removed {
		fmt.Printf("%s has no completion to undo.\n", task.Name)
		return nil
	}
	fmt.Printf("Cleared %s. Streak: %d day(s)\n", task.Name, st.Current)
	return nil
}

func findTask(session *tracker.Session, ref string) (models.Task, error) {
	task, found, err := session.FindTask(ref)
	if err != nil {
		return models.Task{}, err
	}
	if !found {
		return models.Task{}, fmt.Errorf("task not found: %s", ref)
	}
	return task, nil
}
