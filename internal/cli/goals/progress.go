package goals

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type GoalProgressCmd struct {
	Add    ProgressAddCmd    `cmd:"" help:"Add to a numeric goal."`
	Delete ProgressDeleteCmd `cmd:"" help:"Remove a progress entry by number or ID."`
}

type ProgressAddCmd struct {
	Goal   string  `arg:"" help:"Goal title, ID or ID prefix."`
	Amount float64 `arg:"" help:"Amount to add; negative values correct mistakes."`
	Note   string  `help:"Optional note."`
}

func (c *ProgressAddCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	if g.TargetType != models.TargetNumeric {
		return fmt.Errorf("%s is an items goal, use 'goal item' instead", g.Title)
	}

	change, _, err := session.AddProgress(g.ID, c.Amount, c.Note)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	_, percent, err := session.GoalProgress(change.Goal)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s %.0f%%  %s\n", change.Goal.Title, cli.Bar(percent, 20), percent, progressLabel(change.Goal, change.Goal.CurrentValue))
	printChange(change)
	return nil
}

type ProgressDeleteCmd struct {
	Goal  string `arg:"" help:"Goal title, ID or ID prefix."`
	Entry string `arg:"" help:"Entry number as shown by 'goal show', or its ID."`
}

func (c *ProgressDeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	updates, err := session.ProgressUpdates(g.ID)
	if err != nil {
		return err
	}
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	id, err := pick(ids, c.Entry)
	if err != nil {
		return err
	}
	if _, err := session.DeleteProgress(id); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	fmt.Println("Progress entry removed.")
	return nil
}
