package goals

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tracker"
)

type GoalItemCmd struct {
	Add    ItemAddCmd    `cmd:"" help:"Add a checklist item."`
	Toggle ItemToggleCmd `cmd:"" help:"Mark an item done or not done."`
	Delete ItemDeleteCmd `cmd:"" help:"Remove a checklist item."`
}

type ItemAddCmd struct {
	Goal  string `arg:"" help:"Goal title, ID or ID prefix."`
	Title string `arg:"" help:"Item title."`
}

func (c *ItemAddCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	item, _, err := session.AddGoalItem(g.ID, c.Title)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	fmt.Printf("Added %q to %s\n", item.Title, g.Title)
	return nil
}

type ItemToggleCmd struct {
	Goal string `arg:"" help:"Goal title, ID or ID prefix."`
	Item string `arg:"" help:"Item number as shown by 'goal show', or its ID."`
}

func (c *ItemToggleCmd) Run(ctx *cli.Context) error {
	session, id, err := resolveItem(ctx, c.Goal, c.Item)
	if err != nil {
		return err
	}
	item, change, _, err := session.ToggleGoalItem(id)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	state := "not done"
	if item.Completed {
		state = "done"
	}
	fmt.Printf("%s marked %s\n", item.Title, state)
	printChange(change)
	return nil
}

type ItemDeleteCmd struct {
	Goal string `arg:"" help:"Goal title, ID or ID prefix."`
	Item string `arg:"" help:"Item number as shown by 'goal show', or its ID."`
}

func (c *ItemDeleteCmd) Run(ctx *cli.Context) error {
	session, id, err := resolveItem(ctx, c.Goal, c.Item)
	if err != nil {
		return err
	}
	if _, err := session.DeleteGoalItem(id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	fmt.Println("Item removed.")
	return nil
}

func resolveItem(ctx *cli.Context, goalRef, itemRef string) (*tracker.Session, string, error) {
	session, err := ctx.Tracker()
	if err != nil {
		return nil, "", err
	}
	g, err := findGoal(session, goalRef)
	if err != nil {
		return nil, "", err
	}
	items, err := session.GoalItems(g.ID)
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	id, err := pick(ids, itemRef)
	return session, id, err
}
