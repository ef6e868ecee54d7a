package goals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
)

type GoalCmd struct {
	Add      GoalAddCmd      `cmd:"" help:"Create a yearly goal."`
	List     GoalListCmd     `cmd:"" help:"List goals with their progress." default:"1"`
	Show     GoalShowCmd     `cmd:"" help:"Show a goal with its items or progress log."`
	Progress GoalProgressCmd `cmd:"" help:"Record or remove numeric progress."`
	Item     GoalItemCmd     `cmd:"" help:"Manage the checklist of an items goal."`
	Archive  GoalArchiveCmd  `cmd:"" help:"Archive or unarchive a goal."`
	Delete   GoalDeleteCmd   `cmd:"" help:"Delete a goal with its items and progress."`
}

type GoalAddCmd struct {
	Title       string  `arg:"" help:"Goal title."`
	Type        string  `short:"t" help:"Target type: numeric or items." default:"numeric"`
	Target      float64 `help:"Target value for numeric goals."`
	Unit        string  `short:"u" help:"Unit label, e.g. books or km."`
	Year        int     `short:"y" help:"Goal year, defaults to the current year."`
	Description string  `help:"Longer description."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	tt, err := models.ParseTargetType(c.Type)
	if err != nil {
		return err
	}
	g, err := session.AddGoal(models.Goal{
		Title:       c.Title,
		Description: c.Description,
		Year:        c.Year,
		TargetType:  tt,
		TargetValue: c.Target,
		Unit:        c.Unit,
	})
	if err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}
	fmt.Printf("Added goal %s for %d (ID: %s)\n", g.Title, g.Year, cli.ShortID(g.ID))
	return nil
}

type GoalListCmd struct {
	Year     int  `short:"y" help:"Only goals of this year."`
	Archived bool `short:"a" help:"Include archived goals."`
	ShowIDs  bool `help:"Show goal IDs."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	list, err := session.Goals(c.Year, c.Archived)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	year := 0
	for _, g := range list {
		if g.Year != year {
			year = g.Year
			fmt.Println(cli.TitleStyle.Render(strconv.Itoa(year)))
		}
		current, percent, err := session.GoalProgress(g)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %s %3.0f%%  %s  %s", cli.Bar(percent, 15), percent, g.Title, progressLabel(g, current))
		if c.ShowIDs {
			line += cli.MutedStyle.Render(" [" + cli.ShortID(g.ID) + "]")
		}
		switch {
		case g.Archived:
			line += cli.MutedStyle.Render(" (archived)")
		case g.CompletedAt != nil:
			line += cli.SuccessStyle.Render(" ✓")
		}
		fmt.Println(line)
	}
	return nil
}

type GoalShowCmd struct {
	Goal string `arg:"" help:"Goal title, ID or ID prefix."`
}

func (c *GoalShowCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	current, percent, err := session.GoalProgress(g)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s (%d)", g.Title, g.Year)))
	if g.Description != "" {
		fmt.Println(cli.MutedStyle.Render(g.Description))
	}
	fmt.Printf("%s %.0f%%  %s\n", cli.Bar(percent, 20), percent, progressLabel(g, current))

	if g.TargetType == models.TargetItems {
		items, err := session.GoalItems(g.ID)
		if err != nil {
			return err
		}
		for i, it := range items {
			box := "[ ]"
			if it.Completed {
				box = cli.SuccessStyle.Render("[x]")
			}
			fmt.Printf("  %2d. %s %s\n", i+1, box, it.Title)
		}
		return nil
	}

	updates, err := session.ProgressUpdates(g.ID)
	if err != nil {
		return err
	}
	for i, u := range updates {
		fmt.Printf("  %2d. %s  %+g %s", i+1, u.CreatedAt.In(session.Location()).Format("2006-01-02"), u.Amount, g.Unit)
		if u.Note != "" {
			fmt.Print(cli.MutedStyle.Render("  " + u.Note))
		}
		fmt.Println()
	}
	return nil
}

type GoalArchiveCmd struct {
	Goal      string `arg:"" help:"Goal title, ID or ID prefix."`
	Unarchive bool   `help:"Restore an archived goal."`
}

func (c *GoalArchiveCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	if _, err := session.ArchiveGoal(g.ID, !c.Unarchive); err != nil {
		return err
	}
	if c.Unarchive {
		fmt.Printf("Restored goal %s\n", g.Title)
	} else {
		fmt.Printf("Archived goal %s\n", g.Title)
	}
	return nil
}

type GoalDeleteCmd struct {
	Goal string `arg:"" help:"Goal title, ID or ID prefix."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	g, err := findGoal(session, c.Goal)
	if err != nil {
		return err
	}
	ok, err := cli.Confirm(fmt.Sprintf("Delete goal %q with all its items and progress?", g.Title), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if _, err := session.DeleteGoal(g.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	fmt.Printf("Deleted goal %s\n", g.Title)
	return nil
}

func findGoal(session *tracker.Session, ref string) (models.Goal, error) {
	g, found, err := session.FindGoal(ref)
	if err != nil {
		return models.Goal{}, err
	}
	if !found {
		return models.Goal{}, fmt.Errorf("goal not found: %s", ref)
	}
	return g, nil
}

func progressLabel(g models.Goal, current float64) string {
	label := fmt.Sprintf("%g/%g", current, g.TargetValue)
	if g.Unit != "" {
		label += " " + g.Unit
	}
	return cli.MutedStyle.Render(label)
}

// pick resolves a 1-based position or an ID prefix against ids.
func pick(ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("no entry #%d", n)
		}
		return ids[n-1], nil
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%q is ambiguous", ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no entry matches %q", ref)
	}
	return match, nil
}

func printChange(change tracker.GoalChange) {
	if change.Completed {
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("🎯 Goal reached: %s", change.Goal.Title)))
	}
	cli.PrintUnlocked(change.Unlocked)
}
