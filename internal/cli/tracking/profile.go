package tracking

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type ProfileCmd struct {
	Rename string `help:"Change the display name."`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var p models.UserProfile
	if c.Rename != "" {
		p, err = session.RenameProfile(c.Rename)
	} else {
		p, err = session.Profile()
	}
	if err != nil {
		return err
	}

	percent := 0.0
	if p.PointsToNextLevel > 0 {
		percent = float64(p.Points) / float64(p.PointsToNextLevel) * 100
	}
	fmt.Println(cli.TitleStyle.Render(p.Name))
	fmt.Printf("Level %d  %s %d/%d XP\n", p.Level, cli.Bar(percent, 20), p.Points, p.PointsToNextLevel)
	if !p.CreatedAt.IsZero() {
		fmt.Println(cli.MutedStyle.Render("Tracking since " + p.CreatedAt.In(session.Location()).Format("2006-01-02")))
	}
	return nil
}

type BadgesCmd struct {
	All bool `help:"Include locked badges."`
}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	badges, err := session.Badges()
	if err != nil {
		return err
	}

	unlocked := 0
	for _, b := range badges {
		if b.Unlocked() {
			unlocked++
		}
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Badges (%d/%d)", unlocked, len(badges))))
	for _, b := range badges {
		switch {
		case b.Unlocked():
			fmt.Printf("  🏅 %-16s %-10s %s\n", b.Name, b.Rarity, cli.MutedStyle.Render(b.UnlockedAt.In(session.Location()).Format("2006-01-02")))
		case c.All:
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("  🔒 %-16s %-10s %s", b.Name, b.Rarity, b.Description)))
		}
	}
	return nil
}
