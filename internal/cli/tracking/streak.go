package tracking

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cheatday"
	"github.com/julianstephens/habitual/internal/cli"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	st, err := session.RefreshStreak()
	if err != nil {
		return fmt.Errorf("failed to compute streak: %w", err)
	}
	fmt.Printf("🔥 Current streak: %d day(s)\n", st.Current)
	fmt.Printf("   Longest streak: %d day(s)\n", st.Longest)
	return nil
}

type CheatCmd struct {
	Use    CheatUseCmd    `cmd:"" help:"Spend a cheat day to protect the streak."`
	Status CheatStatusCmd `cmd:"" help:"Show this month's cheat-day quota." default:"1"`
}

type CheatUseCmd struct {
	Date string `arg:"" optional:"" help:"Date to cover (YYYY-MM-DD), defaults to today."`
}

func (c *CheatUseCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	ok, err := session.UseCheatDay(c.Date)
	if !ok {
		switch {
		case errors.Is(err, cheatday.ErrQuotaExhausted):
			return errors.New("no cheat days left this month")
		case errors.Is(err, cheatday.ErrConsecutive):
			return errors.New("cheat days cannot be used on two consecutive days")
		case errors.Is(err, cheatday.ErrAlreadyUsed):
			return errors.New("a cheat day is already used on that date")
		default:
			return err
		}
	}
	if err != nil {
		return fmt.Errorf("cheat day recorded but recomputation failed: %w", err)
	}

	cfg, err := session.CheatDays()
	if err != nil {
		return err
	}
	fmt.Println(cli.WarningStyle.Render("Cheat day used. Your streak is safe."))
	fmt.Printf("Cheat days left this month: %d\n", cheatday.Remaining(cfg))
	return nil
}

type CheatStatusCmd struct{}

func (c *CheatStatusCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	cfg, err := session.CheatDays()
	if err != nil {
		return err
	}
	fmt.Printf("Cheat days: %d of %d used this month (%d left)\n",
		cfg.UsedThisMonth, cfg.MaxPerMonth, cheatday.Remaining(cfg))
	if n := len(cfg.UsedDates); n > 0 {
		recent := cfg.UsedDates[max(0, n-5):]
		fmt.Printf("Recent: %v\n", recent)
	}
	return nil
}
