package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

type StatsCmd struct {
	Days int    `short:"n" help:"Number of days ending today." default:"30"`
	From string `help:"Start date (YYYY-MM-DD), overrides --days."`
	To   string `help:"End date (YYYY-MM-DD), defaults to today."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	to := c.To
	if to == "" {
		to = session.CurrentDate()
	}
	from := c.From
	if from == "" {
		if c.Days < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		if from, err = utils.AddDays(to, 1-c.Days); err != nil {
			return err
		}
	}

	sum, err := session.Summarize(from, to)
	if err != nil {
		return err
	}
	st, err := session.RefreshStreak()
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Stats %s → %s", sum.From, sum.To)))
	fmt.Printf("  Average completion: %s %.0f%%\n", cli.Bar(sum.AverageRate, 20), sum.AverageRate)
	fmt.Printf("  Days tracked:       %d\n", sum.TrackedDays)
	fmt.Printf("  Perfect days:       %d\n", sum.PerfectDays)
	fmt.Printf("  Completions:        %d\n", sum.Completions)
	fmt.Printf("  Cheat days:         %d\n", sum.CheatDays)
	fmt.Printf("  Streak:             %d (best %d)\n", st.Current, st.Longest)
	return nil
}

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM), defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	anchor := session.CurrentDate()
	if c.Month != "" {
		m, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", c.Month)
		}
		anchor = m.Format(constants.DateFormat)
	}
	first, last, err := utils.MonthBounds(anchor)
	if err != nil {
		return err
	}

	days, err := session.History(first, last)
	if err != nil {
		return err
	}
	lead, err := utils.Weekday(first)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(anchor[:7]))
	fmt.Println(cli.MutedStyle.Render(" Sun Mon Tue Wed Thu Fri Sat"))
	var row strings.Builder
	row.WriteString(strings.Repeat("    ", int(lead)))
	col := int(lead)
	for _, d := range days {
		row.WriteString(" " + cli.RateCell(d.Rate, d.Present, d.CheatDay))
		col++
		if col == 7 {
			fmt.Println(row.String())
			row.Reset()
			col = 0
		}
	}
	if col > 0 {
		fmt.Println(row.String())
	}
	fmt.Println(cli.MutedStyle.Render("Cells show completion %; C = cheat day, · = no record"))
	return nil
}

type RecomputeCmd struct {
	From string `help:"First date to rebuild (YYYY-MM-DD), defaults to 30 days ago."`
	To   string `help:"Last date to rebuild (YYYY-MM-DD), defaults to today."`
}

func (c *RecomputeCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	to := c.To
	if to == "" {
		to = session.CurrentDate()
	}
	from := c.From
	if from == "" {
		if from, err = utils.AddDays(to, -29); err != nil {
			return err
		}
	}

	ctx.PerformAutomaticBackup()
	n, st, err := session.Recompute(from, to)
	if err != nil {
		return fmt.Errorf("recompute failed: %w", err)
	}
	fmt.Printf("Rebuilt %d day(s) of activity from %s to %s.\n", n, from, to)
	fmt.Printf("Streak: %d day(s), best %d\n", st.Current, st.Longest)
	return nil
}
