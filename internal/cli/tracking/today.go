package tracking

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	view, err := session.Today()
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Today, " + view.Date))
	if len(view.Items) == 0 {
		fmt.Println("Nothing scheduled today.")
	}

	for _, slot := range models.TimesOfDay {
		header := false
		for _, item := range view.Items {
			if item.Task.TimeOfDay != slot {
				continue
			}
			if !header {
				fmt.Println(cli.MutedStyle.Render(string(slot)))
				header = true
			}
			box := "[ ]"
			if item.Done {
				box = cli.SuccessStyle.Render("[x]")
			}
			fmt.Printf("  %s %s", box, item.Task.Name)
			if item.Count > 1 {
				fmt.Print(cli.MutedStyle.Render(fmt.Sprintf(" x%d", item.Count)))
			}
			fmt.Println()
		}
	}

	fmt.Println()
	if view.HasActivity {
		fmt.Printf("%s %d%%\n", cli.Bar(float64(view.Activity.CompletionRate), 20), view.Activity.CompletionRate)
	}
	fmt.Printf("Streak: %d day(s), best %d\n", view.Streak.Current, view.Streak.Longest)
	if view.CheatDay {
		fmt.Println(cli.WarningStyle.Render("Cheat day in effect"))
	}
	fmt.Printf("Cheat days left this month: %d\n", view.CheatDaysLeft)
	return nil
}
