package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	Timezone   *string `help:"Set the timezone (IANA name, or Local)."`
	BasePoints *int    `help:"Set the points awarded per completion."`
	AutoBackup *bool   `help:"Back up before destructive commands." negatable:""`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	records := ctx.Records()
	s, err := records.Settings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	changed := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		s.Timezone = *c.Timezone
		changed = true
	}
	if c.BasePoints != nil {
		if *c.BasePoints < 1 {
			return fmt.Errorf("base points must be at least 1")
		}
		s.BasePoints = *c.BasePoints
		changed = true
	}
	if c.AutoBackup != nil {
		s.AutoBackup = *c.AutoBackup
		changed = true
	}

	if changed {
		if err := records.SaveSettings(s); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println(cli.SuccessStyle.Render("Settings updated."))
	}

	fmt.Printf("timezone:     %s\n", s.Timezone)
	fmt.Printf("base_points:  %d\n", s.BasePoints)
	fmt.Printf("auto_backup:  %t\n", s.AutoBackup)
	if ctx.Config != nil && ctx.Config.Timezone != "" {
		fmt.Println(cli.MutedStyle.Render("HABITUAL_TIMEZONE overrides the stored timezone: " + ctx.Config.Timezone))
	}
	return nil
}
