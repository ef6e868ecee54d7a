package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/goals"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/cli/tasks"
	"github.com/julianstephens/habitual/internal/cli/tracking"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path (.db or .json) or PostgreSQL connection string. Overrides HABITUAL_CONFIG."`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitual storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending schema migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Check the store for problems."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`

	Today     tracking.TodayCmd     `cmd:"" help:"Show today's checklist." default:"1"`
	Done      tracking.DoneCmd      `cmd:"" help:"Mark a task as done."`
	Undo      tracking.UndoCmd      `cmd:"" help:"Remove a task completion."`
	Streak    tracking.StreakCmd    `cmd:"" help:"Show the current and longest streak."`
	Cheat     tracking.CheatCmd     `cmd:"" help:"Use or inspect cheat days."`
	Profile   tracking.ProfileCmd   `cmd:"" help:"Show level and points."`
	Badges    tracking.BadgesCmd    `cmd:"" help:"List earned badges."`
	Stats     tracking.StatsCmd     `cmd:"" help:"Summarize completion history."`
	Calendar  tracking.CalendarCmd  `cmd:"" help:"Show a month of completion rates."`
	Recompute tracking.RecomputeCmd `cmd:"" help:"Rebuild daily activity from completions."`

	Task struct {
		Add     tasks.TaskAddCmd     `cmd:"" help:"Add a new task."`
		Edit    tasks.TaskEditCmd    `cmd:"" help:"Edit an existing task."`
		Delete  tasks.TaskDeleteCmd  `cmd:"" help:"Delete a task."`
		List    tasks.TaskListCmd    `cmd:"" help:"List all tasks." default:"1"`
		Reorder tasks.TaskReorderCmd `cmd:"" help:"Change the display order of tasks."`
	} `cmd:"" help:"Manage tasks."`

	Goal     goals.GoalCmd        `cmd:"" help:"Manage yearly goals."`
	Backup   backups.BackupCmd    `cmd:"" help:"Create, list and restore backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change settings."`
}

// Commands that manage the store themselves and must not require an
// initialized one.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
	"backup":  true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, points, badges and yearly goals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": constants.Version},
	)

	target, err := cfg.ResolveStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: config.ConfigDir(target),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", storage.KindOf(target))

	store, err := storage.Open(target)
	if err != nil {
		apperrors.Fatal(err)
	}

	cmd := strings.Fields(ctx.Command())
	if len(cmd) > 0 && !selfLoading[cmd[0]] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(&cli.Context{
		Config: cfg,
		Target: target,
		Store:  store,
	})
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}
