package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/activity"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Remove duplicate and orphaned records, then rebuild daily activity."`
	Yes bool `short:"y" help:"Do not ask for confirmation before fixing."`
}

type check struct {
	name      string
	needsData bool
	warnOnly  bool
	run       func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsData: true, run: checkSchemaVersion},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Data validation", needsData: true, run: checkValidation},
	{name: "Derived activity", needsData: true, warnOnly: true, run: checkDerivedActivity},
	{name: "Clock/timezone", needsData: true, run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true
	if err := ctx.Store.Load(); err != nil {
		printFail("Store reachable", err)
		hasError = true
		reachable = false
	} else {
		printOK("Store reachable")
	}

	for _, c := range checks {
		if c.needsData && !reachable {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (store not reachable)", c.name)))
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			printOK(c.name)
		case c.warnOnly:
			fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("⚠ %s: WARNING", c.name)))
			fmt.Printf("   %v\n", err)
		default:
			printFail(c.name, err)
			hasError = true
		}
	}

	if path := logger.Path(); path != "" {
		fmt.Println(cli.MutedStyle.Render("Log file: " + path))
	}
	fmt.Println()
	if cmd.Fix && reachable {
		return cmd.fix(ctx)
	}
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		if reachable {
			fmt.Println("Run 'habitual doctor --fix' to repair record problems.")
		}
		return errors.New("one or more health checks failed")
	}

	fmt.Println(cli.SuccessStyle.Render("All diagnostics passed!"))
	return nil
}

func (cmd *DoctorCmd) fix(ctx *cli.Context) error {
	ok, err := cli.Confirm("Repair the store now? A backup is taken first when auto backup is on.", cmd.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("repair cancelled")
	}
	ctx.PerformAutomaticBackup()

	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	report, err := session.Repair()
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	fmt.Printf("Removed %d duplicate and %d orphaned completion(s), %d orphaned goal record(s).\n",
		report.DuplicatesRemoved, report.OrphansRemoved, report.GoalRecordsRemoved)
	fmt.Printf("Rebuilt %d day(s) of activity. Current streak: %d\n", report.ActivitiesRebuilt, report.Streak.Current)
	fmt.Println(cli.SuccessStyle.Render("✓ Repair complete"))
	return nil
}

func printOK(name string) {
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s: OK", name)))
}

func printFail(name string, err error) {
	fmt.Println(cli.DangerStyle.Render(fmt.Sprintf("❌ %s: FAIL", name)))
	fmt.Printf("   Error: %v\n", err)
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON stores carry no schema
		return nil
	}
	current, latest, err := migrator.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitual migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if errors.Is(err, backup.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	records := ctx.Records()
	tasks, err := records.Tasks()
	if err != nil {
		return fmt.Errorf("failed to read tasks: %w", err)
	}
	completions, err := records.Completions()
	if err != nil {
		return fmt.Errorf("failed to read completions: %w", err)
	}
	activities, err := records.Activities()
	if err != nil {
		return fmt.Errorf("failed to read activities: %w", err)
	}
	gs, err := records.Goals()
	if err != nil {
		return fmt.Errorf("failed to read goals: %w", err)
	}
	items, err := records.GoalItems()
	if err != nil {
		return fmt.Errorf("failed to read goal items: %w", err)
	}
	updates, err := records.ProgressUpdates()
	if err != nil {
		return fmt.Errorf("failed to read progress updates: %w", err)
	}

	v := validation.New()
	result := v.ValidateTasks(tasks)
	result.Merge(v.ValidateCompletions(completions, tasks))
	result.Merge(v.ValidateActivities(activities))
	result.Merge(v.ValidateGoals(gs, items, updates))
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found\n%s", len(result.Conflicts), result.FormatReport())
	}
	return nil
}

// checkDerivedActivity recomputes every stored day and reports records
// that no longer match their tasks and completions. Task edits only refresh
// today, so older mismatches are expected and only warned about.
func checkDerivedActivity(ctx *cli.Context) error {
	records := ctx.Records()
	tasks, err := records.Tasks()
	if err != nil {
		return err
	}
	completions, err := records.Completions()
	if err != nil {
		return err
	}
	activities, err := records.Activities()
	if err != nil {
		return err
	}
	cheat, err := records.CheatDays()
	if err != nil {
		return err
	}

	stale := 0
	for _, stored := range activities {
		fresh, ok, err := activity.Compute(tasks, completions, stored.Date, cheat)
		if err != nil {
			continue // reported by data validation
		}
		if !ok || fresh != stored {
			stale++
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d day(s) of activity are out of date (run 'habitual recompute')", stale)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Tracker(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}
