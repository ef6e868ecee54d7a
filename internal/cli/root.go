package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

type Context struct {
	Config *config.Config
	Target string
	Store  storage.Provider
	// Now overrides the wall clock, for tests.
	Now func() time.Time

	session *tracker.Session
}

// Records wraps the store in the typed collection layer.
func (c *Context) Records() *storage.Records {
	if c.session != nil {
		return c.session.Records()
	}
	return storage.NewRecords(c.Store)
}

// Tracker returns the session for the loaded store, built on first use from
// the stored settings. HABITUAL_TIMEZONE overrides the stored timezone.
func (c *Context) Tracker() (*tracker.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	records := storage.NewRecords(c.Store)
	settings, err := records.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	tz := settings.Timezone
	if c.Config != nil && c.Config.Timezone != "" {
		tz = c.Config.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, err
	}

	c.session = tracker.New(records, tracker.Options{
		Location:   loc,
		Now:        c.Now,
		BasePoints: settings.BasePoints,
	})
	return c.session, nil
}

// BackupManager returns the backup manager for file stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if storage.KindOf(c.Target) == storage.KindPostgres {
		return nil, backup.ErrUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots the store before a destructive command
// when auto backup is on. Failures are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	settings, err := c.Records().Settings()
	if err != nil || !settings.AutoBackup {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays, by name,
// abbreviation or number (0=Sunday). The result is sorted and deduplicated.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("no weekdays given")
	}

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	seen := make(map[time.Weekday]bool)
	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		wd, ok := dayMap[part]
		if !ok {
			num, err := strconv.Atoi(part)
			if err != nil || num < 0 || num > 6 {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
			wd = time.Weekday(num)
		}
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}
	sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })
	return weekdays, nil
}

// FormatFrequency renders a task's schedule for listings.
func FormatFrequency(t models.Task) string {
	switch t.Frequency {
	case models.FrequencyCustom:
		days := make([]string, 0, len(t.Weekdays))
		for _, wd := range t.Weekdays {
			days = append(days, wd.String()[:3])
		}
		return "on " + strings.Join(days, ",")
	case models.FrequencyWeekly:
		if t.TimesPerWeek > 0 {
			return fmt.Sprintf("%dx per week", t.TimesPerWeek)
		}
		return "weekly"
	case models.FrequencyDaily:
		return "daily"
	default:
		return "unknown"
	}
}

// ShortID trims a UUID for display; FindTask and FindGoal accept it back.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
