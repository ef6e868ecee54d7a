// Package tracker is the application session: it owns the record store and
// runs every user action through activity, streak, points and badges in a
// fixed, synchronous order.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/activity"
	"github.com/julianstephens/habitual/internal/cheatday"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gamification"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrFutureDate is returned for actions dated after today.
var ErrFutureDate = errors.New("date is in the future")

// Options configures a Session. Zero values fall back to the local
// timezone, the wall clock and the default base points.
type Options struct {
	Location   *time.Location
	Now        func() time.Time
	BasePoints int
	NewID      func() string
}

// Session is the explicit application state handed to every command.
type Session struct {
	records    *storage.Records
	loc        *time.Location
	now        func() time.Time
	basePoints int
	newID      func() string

	activity *activity.Aggregator
	streak   *streak.Calculator
	ledger   *gamification.Ledger
	quota    *cheatday.Quota
}

// New builds a Session over records, filling unset options with defaults.
func New(records *storage.Records, opts Options) *Session {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BasePoints <= 0 {
		opts.BasePoints = constants.DefaultBasePoints
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Session{
		records:    records,
		loc:        opts.Location,
		now:        opts.Now,
		basePoints: opts.BasePoints,
		newID:      opts.NewID,
		activity:   activity.NewAggregator(records),
		streak:     streak.NewCalculator(records, opts.Now),
		ledger:     gamification.NewLedger(records, opts.Now),
		quota:      cheatday.NewQuota(records),
	}
}

// Records exposes the typed store for commands that manage settings.
func (s *Session) Records() *storage.Records {
	return s.records
}

// CurrentDate is today's date in the session's timezone.
func (s *Session) CurrentDate() string {
	return utils.DateOf(s.now(), s.loc)
}

// Location is the timezone dates are computed in.
func (s *Session) Location() *time.Location {
	return s.loc
}

// resolveDate defaults an empty date to today and rejects malformed or
// future dates.
func (s *Session) resolveDate(date string) (string, error) {
	today := s.CurrentDate()
	if date == "" {
		return today, nil
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if date > today {
		return "", fmt.Errorf("%w: %s", ErrFutureDate, date)
	}
	return date, nil
}

// Bootstrap writes the initial records of a new store: a named profile,
// default settings, the badge catalog and a cheat-day config starting this
// month.
func (s *Session) Bootstrap(name string) error {
	profile := storage.DefaultProfile()
	if name != "" {
		profile.Name = name
	}
	profile.CreatedAt = s.now()
	if err := s.records.SaveProfile(profile); err != nil {
		return err
	}

	settings := storage.DefaultSettings()
	if s.loc != time.Local {
		settings.Timezone = s.loc.String()
	}
	if err := s.records.SaveSettings(settings); err != nil {
		return err
	}

	cheat := storage.DefaultCheatDays()
	cheat.LastResetDate = s.CurrentDate()
	if err := s.records.SaveCheatDays(cheat); err != nil {
		return err
	}

	_, err := s.ledger.Badges()
	return err
}

// refresh recomputes date's activity, then today's streak.
func (s *Session) refresh(date string) (models.DayActivity, bool, models.StreakRecord, error) {
	rec, written, err := s.activity.Recompute(date)
	if err != nil {
		return models.DayActivity{}, false, models.StreakRecord{}, fmt.Errorf("failed to recompute activity: %w", err)
	}
	st, err := s.streak.Refresh(s.CurrentDate())
	if err != nil {
		return models.DayActivity{}, false, models.StreakRecord{}, fmt.Errorf("failed to refresh streak: %w", err)
	}
	return rec, written, st, nil
}

// RefreshStreak recomputes the streak as of today.
func (s *Session) RefreshStreak() (models.StreakRecord, error) {
	return s.streak.Refresh(s.CurrentDate())
}

// Recompute rebuilds activity for a date range and refreshes the streak.
func (s *Session) Recompute(from, to string) (int, models.StreakRecord, error) {
	n, err := s.activity.RecomputeRange(from, to)
	if err != nil {
		return 0, models.StreakRecord{}, err
	}
	st, err := s.RefreshStreak()
	if err != nil {
		return n, models.StreakRecord{}, err
	}
	return n, st, nil
}

// Profile returns the stored profile.
func (s *Session) Profile() (models.UserProfile, error) {
	return s.records.Profile()
}

// RenameProfile changes the display name.
func (s *Session) RenameProfile(name string) (models.UserProfile, error) {
	if name == "" {
		return models.UserProfile{}, errors.New("profile name cannot be empty")
	}
	p, err := s.records.Profile()
	if err != nil {
		return models.UserProfile{}, err
	}
	p.Name = name
	if err := s.records.SaveProfile(p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// Badges returns the badge list, seeding the catalog on first use.
func (s *Session) Badges() ([]models.Badge, error) {
	return s.ledger.Badges()
}

// CheatDays returns the quota as of today.
func (s *Session) CheatDays() (models.CheatDayConfig, error) {
	return s.quota.Status(s.CurrentDate())
}

// UseCheatDay spends a cheat day on date (today when empty). A refused
// request returns false together with one of the cheatday sentinel errors.
func (s *Session) UseCheatDay(date string) (bool, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return false, err
	}
	ok, err := s.quota.Use(date, s.CurrentDate())
	if !ok {
		return false, err
	}
	if _, _, _, err := s.refresh(date); err != nil {
		return true, err
	}
	if _, err := s.ledger.EvaluateBadges(); err != nil {
		return true, err
	}
	return true, nil
}
