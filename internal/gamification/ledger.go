package gamification

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Ledger applies awards and badge unlocks to the stored profile.
type Ledger struct {
	records *storage.Records
	now     func() time.Time
}

// NewLedger returns a Ledger over records, stamping unlocks with now.
func NewLedger(records *storage.Records, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{records: records, now: now}
}

// AwardPoints loads the profile, applies Award and persists the result. A
// store failure is returned as is and nothing is written.
func (l *Ledger) AwardPoints(basePoints, currentStreak int) (models.UserProfile, int, error) {
	profile, err := l.records.Profile()
	if err != nil {
		return models.UserProfile{}, 0, err
	}
	before := profile.Level

	profile, earned := Award(profile, basePoints, currentStreak)
	if err := l.records.SaveProfile(profile); err != nil {
		return models.UserProfile{}, 0, err
	}
	if profile.Level > before {
		logger.Info("Level up", "from", before, "to", profile.Level)
	}
	return profile, earned, nil
}

// Badges returns the stored badges, seeding or extending the catalog first
// when entries are missing.
func (l *Ledger) Badges() ([]models.Badge, error) {
	stored, err := l.records.Badges()
	if err != nil {
		return nil, err
	}
	merged, added := MergeCatalog(stored, DefaultCatalog())
	if added {
		if err := l.records.SaveBadges(merged); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Stats gathers the counters badge requirements refer to.
func (l *Ledger) Stats() (Stats, error) {
	var s Stats

	streak, err := l.records.Streak()
	if err != nil {
		return s, err
	}
	s.LongestStreak = max(streak.Longest, streak.Current)

	completions, err := l.records.Completions()
	if err != nil {
		return s, err
	}
	s.Completions = len(completions)

	profile, err := l.records.Profile()
	if err != nil {
		return s, err
	}
	s.Level = profile.Level

	activities, err := l.records.Activities()
	if err != nil {
		return s, err
	}
	for _, a := range activities {
		if a.CompletionRate >= constants.PerfectDayRate {
			s.PerfectDays++
		}
	}

	goals, err := l.records.Goals()
	if err != nil {
		return s, err
	}
	for _, g := range goals {
		if g.CompletedAt != nil {
			s.GoalsCompleted++
		}
	}

	tasks, err := l.records.Tasks()
	if err != nil {
		return s, err
	}
	s.Tasks = len(tasks)
	return s, nil
}

// EvaluateBadges unlocks whatever the current stats earn and persists the
// badge list when something changed.
func (l *Ledger) EvaluateBadges() ([]models.Badge, error) {
	badges, err := l.Badges()
	if err != nil {
		return nil, err
	}
	stats, err := l.Stats()
	if err != nil {
		return nil, err
	}

	unlocked := Evaluate(badges, stats, l.now())
	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := l.records.SaveBadges(badges); err != nil {
		return nil, err
	}
	for _, b := range unlocked {
		logger.Info("Badge unlocked", "badge", b.ID)
	}
	return unlocked, nil
}
