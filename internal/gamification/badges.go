package gamification

import (
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Requirement kinds understood by Evaluate.
const (
	KindStreak      = "streak"
	KindCompletions = "completions"
	KindLevel       = "level"
	KindPerfectDays = "perfect_days"
	KindGoals       = "goals"
	KindTasks       = "tasks"
)

// Stats is the snapshot badge requirements are checked against.
type Stats struct {
	LongestStreak  int
	Completions    int
	Level          int
	PerfectDays    int
	GoalsCompleted int
	Tasks          int
}

func (s Stats) value(kind string) (int, bool) {
	switch kind {
	case KindStreak:
		return s.LongestStreak, true
	case KindCompletions:
		return s.Completions, true
	case KindLevel:
		return s.Level, true
	case KindPerfectDays:
		return s.PerfectDays, true
	case KindGoals:
		return s.GoalsCompleted, true
	case KindTasks:
		return s.Tasks, true
	default:
		return 0, false
	}
}

// DefaultCatalog is the fixed set of badges seeded into a new store.
func DefaultCatalog() []models.Badge {
	return []models.Badge{
		{ID: "first-step", Name: "First Step", Description: "Complete your first task", Rarity: models.RarityCommon, Requirement: "completions:1"},
		{ID: "planner", Name: "Planner", Description: "Define five habits", Rarity: models.RarityCommon, Requirement: "tasks:5"},
		{ID: "perfect-day", Name: "Perfect Day", Description: "Finish every task in a day", Rarity: models.RarityCommon, Requirement: "perfect_days:1"},
		{ID: "week-warrior", Name: "Week Warrior", Description: "Keep a 7 day streak", Rarity: models.RarityCommon, Requirement: "streak:7"},
		{ID: "fortnight", Name: "Fortnight", Description: "Keep a 14 day streak", Rarity: models.RarityRare, Requirement: "streak:14"},
		{ID: "dedicated", Name: "Dedicated", Description: "Complete 50 tasks", Rarity: models.RarityRare, Requirement: "completions:50"},
		{ID: "perfect-week", Name: "Perfect Week", Description: "Have 7 perfect days", Rarity: models.RarityRare, Requirement: "perfect_days:7"},
		{ID: "rising-star", Name: "Rising Star", Description: "Reach level 5", Rarity: models.RarityRare, Requirement: "level:5"},
		{ID: "goal-getter", Name: "Goal Getter", Description: "Complete a yearly goal", Rarity: models.RarityRare, Requirement: "goals:1"},
		{ID: "monthly-master", Name: "Monthly Master", Description: "Keep a 30 day streak", Rarity: models.RarityEpic, Requirement: "streak:30"},
		{ID: "committed", Name: "Committed", Description: "Complete 250 tasks", Rarity: models.RarityEpic, Requirement: "completions:250"},
		{ID: "flawless", Name: "Flawless", Description: "Have 30 perfect days", Rarity: models.RarityEpic, Requirement: "perfect_days:30"},
		{ID: "veteran", Name: "Veteran", Description: "Reach level 10", Rarity: models.RarityEpic, Requirement: "level:10"},
		{ID: "achiever", Name: "Achiever", Description: "Complete five yearly goals", Rarity: models.RarityEpic, Requirement: "goals:5"},
		{ID: "centurion", Name: "Centurion", Description: "Keep a 100 day streak", Rarity: models.RarityLegendary, Requirement: "streak:100"},
		{ID: "unstoppable", Name: "Unstoppable", Description: "Complete 1000 tasks", Rarity: models.RarityLegendary, Requirement: "completions:1000"},
		{ID: "year-of-habits", Name: "Year of Habits", Description: "Keep a 365 day streak", Rarity: models.RarityLegendary, Requirement: "streak:365"},
	}
}

// MergeCatalog adds catalog entries missing from stored, keeping the unlock
// state of badges already present. It reports whether anything was added.
func MergeCatalog(stored, catalog []models.Badge) ([]models.Badge, bool) {
	have := make(map[string]bool, len(stored))
	for _, b := range stored {
		have[b.ID] = true
	}
	added := false
	for _, b := range catalog {
		if !have[b.ID] {
			stored = append(stored, b)
			added = true
		}
	}
	return stored, added
}

// Evaluate unlocks every locked badge whose threshold is met, stamping it
// with now, and returns the newly unlocked badges. Badges with unknown or
// malformed requirements are skipped.
func Evaluate(badges []models.Badge, stats Stats, now time.Time) []models.Badge {
	var unlocked []models.Badge
	for i := range badges {
		b := &badges[i]
		if b.Unlocked() {
			continue
		}
		kind, threshold, err := b.ParseRequirement()
		if err != nil {
			logger.Warn("Skipping badge with bad requirement", "badge", b.ID, "error", err)
			continue
		}
		have, ok := stats.value(kind)
		if !ok {
			logger.Warn("Skipping badge with unknown requirement kind", "badge", b.ID, "kind", kind)
			continue
		}
		if have >= threshold {
			at := now
			b.UnlockedAt = &at
			unlocked = append(unlocked, *b)
		}
	}
	return unlocked
}
