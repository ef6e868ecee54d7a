// Package streak computes the run of consecutive qualifying days ending
// today.
package streak

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Qualifies reports whether a day extends the streak: its completion rate
// reaches the threshold, or a cheat day was used on it.
func Qualifies(rec models.DayActivity, hasRecord, cheat bool) bool {
	if hasRecord && rec.CompletionRate >= constants.StreakThreshold {
		return true
	}
	return cheat
}

// Current walks backward from today, one day at a time for at most
// StreakScanLimit days, and stops at the first day that does not qualify.
// Today without any activity breaks the streak like any other day.
func Current(activities []models.DayActivity, cheatDates []string, today string) (int, error) {
	byDate := make(map[string]models.DayActivity, len(activities))
	for _, a := range activities {
		byDate[a.Date] = a
	}
	cheats := make(map[string]bool, len(cheatDates))
	for _, d := range cheatDates {
		cheats[d] = true
	}

	day, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := 0; i < constants.StreakScanLimit; i++ {
		date := day.Format(constants.DateFormat)
		rec, ok := byDate[date]
		if !Qualifies(rec, ok, cheats[date]) {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count, nil
}

// Longest is a running maximum of every streak value seen so far. It does
// not rescan history, so edits to past days can leave it above or below the
// true historical best.
func Longest(previous, current int) int {
	if current > previous {
		return current
	}
	return previous
}

// Calculator recomputes and persists the streak record.
type Calculator struct {
	records *storage.Records
	now     func() time.Time
}

// NewCalculator returns a Calculator over records. A nil now uses the wall clock.
func NewCalculator(records *storage.Records, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{records: records, now: now}
}

// Refresh recomputes the current streak ending at today and folds it into
// the stored longest streak.
func (c *Calculator) Refresh(today string) (models.StreakRecord, error) {
	activities, err := c.records.Activities()
	if err != nil {
		return models.StreakRecord{}, err
	}
	cheat, err := c.records.CheatDays()
	if err != nil {
		return models.StreakRecord{}, err
	}
	stored, err := c.records.Streak()
	if err != nil {
		return models.StreakRecord{}, err
	}

	current, err := Current(activities, cheat.UsedDates, today)
	if err != nil {
		return models.StreakRecord{}, err
	}
	rec := models.StreakRecord{
		Current:   current,
		Longest:   Longest(stored.Longest, current),
		UpdatedAt: c.now(),
	}
	if err := c.records.SaveStreak(rec); err != nil {
		return models.StreakRecord{}, err
	}
	if rec.Longest > stored.Longest {
		logger.Info("New longest streak", "days", rec.Longest)
	}
	return rec, nil
}
