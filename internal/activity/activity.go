// Package activity derives the per-day completion summary from tasks and
// completions.
package activity

import (
	"fmt"
	"math"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Compute builds the DayActivity for date. It returns false when no task
// applies on that weekday, in which case nothing should be written.
//
// Completions are counted per distinct applicable task, so a task completed
// twice on the same date still counts once.
func Compute(tasks []models.Task, completions []models.TaskCompletion, date string, cheat models.CheatDayConfig) (models.DayActivity, bool, error) {
	weekday, err := utils.Weekday(date)
	if err != nil {
		return models.DayActivity{}, false, err
	}

	applicable := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.AppliesOn(weekday) {
			applicable[t.ID] = true
		}
	}
	if len(applicable) == 0 {
		return models.DayActivity{}, false, nil
	}

	done := make(map[string]bool)
	for _, c := range completions {
		if c.Date == date && applicable[c.TaskID] {
			done[c.TaskID] = true
		}
	}

	total := len(applicable)
	return models.DayActivity{
		Date:           date,
		CompletionRate: Rate(len(done), total),
		TasksCompleted: len(done),
		TaskTotal:      total,
		CheatDay:       cheat.IsUsed(date),
	}, true, nil
}

// Rate is round(100*completed/total), 0 when total is 0.
func Rate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Upsert replaces the record with the same date or appends rec.
func Upsert(activities []models.DayActivity, rec models.DayActivity) []models.DayActivity {
	for i := range activities {
		if activities[i].Date == rec.Date {
			activities[i] = rec
			return activities
		}
	}
	return append(activities, rec)
}

// Remove drops the record for date. The bool reports whether one existed.
func Remove(activities []models.DayActivity, date string) ([]models.DayActivity, bool) {
	for i := range activities {
		if activities[i].Date == date {
			return append(activities[:i], activities[i+1:]...), true
		}
	}
	return activities, false
}

// Index maps activities by date.
func Index(activities []models.DayActivity) map[string]models.DayActivity {
	m := make(map[string]models.DayActivity, len(activities))
	for _, a := range activities {
		m[a.Date] = a
	}
	return m
}

// Aggregator recomputes and persists DayActivity records. It never touches
// the streak.
type Aggregator struct {
	records *storage.Records
}

// NewAggregator returns an Aggregator over records.
func NewAggregator(records *storage.Records) *Aggregator {
	return &Aggregator{records: records}
}

type inputs struct {
	tasks       []models.Task
	completions []models.TaskCompletion
	cheat       models.CheatDayConfig
	activities  []models.DayActivity
}

func (a *Aggregator) load() (inputs, error) {
	var in inputs
	var err error
	if in.tasks, err = a.records.Tasks(); err != nil {
		return in, err
	}
	if in.completions, err = a.records.Completions(); err != nil {
		return in, err
	}
	if in.cheat, err = a.records.CheatDays(); err != nil {
		return in, err
	}
	if in.activities, err = a.records.Activities(); err != nil {
		return in, err
	}
	return in, nil
}

// Recompute rebuilds the record for date. written is false when no task
// applies on that date, and any record left over from earlier tasks is
// removed.
func (a *Aggregator) Recompute(date string) (rec models.DayActivity, written bool, err error) {
	in, err := a.load()
	if err != nil {
		return models.DayActivity{}, false, err
	}

	rec, ok, err := Compute(in.tasks, in.completions, date, in.cheat)
	if err != nil {
		return models.DayActivity{}, false, err
	}
	if !ok {
		kept, removed := Remove(in.activities, date)
		if removed {
			if err := a.records.SaveActivities(kept); err != nil {
				return models.DayActivity{}, false, err
			}
			logger.Debug("Stale activity removed", "date", date)
		}
		return models.DayActivity{}, false, nil
	}
	if err := a.records.SaveActivities(Upsert(in.activities, rec)); err != nil {
		return models.DayActivity{}, false, err
	}
	logger.Debug("Activity recomputed", "date", date, "rate", rec.CompletionRate)
	return rec, true, nil
}

// RecomputeRange rebuilds every date from..to inclusive with a single read
// and a single write, returning how many records were written. Records of
// dates without applicable tasks are removed.
func (a *Aggregator) RecomputeRange(from, to string) (int, error) {
	days, err := utils.DateRange(from, to)
	if err != nil {
		return 0, err
	}
	if len(days) > constants.RecomputeMaxDays {
		return 0, fmt.Errorf("range of %d days exceeds the limit of %d", len(days), constants.RecomputeMaxDays)
	}

	in, err := a.load()
	if err != nil {
		return 0, err
	}

	written, removed := 0, 0
	for _, day := range days {
		rec, ok, err := Compute(in.tasks, in.completions, day, in.cheat)
		if err != nil {
			return 0, err
		}
		if !ok {
			var dropped bool
			if in.activities, dropped = Remove(in.activities, day); dropped {
				removed++
			}
			continue
		}
		in.activities = Upsert(in.activities, rec)
		written++
	}
	if written == 0 && removed == 0 {
		return 0, nil
	}
	if err := a.records.SaveActivities(in.activities); err != nil {
		return 0, err
	}
	logger.Info("Activity range recomputed", "from", from, "to", to, "written", written, "removed", removed)
	return written, nil
}
