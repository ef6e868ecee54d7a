package tracker

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/activity"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// DayStat is one day of history. Present is false for days without a
// stored activity record.
type DayStat struct {
	Date        string
	Rate        int
	Completed   int
	Total       int
	Present     bool
	CheatDay    bool
	Completions int
}

// Summary aggregates a history range.
type Summary struct {
	From        string
	To          string
	TrackedDays int
	AverageRate float64
	PerfectDays int
	Completions int
	CheatDays   int
}

// History returns one entry per day from from to to, both inclusive.
// Missing days are zero-filled.
func (s *Session) History(from, to string) ([]DayStat, error) {
	dates, err := utils.DateRange(from, to)
	if err != nil {
		return nil, err
	}
	if len(dates) > constants.RecomputeMaxDays {
		return nil, fmt.Errorf("range of %d days exceeds the limit of %d", len(dates), constants.RecomputeMaxDays)
	}

	activities, err := s.records.Activities()
	if err != nil {
		return nil, err
	}
	completions, err := s.records.Completions()
	if err != nil {
		return nil, err
	}
	cheat, err := s.records.CheatDays()
	if err != nil {
		return nil, err
	}

	byDate := activity.Index(activities)
	counts := make(map[string]int)
	for _, c := range completions {
		counts[c.Date]++
	}

	out := make([]DayStat, 0, len(dates))
	for _, d := range dates {
		rec, ok := byDate[d]
		out = append(out, DayStat{
			Date:        d,
			Rate:        rec.CompletionRate,
			Completed:   rec.TasksCompleted,
			Total:       rec.TaskTotal,
			Present:     ok,
			CheatDay:    rec.CheatDay || cheat.IsUsed(d),
			Completions: counts[d],
		})
	}
	return out, nil
}

// Summarize aggregates History over the same range. The average rate only
// covers days with an activity record.
func (s *Session) Summarize(from, to string) (Summary, error) {
	days, err := s.History(from, to)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{From: from, To: to}
	total := 0
	for _, d := range days {
		sum.Completions += d.Completions
		if d.CheatDay {
			sum.CheatDays++
		}
		if !d.Present {
			continue
		}
		sum.TrackedDays++
		total += d.Rate
		if d.Rate >= constants.PerfectDayRate {
			sum.PerfectDays++
		}
	}
	if sum.TrackedDays > 0 {
		sum.AverageRate = float64(total) / float64(sum.TrackedDays)
	}
	return sum, nil
}
