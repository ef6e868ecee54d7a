package tracker

import (
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// RepairReport counts what Repair changed.
type RepairReport struct {
	DuplicatesRemoved  int
	OrphansRemoved     int
	GoalRecordsRemoved int
	ActivitiesRebuilt  int
	Streak             models.StreakRecord
}

// Changed reports whether Repair wrote anything besides derived state.
func (r RepairReport) Changed() bool {
	return r.DuplicatesRemoved+r.OrphansRemoved+r.GoalRecordsRemoved > 0
}

// Repair drops repeated and orphaned completions, drops goal items and
// progress updates whose goal is gone, then rebuilds activity from the
// earliest completion through today.
func (s *Session) Repair() (RepairReport, error) {
	var report RepairReport

	tasks, err := s.records.Tasks()
	if err != nil {
		return report, err
	}
	completions, err := s.records.Completions()
	if err != nil {
		return report, err
	}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	kept := make([]models.TaskCompletion, 0, len(completions))
	for _, c := range completions {
		if !known[c.TaskID] || !utils.ValidateDateFormat(c.Date) {
			report.OrphansRemoved++
			continue
		}
		kept = append(kept, c)
	}
	kept, report.DuplicatesRemoved = validation.DedupeCompletions(kept)
	if len(kept) != len(completions) {
		if err := s.records.SaveCompletions(kept); err != nil {
			return report, err
		}
	}

	if report.GoalRecordsRemoved, err = s.pruneGoalRecords(); err != nil {
		return report, err
	}

	today := s.CurrentDate()
	from := today
	for _, c := range kept {
		if c.Date < from {
			from = c.Date
		}
	}
	if floor, err := utils.AddDays(today, 1-constants.RecomputeMaxDays); err == nil && from < floor {
		from = floor
	}
	if report.ActivitiesRebuilt, report.Streak, err = s.Recompute(from, today); err != nil {
		return report, err
	}

	logger.Info("Store repaired",
		"duplicates", report.DuplicatesRemoved,
		"orphans", report.OrphansRemoved,
		"goal_records", report.GoalRecordsRemoved,
		"rebuilt", report.ActivitiesRebuilt)
	return report, nil
}

func (s *Session) pruneGoalRecords() (int, error) {
	all, err := s.records.Goals()
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(all))
	for _, g := range all {
		known[g.ID] = true
	}

	removed := 0
	items, err := s.records.GoalItems()
	if err != nil {
		return 0, err
	}
	keptItems := make([]models.GoalItem, 0, len(items))
	for _, it := range items {
		if known[it.GoalID] {
			keptItems = append(keptItems, it)
		}
	}
	if n := len(items) - len(keptItems); n > 0 {
		if err := s.records.SaveGoalItems(keptItems); err != nil {
			return 0, err
		}
		removed += n
	}

	updates, err := s.records.ProgressUpdates()
	if err != nil {
		return removed, err
	}
	keptUpdates := make([]models.ProgressUpdate, 0, len(updates))
	for _, u := range updates {
		if known[u.GoalID] {
			keptUpdates = append(keptUpdates, u)
		}
	}
	if n := len(updates) - len(keptUpdates); n > 0 {
		if err := s.records.SaveProgressUpdates(keptUpdates); err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}
