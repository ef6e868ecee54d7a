package tracker

import (
	"fmt"
	"slices"

	"github.com/julianstephens/habitual/internal/activity"
	"github.com/julianstephens/habitual/internal/cheatday"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

// CompletionResult describes everything a completion changed.
type CompletionResult struct {
	Completion    models.TaskCompletion
	AlreadyDone   bool
	PointsEarned  int
	LevelsGained  int
	Profile       models.UserProfile
	Activity      models.DayActivity
	ActivitySaved bool
	Streak        models.StreakRecord
	Unlocked      []models.Badge
}

// CompleteTask records that the task was done on date (today when empty).
//
// The steps run in a fixed order: the streak is refreshed as of today, the
// completion is appended, points are awarded against that refreshed streak
// (so this completion never counts toward its own bonus), the date's
// activity is recomputed, the streak is refreshed and badges are
// evaluated. A task already completed on date is reported with
// AlreadyDone and nothing is written.
func (s *Session) CompleteTask(taskID, date, note string) (CompletionResult, bool, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return CompletionResult{}, false, err
	}
	tasks, err := s.records.Tasks()
	if err != nil {
		return CompletionResult{}, false, err
	}
	if indexOfTask(tasks, taskID) < 0 {
		return CompletionResult{}, false, nil
	}

	completions, err := s.records.Completions()
	if err != nil {
		return CompletionResult{}, true, err
	}
	for _, c := range completions {
		if c.TaskID == taskID && c.Date == date {
			return CompletionResult{Completion: c, AlreadyDone: true}, true, nil
		}
	}

	prior, err := s.streak.Refresh(s.CurrentDate())
	if err != nil {
		return CompletionResult{}, true, fmt.Errorf("failed to refresh streak: %w", err)
	}

	completion := models.TaskCompletion{
		ID:          s.newID(),
		TaskID:      taskID,
		Date:        date,
		CompletedAt: s.now(),
		Note:        note,
	}
	if err := s.records.SaveCompletions(append(completions, completion)); err != nil {
		return CompletionResult{}, true, fmt.Errorf("failed to save completion: %w", err)
	}
	result := CompletionResult{Completion: completion}

	before, err := s.records.Profile()
	if err != nil {
		return result, true, err
	}
	profile, earned, err := s.ledger.AwardPoints(s.basePoints, prior.Current)
	if err != nil {
		return result, true, fmt.Errorf("failed to award points: %w", err)
	}
	result.Profile = profile
	result.PointsEarned = earned
	result.LevelsGained = profile.Level - max(before.Level, 1)

	if result.Activity, result.ActivitySaved, result.Streak, err = s.refresh(date); err != nil {
		return result, true, err
	}
	if result.Unlocked, err = s.ledger.EvaluateBadges(); err != nil {
		return result, true, err
	}

	logger.Debug("Task completed",
		"task", taskID, "date", date, "points", earned, "streak", result.Streak.Current)
	return result, true, nil
}

// UncompleteTask removes every completion of the task on date (today when
// empty) and recomputes. Points already awarded are kept. Returns false
// when there was nothing to remove.
func (s *Session) UncompleteTask(taskID, date string) (bool, models.StreakRecord, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return false, models.StreakRecord{}, err
	}
	completions, err := s.records.Completions()
	if err != nil {
		return false, models.StreakRecord{}, err
	}

	kept := make([]models.TaskCompletion, 0, len(completions))
	for _, c := range completions {
		if c.TaskID == taskID && c.Date == date {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(completions) {
		return false, models.StreakRecord{}, nil
	}
	if err := s.records.SaveCompletions(kept); err != nil {
		return false, models.StreakRecord{}, fmt.Errorf("failed to save completions: %w", err)
	}

	_, _, st, err := s.refresh(date)
	if err != nil {
		return true, models.StreakRecord{}, err
	}
	logger.Debug("Task uncompleted", "task", taskID, "date", date)
	return true, st, nil
}

// TodayItem is one task as it stands today.
type TodayItem struct {
	Task  models.Task
	Done  bool
	Count int
}

// TodayView is the checklist for the current date.
type TodayView struct {
	Date          string
	Items         []TodayItem
	Activity      models.DayActivity
	HasActivity   bool
	Streak        models.StreakRecord
	CheatDay      bool
	CheatDaysLeft int
}

// Today builds the checklist of tasks that apply today. Activity and the
// current streak are computed live and not persisted.
func (s *Session) Today() (TodayView, error) {
	date := s.CurrentDate()
	view := TodayView{Date: date}

	weekday, err := utils.Weekday(date)
	if err != nil {
		return view, err
	}
	tasks, err := s.Tasks()
	if err != nil {
		return view, err
	}
	completions, err := s.records.Completions()
	if err != nil {
		return view, err
	}
	cheat, err := s.quota.Status(date)
	if err != nil {
		return view, err
	}

	counts := make(map[string]int)
	for _, c := range completions {
		if c.Date == date {
			counts[c.TaskID]++
		}
	}
	for _, t := range tasks {
		if !t.AppliesOn(weekday) {
			continue
		}
		view.Items = append(view.Items, TodayItem{Task: t, Done: counts[t.ID] > 0, Count: counts[t.ID]})
	}

	if view.Activity, view.HasActivity, err = activity.Compute(tasks, completions, date, cheat); err != nil {
		return view, err
	}
	activities, err := s.records.Activities()
	if err != nil {
		return view, err
	}
	if view.HasActivity {
		activities = activity.Upsert(slices.Clone(activities), view.Activity)
	}
	current, err := streak.Current(activities, cheat.UsedDates, date)
	if err != nil {
		return view, err
	}
	stored, err := s.records.Streak()
	if err != nil {
		return view, err
	}
	view.Streak = models.StreakRecord{
		Current:   current,
		Longest:   streak.Longest(stored.Longest, current),
		UpdatedAt: stored.UpdatedAt,
	}
	view.CheatDay = cheat.IsUsed(date)
	view.CheatDaysLeft = cheatday.Remaining(cheat)
	return view, nil
}
