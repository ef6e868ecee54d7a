package tracker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/validation"
)

// Tasks returns the tasks in display order.
func (s *Session) Tasks() ([]models.Task, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)
	return tasks, nil
}

func sortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

// FindTask resolves an exact ID, a case-insensitive name or a unique ID
// prefix.
func (s *Session) FindTask(ref string) (models.Task, bool, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return models.Task{}, false, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, false, nil
	}

	for _, t := range tasks {
		if t.ID == ref {
			return t, true, nil
		}
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Name, ref) {
			return t, true, nil
		}
	}

	var match models.Task
	matches := 0
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			match = t
			matches++
		}
	}
	if matches > 1 {
		return models.Task{}, false, fmt.Errorf("%q matches %d tasks, use more of the ID", ref, matches)
	}
	return match, matches == 1, nil
}

// AddTask stores a new task with a fresh ID, placing it after the others.
// Empty enums default to personal, anytime and daily.
func (s *Session) AddTask(t models.Task) (models.Task, []models.Badge, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return models.Task{}, nil, err
	}

	t.ID = s.newID()
	t.Name = strings.TrimSpace(t.Name)
	t.CreatedAt = s.now()
	if t.Category == "" {
		t.Category = models.CategoryPersonal
	}
	if t.TimeOfDay == "" {
		t.TimeOfDay = models.TimeAnytime
	}
	if t.Frequency == "" {
		t.Frequency = models.FrequencyDaily
	}
	normalizeSchedule(&t)

	if err := validation.ValidateTask(t, tasks); err != nil {
		return models.Task{}, nil, err
	}

	t.Order = 0
	for _, other := range tasks {
		if other.Order >= t.Order {
			t.Order = other.Order + 1
		}
	}

	if err := s.records.SaveTasks(append(tasks, t)); err != nil {
		return models.Task{}, nil, err
	}
	logger.Debug("Task added", "id", t.ID, "name", t.Name)

	if _, _, _, err := s.refresh(s.CurrentDate()); err != nil {
		return t, nil, err
	}
	unlocked, err := s.ledger.EvaluateBadges()
	return t, unlocked, err
}

// normalizeSchedule drops fields that do not apply to the frequency.
func normalizeSchedule(t *models.Task) {
	if t.Frequency != models.FrequencyCustom {
		t.Weekdays = nil
	} else {
		sort.Slice(t.Weekdays, func(i, j int) bool { return t.Weekdays[i] < t.Weekdays[j] })
		t.Weekdays = dedupeWeekdays(t.Weekdays)
	}
	if t.Frequency != models.FrequencyWeekly {
		t.TimesPerWeek = 0
	}
}

func dedupeWeekdays(days []time.Weekday) []time.Weekday {
	out := days[:0]
	for i, d := range days {
		if i == 0 || d != days[i-1] {
			out = append(out, d)
		}
	}
	return out
}

// UpdateTask applies fn to the task with id. The ID and creation time
// cannot change. Returns false when no such task exists.
func (s *Session) UpdateTask(id string, fn func(*models.Task)) (models.Task, bool, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return models.Task{}, false, err
	}
	idx := indexOfTask(tasks, id)
	if idx < 0 {
		return models.Task{}, false, nil
	}

	updated := tasks[idx]
	fn(&updated)
	updated.ID = tasks[idx].ID
	updated.CreatedAt = tasks[idx].CreatedAt
	updated.Name = strings.TrimSpace(updated.Name)
	normalizeSchedule(&updated)

	if err := validation.ValidateTask(updated, tasks); err != nil {
		return models.Task{}, true, err
	}
	tasks[idx] = updated
	if err := s.records.SaveTasks(tasks); err != nil {
		return models.Task{}, true, err
	}
	if _, _, _, err := s.refresh(s.CurrentDate()); err != nil {
		return updated, true, err
	}
	return updated, true, nil
}

// DeleteTask removes a task together with its completions. Returns false
// when no such task exists.
func (s *Session) DeleteTask(id string) (bool, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return false, err
	}
	idx := indexOfTask(tasks, id)
	if idx < 0 {
		return false, nil
	}

	completions, err := s.records.Completions()
	if err != nil {
		return false, err
	}
	kept := completions[:0]
	for _, c := range completions {
		if c.TaskID != id {
			kept = append(kept, c)
		}
	}

	// Completions go first so a failure cannot leave orphans behind.
	if err := s.records.SaveCompletions(kept); err != nil {
		return false, err
	}
	if err := s.records.SaveTasks(append(tasks[:idx], tasks[idx+1:]...)); err != nil {
		return false, err
	}
	logger.Debug("Task deleted", "id", id, "completions_removed", len(completions)-len(kept))

	if _, _, _, err := s.refresh(s.CurrentDate()); err != nil {
		return true, err
	}
	return true, nil
}

// ReorderTasks puts the listed IDs first, in the given order, followed by
// the remaining tasks in their current order.
func (s *Session) ReorderTasks(ids []string) ([]models.Task, error) {
	tasks, err := s.records.Tasks()
	if err != nil {
		return nil, err
	}
	sortTasks(tasks)

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if indexOfTask(tasks, id) < 0 {
			return nil, fmt.Errorf("unknown task %s", id)
		}
		if _, dup := pos[id]; dup {
			return nil, fmt.Errorf("task %s listed twice", id)
		}
		pos[id] = i
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		pi, iListed := pos[tasks[i].ID]
		pj, jListed := pos[tasks[j].ID]
		switch {
		case iListed && jListed:
			return pi < pj
		case iListed != jListed:
			return iListed
		default:
			return false
		}
	})
	for i := range tasks {
		tasks[i].Order = i
	}
	if err := s.records.SaveTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func indexOfTask(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
