// Package validation checks stored records for problems a user should
// know about and guards task input.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/goals"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTaskName   ConflictType = "duplicate_task_name"
	ConflictInvalidTask         ConflictType = "invalid_task"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictOrphanCompletion    ConflictType = "orphan_completion"
	ConflictDuplicateCompletion ConflictType = "duplicate_completion"
	ConflictInvalidActivity     ConflictType = "invalid_activity"
	ConflictInvalidGoal         ConflictType = "invalid_goal"
	ConflictOrphanGoalRecord    ConflictType = "orphan_goal_record"
)

// Conflict is one problem found in the stored records
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Names involved
	IDs         []string // Record IDs involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (r *Result) Merge(other Result) {
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// Validator validates stored records
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateDate checks the YYYY-MM-DD format.
func ValidateDate(date string) error {
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

// ValidateTask checks a single task against the rest of the task list. The
// task's own ID is ignored when checking for duplicate names.
func ValidateTask(task models.Task, existing []models.Task) error {
	name := strings.TrimSpace(task.Name)
	if name == "" {
		return errors.New("task name cannot be empty")
	}
	if _, err := models.ParseCategory(string(task.Category)); err != nil {
		return err
	}
	if _, err := models.ParseTimeOfDay(string(task.TimeOfDay)); err != nil {
		return err
	}
	if _, err := models.ParseFrequency(string(task.Frequency)); err != nil {
		return err
	}
	if task.Frequency == models.FrequencyCustom && len(task.Weekdays) == 0 {
		return errors.New("custom frequency needs at least one weekday")
	}
	for _, wd := range task.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("invalid weekday %d", wd)
		}
	}
	if task.TimesPerWeek < 0 || task.TimesPerWeek > 7 {
		return fmt.Errorf("times per week must be between 0 and 7, got %d", task.TimesPerWeek)
	}
	for _, other := range existing {
		if other.ID != task.ID && strings.EqualFold(strings.TrimSpace(other.Name), name) {
			return fmt.Errorf("a task named %q already exists", other.Name)
		}
	}
	return nil
}

// ValidateTasks checks the whole task list.
func (v *Validator) ValidateTasks(tasks []models.Task) Result {
	result := Result{Conflicts: []Conflict{}}

	byName := make(map[string][]string)
	names := make(map[string]string)
	for _, t := range tasks {
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if key == "" {
			continue
		}
		byName[key] = append(byName[key], t.ID)
		names[key] = t.Name
	}
	for _, key := range sortedKeys(byName) {
		if ids := byName[key]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateTaskName,
				Description: fmt.Sprintf("Duplicate task name: %q (IDs: %v)", names[key], ids),
				Items:       []string{names[key]},
				IDs:         ids,
			})
		}
	}

	for _, t := range tasks {
		// Duplicate names were reported above.
		if err := ValidateTask(t, nil); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidTask,
				Description: fmt.Sprintf("Task %q: %v", t.Name, err),
				Items:       []string{t.Name},
				IDs:         []string{t.ID},
			})
		}
	}
	return result
}

// ValidateCompletions reports completions with bad dates, completions of
// unknown tasks and repeated (task, date) pairs.
func (v *Validator) ValidateCompletions(completions []models.TaskCompletion, tasks []models.Task) Result {
	result := Result{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	seen := make(map[string][]string)
	var order []string
	for _, c := range completions {
		if err := ValidateDate(c.Date); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Completion %s: %v", c.ID, err),
				Date:        c.Date,
				IDs:         []string{c.ID},
			})
			continue
		}
		if !known[c.TaskID] {
			result.add(Conflict{
				Type:        ConflictOrphanCompletion,
				Description: fmt.Sprintf("Completion %s on %s refers to missing task %s", c.ID, c.Date, c.TaskID),
				Date:        c.Date,
				IDs:         []string{c.ID},
			})
		}
		key := c.TaskID + "|" + c.Date
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], c.ID)
	}

	for _, key := range order {
		ids := seen[key]
		if len(ids) < 2 {
			continue
		}
		taskID, date, _ := strings.Cut(key, "|")
		result.add(Conflict{
			Type:        ConflictDuplicateCompletion,
			Description: fmt.Sprintf("Task %s completed %d times on %s", taskID, len(ids), date),
			Date:        date,
			IDs:         ids,
		})
	}
	return result
}

// ValidateActivities reports summaries with bad dates or impossible counts.
func (v *Validator) ValidateActivities(activities []models.DayActivity) Result {
	result := Result{Conflicts: []Conflict{}}
	for _, a := range activities {
		if err := ValidateDate(a.Date); err != nil {
			result.add(Conflict{Type: ConflictInvalidDate, Description: fmt.Sprintf("Activity: %v", err), Date: a.Date})
			continue
		}
		if a.CompletionRate < 0 || a.CompletionRate > 100 || a.TasksCompleted > a.TaskTotal || a.TaskTotal < 1 {
			result.add(Conflict{
				Type: ConflictInvalidActivity,
				Description: fmt.Sprintf("Activity on %s is inconsistent (rate %d, %d of %d tasks)",
					a.Date, a.CompletionRate, a.TasksCompleted, a.TaskTotal),
				Date: a.Date,
			})
		}
	}
	return result
}

// ValidateGoals checks goals and that every item and progress update
// belongs to an existing goal.
func (v *Validator) ValidateGoals(gs []models.Goal, items []models.GoalItem, updates []models.ProgressUpdate) Result {
	result := Result{Conflicts: []Conflict{}}

	known := make(map[string]bool, len(gs))
	for _, g := range gs {
		known[g.ID] = true
		if err := goals.Validate(g); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidGoal,
				Description: fmt.Sprintf("Goal %q: %v", g.Title, err),
				Items:       []string{g.Title},
				IDs:         []string{g.ID},
			})
		}
	}
	for _, it := range items {
		if !known[it.GoalID] {
			result.add(Conflict{
				Type:        ConflictOrphanGoalRecord,
				Description: fmt.Sprintf("Goal item %q refers to missing goal %s", it.Title, it.GoalID),
				IDs:         []string{it.ID},
			})
		}
	}
	for _, u := range updates {
		if !known[u.GoalID] {
			result.add(Conflict{
				Type:        ConflictOrphanGoalRecord,
				Description: fmt.Sprintf("Progress update %s refers to missing goal %s", u.ID, u.GoalID),
				IDs:         []string{u.ID},
			})
		}
	}
	return result
}

// DedupeCompletions keeps the earliest completion of each (task, date) pair
// and returns how many were dropped.
func DedupeCompletions(completions []models.TaskCompletion) ([]models.TaskCompletion, int) {
	first := make(map[string]int)
	out := make([]models.TaskCompletion, 0, len(completions))
	for _, c := range completions {
		key := c.TaskID + "|" + c.Date
		if i, ok := first[key]; ok {
			if c.CompletedAt.Before(out[i].CompletedAt) {
				out[i] = c
			}
			continue
		}
		first[key] = len(out)
		out = append(out, c)
	}
	return out, len(completions) - len(out)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
