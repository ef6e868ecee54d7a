package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/goals"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Goals lists the goals of a year, or of every year when year is 0, oldest
// first.
func (s *Session) Goals(year int, includeArchived bool) ([]models.Goal, error) {
	all, err := s.records.Goals()
	if err != nil {
		return nil, err
	}
	out := make([]models.Goal, 0, len(all))
	for _, g := range all {
		if year != 0 && g.Year != year {
			continue
		}
		if g.Archived && !includeArchived {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// FindGoal resolves an exact ID, a case-insensitive title or a unique ID
// prefix.
func (s *Session) FindGoal(ref string) (models.Goal, bool, error) {
	all, err := s.records.Goals()
	if err != nil {
		return models.Goal{}, false, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Goal{}, false, nil
	}
	for _, g := range all {
		if g.ID == ref {
			return g, true, nil
		}
	}
	for _, g := range all {
		if strings.EqualFold(g.Title, ref) {
			return g, true, nil
		}
	}
	var match models.Goal
	matches := 0
	for _, g := range all {
		if strings.HasPrefix(g.ID, ref) {
			match = g
			matches++
		}
	}
	if matches > 1 {
		return models.Goal{}, false, fmt.Errorf("%q matches %d goals, use more of the ID", ref, matches)
	}
	return match, matches == 1, nil
}

// AddGoal stores a new goal. Year defaults to the current year.
func (s *Session) AddGoal(g models.Goal) (models.Goal, error) {
	g.ID = s.newID()
	g.Title = strings.TrimSpace(g.Title)
	g.CreatedAt = s.now()
	g.CompletedAt = nil
	g.CurrentValue = 0
	g.Archived = false
	if g.Year == 0 {
		g.Year = s.now().In(s.loc).Year()
	}
	if err := goals.Validate(g); err != nil {
		return models.Goal{}, err
	}

	all, err := s.records.Goals()
	if err != nil {
		return models.Goal{}, err
	}
	if err := s.records.SaveGoals(append(all, g)); err != nil {
		return models.Goal{}, err
	}
	logger.Debug("Goal added", "id", g.ID, "year", g.Year, "type", g.TargetType)
	return g, nil
}

// GoalProgress returns the current value and percentage for a goal.
func (s *Session) GoalProgress(g models.Goal) (float64, float64, error) {
	items, err := s.records.GoalItems()
	if err != nil {
		return 0, 0, err
	}
	current, percent := goals.Progress(g, items)
	return current, percent, nil
}

// GoalItems lists the checklist of a goal.
func (s *Session) GoalItems(goalID string) ([]models.GoalItem, error) {
	items, err := s.records.GoalItems()
	if err != nil {
		return nil, err
	}
	return goals.ItemsFor(items, goalID), nil
}

// ProgressUpdates lists the numeric contributions to a goal, newest last.
func (s *Session) ProgressUpdates(goalID string) ([]models.ProgressUpdate, error) {
	updates, err := s.records.ProgressUpdates()
	if err != nil {
		return nil, err
	}
	var out []models.ProgressUpdate
	for _, u := range updates {
		if u.GoalID == goalID {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GoalChange is the outcome of an operation that moves a goal's progress.
type GoalChange struct {
	Goal      models.Goal
	Completed bool // target reached by this change
	Unlocked  []models.Badge
}

// updateGoal loads goal id, applies fn and saves it, stamping CompletedAt
// when the target is first reached.
func (s *Session) updateGoal(id string, fn func(*models.Goal, []models.GoalItem) error) (GoalChange, bool, error) {
	all, err := s.records.Goals()
	if err != nil {
		return GoalChange{}, false, err
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return GoalChange{}, false, nil
	}
	items, err := s.records.GoalItems()
	if err != nil {
		return GoalChange{}, true, err
	}

	g := all[idx]
	if err := fn(&g, items); err != nil {
		return GoalChange{}, true, err
	}
	change := GoalChange{Completed: goals.MarkCompleted(&g, items, s.now())}
	all[idx] = g
	if err := s.records.SaveGoals(all); err != nil {
		return GoalChange{}, true, err
	}
	change.Goal = g

	if change.Completed {
		logger.Info("Goal completed", "id", g.ID, "title", g.Title)
		if change.Unlocked, err = s.ledger.EvaluateBadges(); err != nil {
			return change, true, err
		}
	}
	return change, true, nil
}

// AddProgress records a numeric contribution and adds it to the goal's
// running total.
func (s *Session) AddProgress(goalID string, amount float64, note string) (GoalChange, bool, error) {
	if amount == 0 {
		return GoalChange{}, false, errors.New("progress amount cannot be zero")
	}
	return s.updateGoal(goalID, func(g *models.Goal, _ []models.GoalItem) error {
		if err := goals.ApplyProgress(g, amount); err != nil {
			return err
		}
		updates, err := s.records.ProgressUpdates()
		if err != nil {
			return err
		}
		return s.records.SaveProgressUpdates(append(updates, models.ProgressUpdate{
			ID:        s.newID(),
			GoalID:    g.ID,
			Amount:    amount,
			Note:      note,
			CreatedAt: s.now(),
		}))
	})
}

// DeleteProgress removes a progress update and subtracts its amount from
// the goal. Returns false when the update does not exist.
func (s *Session) DeleteProgress(updateID string) (bool, error) {
	updates, err := s.records.ProgressUpdates()
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range updates {
		if updates[i].ID == updateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	removed := updates[idx]

	if _, _, err := s.updateGoal(removed.GoalID, func(g *models.Goal, _ []models.GoalItem) error {
		return goals.ApplyProgress(g, -removed.Amount)
	}); err != nil {
		return true, err
	}
	if err := s.records.SaveProgressUpdates(append(updates[:idx], updates[idx+1:]...)); err != nil {
		return true, err
	}
	return true, nil
}

// AddGoalItem appends a checklist entry to an items goal.
func (s *Session) AddGoalItem(goalID, title string) (models.GoalItem, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.GoalItem{}, false, errors.New("item title cannot be empty")
	}
	g, found, err := s.goalByID(goalID)
	if err != nil || !found {
		return models.GoalItem{}, found, err
	}
	if g.TargetType != models.TargetItems {
		return models.GoalItem{}, true, fmt.Errorf("goal %q tracks a numeric total, not items", g.Title)
	}

	items, err := s.records.GoalItems()
	if err != nil {
		return models.GoalItem{}, true, err
	}
	item := models.GoalItem{
		ID:        s.newID(),
		GoalID:    goalID,
		Title:     title,
		CreatedAt: s.now(),
	}
	if err := s.records.SaveGoalItems(append(items, item)); err != nil {
		return models.GoalItem{}, true, err
	}
	return item, true, nil
}

// ToggleGoalItem flips an item's completed flag. Returns false when the
// item does not exist.
func (s *Session) ToggleGoalItem(itemID string) (models.GoalItem, GoalChange, bool, error) {
	items, err := s.records.GoalItems()
	if err != nil {
		return models.GoalItem{}, GoalChange{}, false, err
	}
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.GoalItem{}, GoalChange{}, false, nil
	}

	item := items[idx]
	item.Completed = !item.Completed
	if item.Completed {
		at := s.now()
		item.CompletedAt = &at
	} else {
		item.CompletedAt = nil
	}
	items[idx] = item
	if err := s.records.SaveGoalItems(items); err != nil {
		return models.GoalItem{}, GoalChange{}, true, err
	}

	change, _, err := s.updateGoal(item.GoalID, func(*models.Goal, []models.GoalItem) error { return nil })
	return item, change, true, err
}

// DeleteGoalItem removes a checklist entry.
func (s *Session) DeleteGoalItem(itemID string) (bool, error) {
	items, err := s.records.GoalItems()
	if err != nil {
		return false, err
	}
	kept := make([]models.GoalItem, 0, len(items))
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, s.records.SaveGoalItems(kept)
}

// ArchiveGoal sets or clears the archived flag.
func (s *Session) ArchiveGoal(goalID string, archived bool) (bool, error) {
	_, found, err := s.updateGoal(goalID, func(g *models.Goal, _ []models.GoalItem) error {
		g.Archived = archived
		return nil
	})
	return found, err
}

// DeleteGoal removes a goal with its items and progress updates.
func (s *Session) DeleteGoal(goalID string) (bool, error) {
	all, err := s.records.Goals()
	if err != nil {
		return false, err
	}
	kept := make([]models.Goal, 0, len(all))
	for _, g := range all {
		if g.ID != goalID {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}

	items, err := s.records.GoalItems()
	if err != nil {
		return false, err
	}
	keptItems := make([]models.GoalItem, 0, len(items))
	for _, it := range items {
		if it.GoalID != goalID {
			keptItems = append(keptItems, it)
		}
	}
	updates, err := s.records.ProgressUpdates()
	if err != nil {
		return false, err
	}
	keptUpdates := make([]models.ProgressUpdate, 0, len(updates))
	for _, u := range updates {
		if u.GoalID != goalID {
			keptUpdates = append(keptUpdates, u)
		}
	}

	// Children first so an interrupted delete leaves no orphans.
	if err := s.records.SaveGoalItems(keptItems); err != nil {
		return false, err
	}
	if err := s.records.SaveProgressUpdates(keptUpdates); err != nil {
		return false, err
	}
	if err := s.records.SaveGoals(kept); err != nil {
		return false, err
	}
	logger.Debug("Goal deleted", "id", goalID)
	return true, nil
}

func (s *Session) goalByID(id string) (models.Goal, bool, error) {
	all, err := s.records.Goals()
	if err != nil {
		return models.Goal{}, false, err
	}
	for _, g := range all {
		if g.ID == id {
			return g, true, nil
		}
	}
	return models.Goal{}, false, nil
}
