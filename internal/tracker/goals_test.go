package tracker

import (
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestNumericGoal(t *testing.T) {
	s := newTestSession(t)

	g, err := s.AddGoal(models.Goal{Title: "Read books", TargetType: models.TargetNumeric, TargetValue: 12, Unit: "books"})
	if err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if g.Year != 2024 {
		t.Errorf("Year = %d, want 2024", g.Year)
	}

	change, found, err := s.AddProgress(g.ID, 5, "winter")
	if err != nil || !found {
		t.Fatalf("AddProgress = %v, %v", found, err)
	}
	if change.Completed || change.Goal.CurrentValue != 5 {
		t.Errorf("unexpected change %+v", change)
	}

	change, _, err = s.AddProgress(g.ID, 7, "")
	if err != nil {
		t.Fatalf("AddProgress failed: %v", err)
	}
	if !change.Completed || change.Goal.CompletedAt == nil {
		t.Fatalf("goal should be completed: %+v", change.Goal)
	}
	if len(change.Unlocked) != 1 || change.Unlocked[0].ID != "goal-getter" {
		t.Errorf("Unlocked = %+v, want goal-getter", change.Unlocked)
	}

	current, percent, err := s.GoalProgress(change.Goal)
	if err != nil || current != 12 || percent != 100 {
		t.Errorf("GoalProgress = %v, %v, %v", current, percent, err)
	}

	updates, _ := s.ProgressUpdates(g.ID)
	if len(updates) != 2 {
		t.Fatalf("len(updates) = %d, want 2", len(updates))
	}
	deleted, err := s.DeleteProgress(updates[1].ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteProgress = %v, %v", deleted, err)
	}
	after, _, _ := s.FindGoal(g.ID)
	if after.CurrentValue != 5 {
		t.Errorf("CurrentValue = %v, want 5", after.CurrentValue)
	}
	if after.CompletedAt == nil {
		t.Error("CompletedAt should stay set once reached")
	}

	if _, _, err := s.AddGoalItem(g.ID, "chapter"); err == nil {
		t.Error("expected error adding an item to a numeric goal")
	}
}

func TestItemsGoal(t *testing.T) {
	s := newTestSession(t)

	g, err := s.AddGoal(models.Goal{Title: "Trips", TargetType: models.TargetItems, TargetValue: 2})
	if err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if _, _, err := s.AddProgress(g.ID, 1, ""); err == nil {
		t.Error("expected error adding numeric progress to an items goal")
	}

	var items []models.GoalItem
	for _, title := range []string{"Lisbon", "Kyoto"} {
		item, found, err := s.AddGoalItem(g.ID, title)
		if err != nil || !found {
			t.Fatalf("AddGoalItem = %v, %v", found, err)
		}
		items = append(items, item)
	}

	item, change, found, err := s.ToggleGoalItem(items[0].ID)
	if err != nil || !found || !item.Completed || item.CompletedAt == nil {
		t.Fatalf("ToggleGoalItem = %+v, %v, %v", item, found, err)
	}
	if change.Completed {
		t.Error("goal should not be complete with one of two items")
	}

	_, change, _, err = s.ToggleGoalItem(items[1].ID)
	if err != nil || !change.Completed {
		t.Errorf("second toggle should complete the goal: %+v, %v", change, err)
	}

	item, _, _, _ = s.ToggleGoalItem(items[1].ID)
	if item.Completed || item.CompletedAt != nil {
		t.Errorf("toggle back should clear completion: %+v", item)
	}

	deleted, err := s.DeleteGoalItem(items[0].ID)
	if err != nil || !deleted {
		t.Errorf("DeleteGoalItem = %v, %v", deleted, err)
	}
	remaining, _ := s.GoalItems(g.ID)
	if len(remaining) != 1 {
		t.Errorf("len(items) = %d, want 1", len(remaining))
	}
}

func TestGoalListingAndDelete(t *testing.T) {
	s := newTestSession(t)

	keep, _ := s.AddGoal(models.Goal{Title: "Run", TargetType: models.TargetNumeric, TargetValue: 500})
	old, _ := s.AddGoal(models.Goal{Title: "Old", Year: 2023, TargetType: models.TargetItems, TargetValue: 1})
	if _, _, err := s.AddGoalItem(old.ID, "thing"); err != nil {
		t.Fatalf("AddGoalItem failed: %v", err)
	}
	if _, _, err := s.AddProgress(keep.ID, 10, ""); err != nil {
		t.Fatalf("AddProgress failed: %v", err)
	}

	if _, err := s.AddGoal(models.Goal{Title: "Bad", TargetType: models.TargetNumeric}); err == nil {
		t.Error("expected error for zero target")
	}

	archived, err := s.ArchiveGoal(keep.ID, true)
	if err != nil || !archived {
		t.Fatalf("ArchiveGoal = %v, %v", archived, err)
	}

	tests := []struct {
		name     string
		year     int
		archived bool
		want     int
	}{
		{"current year active", 2024, false, 0},
		{"current year with archived", 2024, true, 1},
		{"all years active", 0, false, 1},
		{"all years", 0, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Goals(tt.year, tt.archived)
			if err != nil {
				t.Fatalf("Goals failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	deleted, err := s.DeleteGoal(old.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteGoal = %v, %v", deleted, err)
	}
	items, _ := s.Records().GoalItems()
	if len(items) != 0 {
		t.Errorf("items left after delete: %+v", items)
	}
	updates, _ := s.Records().ProgressUpdates()
	if len(updates) != 1 {
		t.Errorf("len(updates) = %d, want 1", len(updates))
	}

	for name, fn := range map[string]func() (bool, error){
		"DeleteGoal":     func() (bool, error) { return s.DeleteGoal("missing") },
		"ArchiveGoal":    func() (bool, error) { return s.ArchiveGoal("missing", true) },
		"DeleteGoalItem": func() (bool, error) { return s.DeleteGoalItem("missing") },
		"DeleteProgress": func() (bool, error) { return s.DeleteProgress("missing") },
	} {
		if found, err := fn(); found || err != nil {
			t.Errorf("%s(missing) = %v, %v, want false nil", name, found, err)
		}
	}
}
