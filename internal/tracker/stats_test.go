package tracker

import "testing"

func TestHistoryAndSummary(t *testing.T) {
	s := newTestSession(t)
	a := mustAddTask(t, s, "Read")
	b := mustAddTask(t, s, "Walk")

	for _, c := range []struct{ id, date string }{
		{a.ID, "2024-01-07"},
		{b.ID, "2024-01-07"},
		{a.ID, "2024-01-08"},
	} {
		if _, _, err := s.CompleteTask(c.id, c.date, ""); err != nil {
			t.Fatalf("CompleteTask failed: %v", err)
		}
	}
	if ok, err := s.UseCheatDay("2024-01-09"); err != nil || !ok {
		t.Fatalf("UseCheatDay = %v, %v", ok, err)
	}

	days, err := s.History("2024-01-06", "2024-01-10")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(days) != 5 {
		t.Fatalf("len(days) = %d, want 5", len(days))
	}
	if days[0].Present || days[0].Rate != 0 {
		t.Errorf("2024-01-06 should be zero-filled: %+v", days[0])
	}
	if days[1].Rate != 100 || days[1].Completions != 2 {
		t.Errorf("2024-01-07 = %+v", days[1])
	}
	if !days[3].CheatDay {
		t.Errorf("2024-01-09 should be a cheat day: %+v", days[3])
	}

	sum, err := s.Summarize("2024-01-06", "2024-01-10")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	// Tracked: 07 (100), 08 (50), 09 (0, cheat), 10 (0).
	if sum.TrackedDays != 4 || sum.PerfectDays != 1 || sum.Completions != 3 || sum.CheatDays != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.AverageRate != 37.5 {
		t.Errorf("AverageRate = %v, want 37.5", sum.AverageRate)
	}

	if _, err := s.History("2024-01-10", "2024-01-01"); err == nil {
		t.Error("expected error for reversed range")
	}
}
