package streak

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/activity"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func act(date string, rate int) models.DayActivity {
	return models.DayActivity{Date: date, CompletionRate: rate, TaskTotal: 2}
}

func TestCurrent(t *testing.T) {
	const today = "2024-01-10"

	tests := []struct {
		name       string
		activities []models.DayActivity
		cheats     []string
		want       int
	}{
		{
			name: "no history",
			want: 0,
		},
		{
			name:       "today without activity breaks even with a streak behind it",
			activities: []models.DayActivity{act("2024-01-09", 100), act("2024-01-08", 100)},
			want:       0,
		},
		{
			name:       "consecutive qualifying days",
			activities: []models.DayActivity{act("2024-01-10", 50), act("2024-01-09", 100), act("2024-01-08", 75)},
			want:       3,
		},
		{
			name:       "below threshold stops",
			activities: []models.DayActivity{act("2024-01-10", 100), act("2024-01-09", 49), act("2024-01-08", 100)},
			want:       1,
		},
		{
			name:       "gap stops",
			activities: []models.DayActivity{act("2024-01-10", 100), act("2024-01-08", 100)},
			want:       1,
		},
		{
			name:       "cheat day at zero percent counts",
			activities: []models.DayActivity{act("2024-01-10", 100), act("2024-01-09", 0), act("2024-01-08", 100)},
			cheats:     []string{"2024-01-09"},
			want:       3,
		},
		{
			name:       "cheat day without activity counts",
			activities: []models.DayActivity{act("2024-01-10", 100), act("2024-01-08", 100)},
			cheats:     []string{"2024-01-09"},
			want:       3,
		},
		{
			name:   "cheat day today",
			cheats: []string{"2024-01-10"},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Current(tt.activities, tt.cheats, today)
			if err != nil {
				t.Fatalf("Current failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Current = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentAcrossYearBoundary(t *testing.T) {
	acts := []models.DayActivity{act("2024-01-01", 100), act("2023-12-31", 100), act("2023-12-30", 100)}
	got, err := Current(acts, nil, "2024-01-01")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got != 3 {
		t.Errorf("Current = %d, want 3", got)
	}
}

func TestCurrentChainProperty(t *testing.T) {
	acts := []models.DayActivity{
		act("2024-01-05", 100),
		act("2024-01-06", 20),
		act("2024-01-07", 60),
		act("2024-01-08", 90),
	}
	cheats := []string{"2024-01-09"}

	byDate := activity.Index(acts)
	prev := 0
	for _, day := range []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"} {
		got, err := Current(acts, cheats, day)
		if err != nil {
			t.Fatalf("Current(%s) failed: %v", day, err)
		}
		rec, ok := byDate[day]
		isCheat := day == "2024-01-09"
		want := 0
		if Qualifies(rec, ok, isCheat) {
			want = prev + 1
		}
		if got != want {
			t.Errorf("Current(%s) = %d, want %d", day, got, want)
		}
		prev = got
	}
}

func TestCurrentCapsAtScanLimit(t *testing.T) {
	start := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	var cheats []string
	for i := 0; i < 400; i++ {
		cheats = append(cheats, start.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	got, err := Current(nil, cheats, "2024-12-31")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got != 365 {
		t.Errorf("Current = %d, want 365", got)
	}
}

func TestCurrentInvalidDate(t *testing.T) {
	if _, err := Current(nil, nil, "yesterday"); err == nil {
		t.Error("Current should reject a malformed date")
	}
}

func TestLongest(t *testing.T) {
	tests := []struct{ prev, cur, want int }{
		{0, 0, 0},
		{5, 3, 5},
		{5, 8, 8},
		{8, 0, 8},
	}
	for _, tt := range tests {
		if got := Longest(tt.prev, tt.cur); got != tt.want {
			t.Errorf("Longest(%d, %d) = %d, want %d", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestCalculatorRefresh(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitual.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	records := storage.NewRecords(store)
	fixed := time.Date(2024, 1, 10, 21, 0, 0, 0, time.UTC)
	calc := NewCalculator(records, func() time.Time { return fixed })

	if err := records.SaveStreak(models.StreakRecord{Current: 0, Longest: 10}); err != nil {
		t.Fatalf("SaveStreak failed: %v", err)
	}
	if err := records.SaveActivities([]models.DayActivity{act("2024-01-10", 100), act("2024-01-09", 100)}); err != nil {
		t.Fatalf("SaveActivities failed: %v", err)
	}

	rec, err := calc.Refresh("2024-01-10")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rec.Current != 2 || rec.Longest != 10 {
		t.Errorf("Refresh = %+v, want current 2 longest 10", rec)
	}
	if !rec.UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", rec.UpdatedAt, fixed)
	}

	if err := records.SaveStreak(models.StreakRecord{Longest: 1}); err != nil {
		t.Fatalf("SaveStreak failed: %v", err)
	}
	rec, err = calc.Refresh("2024-01-10")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rec.Longest != 2 {
		t.Errorf("Longest = %d, want 2", rec.Longest)
	}

	stored, err := records.Streak()
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if stored.Current != 2 || stored.Longest != 2 {
		t.Errorf("stored streak = %+v", stored)
	}
}
