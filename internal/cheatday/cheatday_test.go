package cheatday

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func TestRefresh(t *testing.T) {
	tests := []struct {
		name      string
		cfg       models.CheatDayConfig
		today     string
		wantReset bool
		want      models.CheatDayConfig
	}{
		{
			name:      "new month resets",
			cfg:       models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 4, LastResetDate: "2024-01-15", UsedDates: []string{"2024-01-20"}},
			today:     "2024-02-03",
			wantReset: true,
			want:      models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 0, LastResetDate: "2024-02-03", UsedDates: []string{"2024-01-20"}},
		},
		{
			name:      "same month untouched",
			cfg:       models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 2, LastResetDate: "2024-01-15"},
			today:     "2024-01-31",
			wantReset: false,
			want:      models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 2, LastResetDate: "2024-01-15"},
		},
		{
			name:      "same month different year resets",
			cfg:       models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 3, LastResetDate: "2023-01-15"},
			today:     "2024-01-15",
			wantReset: true,
			want:      models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 0, LastResetDate: "2024-01-15"},
		},
		{
			name:      "never reset",
			cfg:       models.CheatDayConfig{},
			today:     "2024-01-15",
			wantReset: true,
			want:      models.CheatDayConfig{MaxPerMonth: 4, LastResetDate: "2024-01-15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if got := Refresh(&cfg, tt.today); got != tt.wantReset {
				t.Errorf("Refresh reset = %v, want %v", got, tt.wantReset)
			}
			if cfg.MaxPerMonth != tt.want.MaxPerMonth || cfg.UsedThisMonth != tt.want.UsedThisMonth || cfg.LastResetDate != tt.want.LastResetDate {
				t.Errorf("Refresh cfg = %+v, want %+v", cfg, tt.want)
			}
			if len(cfg.UsedDates) != len(tt.want.UsedDates) {
				t.Errorf("UsedDates = %v, want %v", cfg.UsedDates, tt.want.UsedDates)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	base := models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 1, LastResetDate: "2024-01-01", UsedDates: []string{"2024-01-09"}}

	tests := []struct {
		name string
		cfg  models.CheatDayConfig
		date string
		want error
	}{
		{"allowed", base, "2024-01-12", nil},
		{"next day after a cheat day", base, "2024-01-10", ErrConsecutive},
		{"day before a cheat day is allowed", base, "2024-01-08", nil},
		{"same date again", base, "2024-01-09", ErrAlreadyUsed},
		{"quota exhausted", models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 4}, "2024-01-20", ErrQuotaExhausted},
		{"previous day across month", models.CheatDayConfig{MaxPerMonth: 4, UsedDates: []string{"2024-01-31"}}, "2024-02-01", ErrConsecutive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Check(tt.cfg, tt.date); !errors.Is(err, tt.want) {
				t.Errorf("Check(%s) = %v, want %v", tt.date, err, tt.want)
			}
		})
	}
}

func TestConsumeFifthAttemptFails(t *testing.T) {
	cfg := models.CheatDayConfig{MaxPerMonth: 4, LastResetDate: "2024-01-01"}
	for _, d := range []string{"2024-01-02", "2024-01-04", "2024-01-06", "2024-01-08"} {
		if !Consume(&cfg, d) {
			t.Fatalf("Consume(%s) failed with %d used", d, cfg.UsedThisMonth)
		}
	}
	if cfg.UsedThisMonth != 4 || len(cfg.UsedDates) != 4 {
		t.Fatalf("after four uses cfg = %+v", cfg)
	}

	before := cfg
	if Consume(&cfg, "2024-01-20") {
		t.Error("fifth Consume in a month should fail")
	}
	if cfg.UsedThisMonth != before.UsedThisMonth || len(cfg.UsedDates) != len(before.UsedDates) {
		t.Error("failed Consume mutated the config")
	}
	if Remaining(cfg) != 0 {
		t.Errorf("Remaining = %d, want 0", Remaining(cfg))
	}
}

func TestConsumeConsecutiveFails(t *testing.T) {
	cfg := models.CheatDayConfig{MaxPerMonth: 4}
	if !Consume(&cfg, "2024-01-09") {
		t.Fatal("first Consume failed")
	}
	if Consume(&cfg, "2024-01-10") {
		t.Error("Consume on the day after a cheat day should fail")
	}
	if cfg.UsedThisMonth != 1 {
		t.Errorf("UsedThisMonth = %d, want 1", cfg.UsedThisMonth)
	}
}

func newTestQuota(t *testing.T) (*Quota, *storage.Records) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitual.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	records := storage.NewRecords(store)
	return NewQuota(records), records
}

func TestQuotaStatusPersistsReset(t *testing.T) {
	q, records := newTestQuota(t)
	if err := records.SaveCheatDays(models.CheatDayConfig{MaxPerMonth: 4, UsedThisMonth: 4, LastResetDate: "2024-01-15"}); err != nil {
		t.Fatalf("SaveCheatDays failed: %v", err)
	}

	cfg, err := q.Status("2024-02-02")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if cfg.UsedThisMonth != 0 || cfg.LastResetDate != "2024-02-02" {
		t.Errorf("Status = %+v", cfg)
	}

	stored, err := records.CheatDays()
	if err != nil {
		t.Fatalf("CheatDays failed: %v", err)
	}
	if stored.UsedThisMonth != 0 || stored.LastResetDate != "2024-02-02" {
		t.Errorf("reset not persisted: %+v", stored)
	}
}

func TestQuotaUse(t *testing.T) {
	q, records := newTestQuota(t)

	ok, err := q.Use("2024-01-09", "2024-01-10")
	if err != nil || !ok {
		t.Fatalf("Use = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = q.Use("2024-01-10", "2024-01-10")
	if ok || !errors.Is(err, ErrConsecutive) {
		t.Errorf("consecutive Use = (%v, %v), want (false, ErrConsecutive)", ok, err)
	}

	if _, err := q.Use("09/01/2024", "2024-01-10"); err == nil {
		t.Error("Use should reject a malformed date")
	}

	cfg, err := records.CheatDays()
	if err != nil {
		t.Fatalf("CheatDays failed: %v", err)
	}
	if cfg.UsedThisMonth != 1 || len(cfg.UsedDates) != 1 || cfg.UsedDates[0] != "2024-01-09" {
		t.Errorf("stored cfg = %+v", cfg)
	}
}
