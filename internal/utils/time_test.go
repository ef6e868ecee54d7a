package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 10 is already Jan 11 in Tokyo
	instant := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	if got := DateOf(instant, time.UTC); got != "2024-01-10" {
		t.Errorf("DateOf(UTC) = %s, want 2024-01-10", got)
	}
	if got := DateOf(instant, tokyo); got != "2024-01-11" {
		t.Errorf("DateOf(Tokyo) = %s, want 2024-01-11", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		date string
		n    int
		want string
	}{
		{"2024-01-10", -1, "2024-01-09"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-01-10", 0, "2024-01-10"},
	}

	for _, tt := range tests {
		got, err := AddDays(tt.date, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) unexpected error: %v", tt.date, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.date, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("2024/01/10", 1); err == nil {
		t.Error("AddDays() expected error for malformed date")
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2024-01-10")
	if err != nil {
		t.Fatalf("Weekday() unexpected error: %v", err)
	}
	if wd != time.Wednesday {
		t.Errorf("Weekday(2024-01-10) = %v, want Wednesday", wd)
	}
}

func TestSameMonth(t *testing.T) {
	if !SameMonth("2024-01-15", "2024-01-31") {
		t.Error("expected same month")
	}
	if SameMonth("2024-01-15", "2024-02-01") {
		t.Error("expected different month")
	}
	if SameMonth("2023-01-15", "2024-01-15") {
		t.Error("expected different year to differ")
	}
}

func TestDateRange(t *testing.T) {
	days, err := DateRange("2024-02-27", "2024-03-02")
	if err != nil {
		t.Fatalf("DateRange() unexpected error: %v", err)
	}
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(days) != len(want) {
		t.Fatalf("DateRange() returned %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("DateRange()[%d] = %s, want %s", i, days[i], want[i])
		}
	}

	if _, err := DateRange("2024-03-02", "2024-02-27"); err == nil {
		t.Error("DateRange() expected error when end is before start")
	}
}

func TestMonthBounds(t *testing.T) {
	first, last, err := MonthBounds("2024-02-14")
	if err != nil {
		t.Fatalf("MonthBounds() unexpected error: %v", err)
	}
	if first != "2024-02-01" || last != "2024-02-29" {
		t.Errorf("MonthBounds() = %s..%s, want 2024-02-01..2024-02-29", first, last)
	}
}
