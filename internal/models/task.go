package models

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryHealth      Category = "health"
	CategoryWork        Category = "work"
	CategoryPersonal    Category = "personal"
	CategoryLearning    Category = "learning"
	CategoryFitness     Category = "fitness"
	CategoryMindfulness Category = "mindfulness"
)

// Categories lists every known task category
var Categories = []Category{
	CategoryHealth,
	CategoryWork,
	CategoryPersonal,
	CategoryLearning,
	CategoryFitness,
	CategoryMindfulness,
}

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAnytime   TimeOfDay = "anytime"
)

// TimesOfDay lists every known time-of-day slot
var TimesOfDay = []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening, TimeAnytime}

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Frequencies lists every known task frequency
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyCustom}

// Task is a recurring habit definition
type Task struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Category     Category       `json:"category"`
	TimeOfDay    TimeOfDay      `json:"time_of_day"`
	Frequency    Frequency      `json:"frequency"`
	Weekdays     []time.Weekday `json:"weekdays,omitempty"`       // custom frequency only
	TimesPerWeek int            `json:"times_per_week,omitempty"` // weekly frequency only, informational
	Order        int            `json:"order"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AppliesOn reports whether the task counts toward a day with the given weekday.
// Weekly tasks apply every day; their weekly target is tracked by raw completion count.
func (t Task) AppliesOn(weekday time.Weekday) bool {
	switch t.Frequency {
	case FrequencyCustom:
		for _, wd := range t.Weekdays {
			if wd == weekday {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// ParseCategory converts a user supplied string into a Category
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseTimeOfDay converts a user supplied string into a TimeOfDay
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range TimesOfDay {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown time of day %q", s)
}

// ParseFrequency converts a user supplied string into a Frequency
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Frequencies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// TaskCompletion records that a task was performed on a local calendar date
type TaskCompletion struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Date        string    `json:"date"` // YYYY-MM-DD format, local timezone
	CompletedAt time.Time `json:"completed_at"`
	Note        string    `json:"note,omitempty"`
}
