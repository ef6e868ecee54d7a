package models

import "time"

// DayActivity is the derived completion summary for one calendar date
type DayActivity struct {
	Date           string `json:"date"` // YYYY-MM-DD format
	CompletionRate int    `json:"completion_rate"`
	TasksCompleted int    `json:"tasks_completed"`
	TaskTotal      int    `json:"task_total"`
	CheatDay       bool   `json:"cheat_day"`
}

// StreakRecord holds the last computed streak and the best streak observed so far
type StreakRecord struct {
	Current   int       `json:"current"`
	Longest   int       `json:"longest"`
	UpdatedAt time.Time `json:"updated_at"`
}
