package models

import (
	"fmt"
	"strings"
	"time"
)

type TargetType string

const (
	TargetNumeric TargetType = "numeric"
	TargetItems   TargetType = "items"
)

// ParseTargetType converts a user supplied string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(strings.ToLower(strings.TrimSpace(s))) {
	case TargetNumeric:
		return TargetNumeric, nil
	case TargetItems:
		return TargetItems, nil
	default:
		return "", fmt.Errorf("unknown goal type %q (expected numeric or items)", s)
	}
}

// Goal is a yearly target, either a running numeric total or a checklist
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Year         int        `json:"year"`
	TargetType   TargetType `json:"target_type"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"` // numeric goals only
	Unit         string     `json:"unit,omitempty"`
	Archived     bool       `json:"archived"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// GoalItem is a checklist entry of an items goal
type GoalItem struct {
	ID          string     `json:"id"`
	GoalID      string     `json:"goal_id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProgressUpdate is an incremental contribution to a numeric goal
type ProgressUpdate struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
