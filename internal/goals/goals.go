// Package goals holds the progress rules for yearly goals.
package goals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// Validate checks a goal before it is stored.
func Validate(g models.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("goal title cannot be empty")
	}
	if g.TargetType != models.TargetNumeric && g.TargetType != models.TargetItems {
		return fmt.Errorf("unknown goal type %q", g.TargetType)
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("goal target must be greater than 0, got %v", g.TargetValue)
	}
	if g.Year < MinYear || g.Year > MaxYear {
		return fmt.Errorf("goal year must be between %d and %d, got %d", MinYear, MaxYear, g.Year)
	}
	return nil
}

// ItemsFor returns the items that belong to goalID.
func ItemsFor(items []models.GoalItem, goalID string) []models.GoalItem {
	var out []models.GoalItem
	for _, it := range items {
		if it.GoalID == goalID {
			out = append(out, it)
		}
	}
	return out
}

// Progress returns the current value and the percentage of the target
// reached, capped at 100. Numeric goals use CurrentValue; item goals count
// completed items belonging to the goal.
func Progress(g models.Goal, items []models.GoalItem) (current, percent float64) {
	switch g.TargetType {
	case models.TargetItems:
		for _, it := range items {
			if it.GoalID == g.ID && it.Completed {
				current++
			}
		}
	default:
		current = g.CurrentValue
	}

	if g.TargetValue <= 0 {
		return current, 0
	}
	percent = current / g.TargetValue * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return current, percent
}

// MarkCompleted stamps CompletedAt the first time the goal reaches its
// target and reports whether it did. A completed goal stays completed.
func MarkCompleted(g *models.Goal, items []models.GoalItem, now time.Time) bool {
	if g.CompletedAt != nil {
		return false
	}
	current, _ := Progress(*g, items)
	if g.TargetValue <= 0 || current < g.TargetValue {
		return false
	}
	at := now
	g.CompletedAt = &at
	return true
}

// ApplyProgress adds amount to a numeric goal's running total.
func ApplyProgress(g *models.Goal, amount float64) error {
	if g.TargetType != models.TargetNumeric {
		return fmt.Errorf("goal %q tracks items, not numeric progress", g.Title)
	}
	g.CurrentValue += amount
	return nil
}
