package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is a static achievement definition paired with its unlock time
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rarity      Rarity     `json:"rarity"`
	Requirement string     `json:"requirement"` // "<kind>:<threshold>"
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Unlocked reports whether the badge has been earned
func (b Badge) Unlocked() bool {
	return b.UnlockedAt != nil
}

// ParseRequirement splits the requirement string into its kind and threshold
func (b Badge) ParseRequirement() (string, int, error) {
	kind, raw, ok := strings.Cut(b.Requirement, ":")
	if !ok || kind == "" {
		return "", 0, fmt.Errorf("invalid badge requirement %q (expected kind:threshold)", b.Requirement)
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("invalid threshold in badge requirement %q: %w", b.Requirement, err)
	}
	return kind, threshold, nil
}
