package models

import "time"

// UserProfile is the singleton identity and progression record
type UserProfile struct {
	Name              string    `json:"name"`
	Level             int       `json:"level"`
	Points            int       `json:"points"` // accumulated within the current level
	PointsToNextLevel int       `json:"points_to_next_level"`
	CreatedAt         time.Time `json:"created_at"`
}

// CheatDayConfig tracks monthly cheat-day usage
type CheatDayConfig struct {
	MaxPerMonth   int      `json:"max_per_month"`
	UsedThisMonth int      `json:"used_this_month"`
	LastResetDate string   `json:"last_reset_date"` // YYYY-MM-DD format
	UsedDates     []string `json:"used_dates"`
}

// IsUsed reports whether a cheat day was consumed on the given date
func (c CheatDayConfig) IsUsed(date string) bool {
	for _, d := range c.UsedDates {
		if d == date {
			return true
		}
	}
	return false
}

// Settings represents persisted user preferences
type Settings struct {
	Timezone   string `json:"timezone"`    // IANA timezone name or "Local" for system timezone
	BasePoints int    `json:"base_points"` // points awarded per completion before bonuses
	AutoBackup bool   `json:"auto_backup"` // snapshot the database before destructive commands
}
