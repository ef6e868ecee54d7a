// Package cheatday enforces the monthly cheat-day quota.
package cheatday

import (
	"errors"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	// ErrQuotaExhausted means every cheat day of the month is used.
	ErrQuotaExhausted = errors.New("no cheat days left this month")
	// ErrConsecutive means the previous day is already a cheat day.
	ErrConsecutive = errors.New("cheat days cannot be used on consecutive days")
	// ErrAlreadyUsed means a cheat day was already spent on that date.
	ErrAlreadyUsed = errors.New("a cheat day is already used on this date")
)

// Refresh zeroes the monthly counter when today falls in a different month
// than the last reset. It reports whether a reset happened. UsedDates is
// kept so the streak scan still sees earlier cheat days.
func Refresh(cfg *models.CheatDayConfig, today string) bool {
	if cfg.MaxPerMonth <= 0 {
		cfg.MaxPerMonth = constants.DefaultCheatDaysPerMonth
	}
	if utils.SameMonth(cfg.LastResetDate, today) {
		return false
	}
	cfg.UsedThisMonth = 0
	cfg.LastResetDate = today
	return true
}

// Check reports why date cannot be used, or nil when it can.
func Check(cfg models.CheatDayConfig, date string) error {
	if cfg.UsedThisMonth >= cfg.MaxPerMonth {
		return ErrQuotaExhausted
	}
	if cfg.IsUsed(date) {
		return ErrAlreadyUsed
	}
	prev, err := utils.AddDays(date, -1)
	if err != nil {
		return err
	}
	if cfg.IsUsed(prev) {
		return ErrConsecutive
	}
	return nil
}

// Consume spends a cheat day on date. On failure cfg is left untouched.
func Consume(cfg *models.CheatDayConfig, date string) bool {
	if Check(*cfg, date) != nil {
		return false
	}
	cfg.UsedThisMonth++
	cfg.UsedDates = append(cfg.UsedDates, date)
	return true
}

// Remaining is how many cheat days are left this month.
func Remaining(cfg models.CheatDayConfig) int {
	return max(cfg.MaxPerMonth-cfg.UsedThisMonth, 0)
}

// Quota persists the cheat-day config around Refresh and Consume.
type Quota struct {
	records *storage.Records
}

// NewQuota returns a Quota backed by the cheat-day collection of records.
func NewQuota(records *storage.Records) *Quota {
	return &Quota{records: records}
}

// Status loads the config as of today, persisting it if the month rolled
// over.
func (q *Quota) Status(today string) (models.CheatDayConfig, error) {
	cfg, err := q.records.CheatDays()
	if err != nil {
		return models.CheatDayConfig{}, err
	}
	if Refresh(&cfg, today) {
		if err := q.records.SaveCheatDays(cfg); err != nil {
			return models.CheatDayConfig{}, err
		}
		logger.Debug("Cheat-day quota reset", "date", today)
	}
	return cfg, nil
}

// Use spends a cheat day on date, where today drives the monthly reset. A
// refused request returns false and the reason; only the reset, if any, is
// persisted in that case.
func (q *Quota) Use(date, today string) (bool, error) {
	if !utils.ValidateDateFormat(date) {
		return false, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	cfg, err := q.Status(today)
	if err != nil {
		return false, err
	}
	if reason := Check(cfg, date); reason != nil {
		return false, reason
	}
	Consume(&cfg, date)
	if err := q.records.SaveCheatDays(cfg); err != nil {
		return false, err
	}
	return true, nil
}
