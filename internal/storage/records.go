package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Records is the typed view over a Provider. Getters return defaults for
// collections that were never written, and stored objects missing newer
// fields keep the default values for them.
type Records struct {
	p Provider
}

// NewRecords wraps p in the typed collection layer.
func NewRecords(p Provider) *Records {
	return &Records{p: p}
}

// Provider returns the underlying store.
func (r *Records) Provider() Provider {
	return r.p
}

func load[T any](r *Records, collection string, def T) (T, error) {
	data, err := r.p.Get(collection)
	if err != nil {
		return def, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	if data == nil {
		return def, nil
	}
	v := def
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return v, nil
}

func save[T any](r *Records, collection string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	if err := r.p.Set(collection, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return nil
}

// DefaultProfile is the profile of a user who has earned nothing yet.
func DefaultProfile() models.UserProfile {
	return models.UserProfile{
		Name:              constants.ProfileDefaultName,
		Level:             constants.InitialLevel,
		PointsToNextLevel: constants.InitialLevel * constants.PointsPerLevel,
	}
}

func DefaultCheatDays() models.CheatDayConfig {
	return models.CheatDayConfig{MaxPerMonth: constants.DefaultCheatDaysPerMonth}
}

func DefaultSettings() models.Settings {
	return models.Settings{
		Timezone:   constants.DefaultTimezone,
		BasePoints: constants.DefaultBasePoints,
		AutoBackup: constants.DefaultAutoBackup,
	}
}

func (r *Records) Profile() (models.UserProfile, error) {
	return load(r, constants.CollectionProfile, DefaultProfile())
}

func (r *Records) SaveProfile(p models.UserProfile) error {
	return save(r, constants.CollectionProfile, p)
}

func (r *Records) Tasks() ([]models.Task, error) {
	return load(r, constants.CollectionTasks, []models.Task{})
}

func (r *Records) SaveTasks(tasks []models.Task) error {
	return save(r, constants.CollectionTasks, nonNil(tasks))
}

func (r *Records) Completions() ([]models.TaskCompletion, error) {
	return load(r, constants.CollectionCompletions, []models.TaskCompletion{})
}

func (r *Records) SaveCompletions(c []models.TaskCompletion) error {
	return save(r, constants.CollectionCompletions, nonNil(c))
}

func (r *Records) Activities() ([]models.DayActivity, error) {
	return load(r, constants.CollectionActivities, []models.DayActivity{})
}

func (r *Records) SaveActivities(a []models.DayActivity) error {
	return save(r, constants.CollectionActivities, nonNil(a))
}

func (r *Records) Goals() ([]models.Goal, error) {
	return load(r, constants.CollectionGoals, []models.Goal{})
}

func (r *Records) SaveGoals(g []models.Goal) error {
	return save(r, constants.CollectionGoals, nonNil(g))
}

func (r *Records) GoalItems() ([]models.GoalItem, error) {
	return load(r, constants.CollectionGoalItems, []models.GoalItem{})
}

func (r *Records) SaveGoalItems(items []models.GoalItem) error {
	return save(r, constants.CollectionGoalItems, nonNil(items))
}

func (r *Records) ProgressUpdates() ([]models.ProgressUpdate, error) {
	return load(r, constants.CollectionGoalProgress, []models.ProgressUpdate{})
}

func (r *Records) SaveProgressUpdates(u []models.ProgressUpdate) error {
	return save(r, constants.CollectionGoalProgress, nonNil(u))
}

// Badges returns the stored badge list, or nil when the catalog has not
// been seeded yet.
func (r *Records) Badges() ([]models.Badge, error) {
	return load[[]models.Badge](r, constants.CollectionBadges, nil)
}

func (r *Records) SaveBadges(b []models.Badge) error {
	return save(r, constants.CollectionBadges, nonNil(b))
}

func (r *Records) CheatDays() (models.CheatDayConfig, error) {
	return load(r, constants.CollectionCheatDays, DefaultCheatDays())
}

func (r *Records) SaveCheatDays(c models.CheatDayConfig) error {
	return save(r, constants.CollectionCheatDays, c)
}

func (r *Records) Streak() (models.StreakRecord, error) {
	return load(r, constants.CollectionStreak, models.StreakRecord{})
}

func (r *Records) SaveStreak(s models.StreakRecord) error {
	return save(r, constants.CollectionStreak, s)
}

func (r *Records) Settings() (models.Settings, error) {
	return load(r, constants.CollectionSettings, DefaultSettings())
}

func (r *Records) SaveSettings(s models.Settings) error {
	return save(r, constants.CollectionSettings, s)
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
