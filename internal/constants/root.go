package constants

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"
)

// Collection names used by the record store
const (
	CollectionProfile      = "profile"
	CollectionTasks        = "tasks"
	CollectionCompletions  = "completions"
	CollectionActivities   = "activities"
	CollectionGoals        = "goals"
	CollectionGoalItems    = "goal_items"
	CollectionGoalProgress = "goal_progress"
	CollectionBadges       = "badges"
	CollectionCheatDays    = "cheat_days"
	CollectionStreak       = "streak"
	CollectionSettings     = "settings"
)

// Collections lists every collection the store knows about, in the order
// they are migrated and reported by doctor.
var Collections = []string{
	CollectionSettings,
	CollectionProfile,
	CollectionTasks,
	CollectionCompletions,
	CollectionActivities,
	CollectionStreak,
	CollectionCheatDays,
	CollectionGoals,
	CollectionGoalItems,
	CollectionGoalProgress,
	CollectionBadges,
}

const (
	// StreakThreshold is the minimum completion rate for a day to extend a streak.
	StreakThreshold = 50
	// StreakScanLimit caps the backward streak scan.
	StreakScanLimit = 365
	// PerfectDayRate is the completion rate of a perfect day.
	PerfectDayRate = 100

	DefaultBasePoints     = 10
	StreakBonusMinDays    = 7
	StreakBonusMultiplier = 1.5
	PointsPerLevel        = 100
	InitialLevel          = 1

	DefaultCheatDaysPerMonth = 4

	// ProfileDefaultName is used until the user renames their profile.
	ProfileDefaultName = "Habit Hero"

	// RecomputeMaxDays bounds a single recompute request.
	RecomputeMaxDays = 3 * 365
)
