package constants

const (
	SettingTimezone   = "timezone"
	SettingBasePoints = "base_points"
	SettingAutoBackup = "auto_backup"

	// Default Settings Values
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultAutoBackup = true
)
