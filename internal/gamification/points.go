// Package gamification turns completions into points, levels and badges.
package gamification

import (
	"math"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Multiplier is the streak bonus applied to base points.
func Multiplier(currentStreak int) float64 {
	if currentStreak >= constants.StreakBonusMinDays {
		return constants.StreakBonusMultiplier
	}
	return 1.0
}

// Award adds floor(base*multiplier) points to the profile and rolls over as
// many levels as the total covers. Level N needs N*100 points to clear.
func Award(profile models.UserProfile, basePoints, currentStreak int) (models.UserProfile, int) {
	earned := int(math.Floor(float64(basePoints) * Multiplier(currentStreak)))
	if profile.Level < constants.InitialLevel {
		profile.Level = constants.InitialLevel
	}
	if profile.PointsToNextLevel <= 0 {
		profile.PointsToNextLevel = profile.Level * constants.PointsPerLevel
	}

	profile.Points += earned
	for profile.Points >= profile.PointsToNextLevel {
		profile.Points -= profile.PointsToNextLevel
		profile.Level++
		profile.PointsToNextLevel = profile.Level * constants.PointsPerLevel
	}
	return profile, earned
}
