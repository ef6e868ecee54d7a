package gamification

import (
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestAward(t *testing.T) {
	tests := []struct {
		name       string
		profile    models.UserProfile
		base       int
		streak     int
		want       models.UserProfile
		wantEarned int
	}{
		{
			name:       "level up with remainder",
			profile:    models.UserProfile{Points: 95, Level: 1, PointsToNextLevel: 100},
			base:       10,
			streak:     6,
			want:       models.UserProfile{Points: 5, Level: 2, PointsToNextLevel: 200},
			wantEarned: 10,
		},
		{
			name:       "streak bonus at seven days",
			profile:    models.UserProfile{Points: 0, Level: 1, PointsToNextLevel: 100},
			base:       10,
			streak:     7,
			want:       models.UserProfile{Points: 15, Level: 1, PointsToNextLevel: 100},
			wantEarned: 15,
		},
		{
			name:       "bonus is floored",
			profile:    models.UserProfile{Points: 0, Level: 1, PointsToNextLevel: 100},
			base:       5,
			streak:     30,
			want:       models.UserProfile{Points: 7, Level: 1, PointsToNextLevel: 100},
			wantEarned: 7,
		},
		{
			name:       "exact threshold levels up",
			profile:    models.UserProfile{Points: 90, Level: 1, PointsToNextLevel: 100},
			base:       10,
			want:       models.UserProfile{Points: 0, Level: 2, PointsToNextLevel: 200},
			wantEarned: 10,
		},
		{
			name:       "multi level jump",
			profile:    models.UserProfile{Points: 0, Level: 1, PointsToNextLevel: 100},
			base:       350,
			want:       models.UserProfile{Points: 50, Level: 3, PointsToNextLevel: 300},
			wantEarned: 350,
		},
		{
			name:       "zero profile is repaired",
			profile:    models.UserProfile{},
			base:       10,
			want:       models.UserProfile{Points: 10, Level: 1, PointsToNextLevel: 100},
			wantEarned: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, earned := Award(tt.profile, tt.base, tt.streak)
			if earned != tt.wantEarned {
				t.Errorf("earned = %d, want %d", earned, tt.wantEarned)
			}
			if got.Points != tt.want.Points || got.Level != tt.want.Level || got.PointsToNextLevel != tt.want.PointsToNextLevel {
				t.Errorf("Award = {points %d level %d next %d}, want {points %d level %d next %d}",
					got.Points, got.Level, got.PointsToNextLevel, tt.want.Points, tt.want.Level, tt.want.PointsToNextLevel)
			}
			if got.PointsToNextLevel != got.Level*100 {
				t.Errorf("PointsToNextLevel %d out of sync with level %d", got.PointsToNextLevel, got.Level)
			}
		})
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{6, 1.0},
		{7, 1.5},
		{365, 1.5},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.streak); got != tt.want {
			t.Errorf("Multiplier(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}
}
