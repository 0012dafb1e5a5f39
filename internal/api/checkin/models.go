package checkin

import "zzik-backend/internal/models"

type CheckInInput struct {
	UserID       string
	ExperienceID string
	Date         string // YYYY-MM-DD
}

type CheckInOutput struct {
	CheckIn       *models.CheckIn `json:"checkIn"`
	PointsAwarded int64           `json:"pointsAwarded"`
	StreakBonus   bool            `json:"streakBonus"`
	Duplicate     bool            `json:"duplicate"`
}

type LeaderboardInput struct {
	ExperienceID string // empty for the global board
	UserID       string // empty when unauthenticated
}

type LeaderboardOutput struct {
	Scope        string                    `json:"scope"` // global or experience
	ExperienceID string                    `json:"experienceId,omitempty"`
	Entries      []models.LeaderboardEntry `json:"entries"`
	Me           *models.LeaderboardEntry  `json:"me,omitempty"`
}
