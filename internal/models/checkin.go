package models

type CheckIn struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	ExperienceID string `json:"experienceId"`
	CheckInDate  string `json:"checkInDate"` // YYYY-MM-DD, uniqueness key
	Points       int64  `json:"points"`
	CreatedAt    string `json:"createdAt"`
}

type LeaderboardEntry struct {
	Rank   int64   `json:"rank"`
	UserID string  `json:"userId"`
	Score  float64 `json:"score"`
}
