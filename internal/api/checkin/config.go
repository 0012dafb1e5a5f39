package checkin

import "fmt"

// GlobalLeaderboardKey is the Redis sorted set backing the all-experiences
// leaderboard.
const GlobalLeaderboardKey = "leaderboard:global"

type Config struct {
	CheckInPoints     int64
	DailyStreakPoints int64
	TopN              int64
}

func LoadConfig() *Config {
	return &Config{
		CheckInPoints:     10,
		DailyStreakPoints: 5,
		TopN:              20,
	}
}

// ExperienceLeaderboardKey returns the Redis key for a per-experience
// leaderboard.
func ExperienceLeaderboardKey(experienceID string) string {
	return fmt.Sprintf("leaderboard:exp:%s", experienceID)
}
