package models

type Experience struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"` // popup, exhibition, concert, food
	Region        string   `json:"region"`
	Venue         string   `json:"venue"`
	Status        string   `json:"status"` // draft, funding, open, closed
	FundingGoal   int64    `json:"fundingGoal"`   // points
	FundingPledged int64   `json:"fundingPledged"` // points
	StartsAt      string   `json:"startsAt"`
	EndsAt        string   `json:"endsAt"`
	Tags          []string `json:"tags,omitempty"`
	CreatedAt     string   `json:"createdAt"`
}

type Pledge struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	ExperienceID string `json:"experienceId"`
	Amount       int64  `json:"amount"` // points
	Message      string `json:"message,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
