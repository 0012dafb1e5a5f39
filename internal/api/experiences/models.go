package experiences

import "zzik-backend/internal/models"

type ListInput struct {
	Status   string
	Category string
	Region   string
	Page     int
	PageSize int
}

type ListOutput struct {
	Experiences []models.Experience `json:"experiences"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"pageSize"`
	Total       int64               `json:"total"`
}

type SearchInput struct {
	Query    string
	Region   string
	Category string
}

type SearchOutput struct {
	Experiences []models.Experience `json:"experiences"`
	Total       int64               `json:"total"`
}

type PledgeInput struct {
	UserID       string `json:"-"`
	ExperienceID string `json:"-"`
	Amount       int64  `json:"amount"`
	Message      string `json:"message,omitempty"`
}

type PledgeOutput struct {
	Pledge         *models.Pledge `json:"pledge"`
	FundingPledged int64          `json:"fundingPledged"`
	FundingGoal    int64          `json:"fundingGoal"`
	GoalReached    bool           `json:"goalReached"`
}
