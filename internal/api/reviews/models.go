package reviews

import "zzik-backend/internal/models"

type CreateInput struct {
	UserID       string `json:"-"`
	ExperienceID string `json:"-"`
	Rating       int    `json:"rating"`
	Body         string `json:"body"`
}

type ListInput struct {
	ExperienceID string
	Page         int
	PageSize     int
}

type ListOutput struct {
	Reviews       []models.Review `json:"reviews"`
	Page          int             `json:"page"`
	PageSize      int             `json:"pageSize"`
	Total         int64           `json:"total"`
	AverageRating float64         `json:"averageRating"`
}
