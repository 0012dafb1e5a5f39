package models

type Review struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	ExperienceID string `json:"experienceId"`
	Rating       int    `json:"rating"` // 1..5
	Body         string `json:"body"`
	CreatedAt    string `json:"createdAt"`
}
