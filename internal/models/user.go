package models

type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	Region        string `json:"region"` // KR, US, JP
	Tier          string `json:"tier"`   // free, silver, gold, platinum, diamond
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
}

type Badge struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"` // common, rare, epic, legendary, diamond
	EarnedAt string `json:"earnedAt"`
}
