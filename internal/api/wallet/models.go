package wallet

import "zzik-backend/internal/models"

type BalanceOutput struct {
	UserID  string               `json:"userId"`
	Balance int64                `json:"balance"`
	Entries []models.WalletEntry `json:"entries"`
}

type EarnInput struct {
	UserID    string `json:"-"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

type SpendInput struct {
	UserID    string `json:"-"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

type EntryOutput struct {
	Entry   *models.WalletEntry `json:"entry"`
	Balance int64               `json:"balance"`
}
