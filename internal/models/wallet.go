package models

const (
	WalletKindEarn   = "earn"
	WalletKindSpend  = "spend"
	WalletKindPledge = "pledge"
	WalletKindRefund = "refund"
)

// WalletEntry is a row of the append-only points ledger. Amount is signed:
// positive for earns, negative for spends. The balance is the sum.
type WalletEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Amount    int64  `json:"amount"`
	Kind      string `json:"kind"` // earn, spend, pledge, refund
	Reference string `json:"reference,omitempty"`
	CreatedAt string `json:"createdAt"`
}
