package models

const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

type Notification struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipientId"`
	Type        string                 `json:"type"`    // checkin_reward, pledge_received, experience_open
	Channel     string                 `json:"channel"` // email, sms, feed
	Status      string                 `json:"status"`  // pending, sent, failed
	Payload     map[string]interface{} `json:"payload"`
	SentAt      string                 `json:"sentAt,omitempty"`
	CreatedAt   string                 `json:"createdAt"`
}
