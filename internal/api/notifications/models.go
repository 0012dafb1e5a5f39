package notifications

import "zzik-backend/internal/models"

type FeedOutput struct {
	Notifications []models.Notification `json:"notifications"`
}

// subjects maps notification types to email subject lines.
var subjects = map[string]string{
	"checkin_reward":  "ZZIK points earned",
	"pledge_received": "Your pledge was recorded",
	"experience_open": "An experience you backed is now open",
}

func subjectFor(notifType string) string {
	if s, ok := subjects[notifType]; ok {
		return s
	}
	return "ZZIK update"
}
