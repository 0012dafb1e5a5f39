package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
	"zzik-backend/internal/common/validation"
	"zzik-backend/internal/models"
)

// Service owns the in-app notification feed and fans events out to the
// email/SMS dispatcher. The feed row is written synchronously; outbound
// channels are best-effort and debounced.
type Service struct {
	config     *Config
	db         *database.PostgresClient
	dispatcher *Dispatcher
	logger     logger.Logger
	now        func() time.Time
}

func NewService(config *Config, db *database.PostgresClient, dispatcher *Dispatcher, log logger.Logger) *Service {
	return &Service{
		config:     config,
		db:         db,
		dispatcher: dispatcher,
		logger:     log,
		now:        time.Now,
	}
}

// Feed returns the newest notifications for a user.
func (s *Service) Feed(ctx context.Context, userID string) (*FeedOutput, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, recipient_id, type, channel, status, payload, COALESCE(sent_at, ''), created_at
		 FROM notifications
		 WHERE recipient_id = $1 AND channel = 'feed'
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, s.config.FeedPageSize,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("notification feed", err)
	}
	defer rows.Close()

	output := &FeedOutput{Notifications: []models.Notification{}}
	for rows.Next() {
		var n models.Notification
		var rawPayload []byte
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Channel, &n.Status, &rawPayload, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("notification feed scan", err)
		}
		if len(rawPayload) > 0 {
			if err := json.Unmarshal(rawPayload, &n.Payload); err != nil {
				s.logger.Warn("notification payload unreadable", map[string]interface{}{
					"id":    n.ID,
					"error": err.Error(),
				})
			}
		}
		output.Notifications = append(output.Notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("notification feed", err)
	}

	return output, nil
}

// Notify writes a feed notification and schedules email/SMS delivery for the
// recipient's enabled channels. Implements the Notifier interface the pledge
// flow depends on.
func (s *Service) Notify(ctx context.Context, recipientID, notifType string, payload map[string]interface{}) {
	createdAt := s.now().UTC().Format(time.RFC3339)
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		rawPayload = []byte("{}")
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO notifications (id, recipient_id, type, channel, status, payload, sent_at, created_at)
		 VALUES ($1, $2, $3, 'feed', 'sent', $4, $5, $5)`,
		uuid.New().String(), recipientID, notifType, rawPayload, createdAt,
	)
	if err != nil {
		s.logger.Error("feed notification write failed", map[string]interface{}{
			"recipientId": recipientID,
			"type":        notifType,
			"error":       err.Error(),
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues("feed", "sent").Inc()

	if s.dispatcher == nil {
		return
	}

	email, phone, err := s.recipientContacts(ctx, recipientID)
	if err != nil {
		s.logger.Warn("recipient lookup failed, feed only", map[string]interface{}{
			"recipientId": recipientID,
			"error":       err.Error(),
		})
		return
	}

	body := renderBody(notifType, payload)
	if s.config.EmailEnabled && email != "" {
		s.dispatcher.Enqueue(recipientID, "email", email, subjectFor(notifType), body)
	}
	if s.config.SMSEnabled && phone != "" {
		s.dispatcher.Enqueue(recipientID, "sms", phone, "", body)
	}
}

// recipientContacts returns the verified email and phone number for a user.
// Unverified emails come back empty so we never mail them.
func (s *Service) recipientContacts(ctx context.Context, userID string) (string, string, error) {
	var email, phone string
	var verified bool
	err := s.db.QueryRow(ctx,
		`SELECT email, COALESCE(phone_number, ''), email_verified FROM users WHERE id = $1`,
		userID,
	).Scan(&email, &phone, &verified)
	if err != nil {
		return "", "", err
	}
	if !verified || !validation.ValidateEmail(email) {
		email = ""
	}
	if phone != "" && !validation.ValidatePhone(phone) {
		phone = ""
	}
	return email, phone, nil
}

// recordDelivery persists the outcome of an outbound delivery. Installed as
// the dispatcher's afterSend hook.
func (s *Service) recordDelivery(d *delivery, sendErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := models.NotificationStatusSent
	sentAt := s.now().UTC().Format(time.RFC3339)
	if sendErr != nil {
		status = models.NotificationStatusFailed
		sentAt = ""
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (id, recipient_id, type, channel, status, payload, sent_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, '{}', $6, $7)`,
		uuid.New().String(), d.recipientID, "delivery", d.channel, status, nullable(sentAt), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Error("delivery record write failed", map[string]interface{}{
			"channel": d.channel,
			"error":   err.Error(),
		})
	}
}

// BindDispatcher installs the delivery-outcome hook. Called once at wiring
// time; separate from the constructor because dispatcher and service
// reference each other.
func (s *Service) BindDispatcher() {
	if s.dispatcher != nil {
		s.dispatcher.afterSend = s.recordDelivery
	}
}

func renderBody(notifType string, payload map[string]interface{}) string {
	switch notifType {
	case "checkin_reward":
		return fmt.Sprintf("You earned %v points for checking in. Keep the streak going!", payload["points"])
	case "pledge_received":
		return fmt.Sprintf("Your pledge of %v points to experience %v was recorded.", payload["amount"], payload["experienceId"])
	case "experience_open":
		return fmt.Sprintf("Experience %v is now open. See you there!", payload["experienceId"])
	default:
		return "You have a new ZZIK update."
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
