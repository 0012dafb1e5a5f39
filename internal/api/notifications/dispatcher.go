package notifications

import (
	"context"
	"sync"
	"time"

	"zzik-backend/internal/common/debounce"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
)

// EmailSender delivers a plain-text email. Satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a text message. Satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

type delivery struct {
	recipientID string
	channel     string // email or sms
	target      string
	subject     string
	body        string
}

// Dispatcher pushes notifications out over email and SMS. Deliveries are
// debounced per recipient and channel: a burst of events within the window
// collapses into one message carrying the latest payload.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	window time.Duration
	logger logger.Logger

	mu      sync.Mutex
	pending map[string]*debounce.Debouncer
	latest  map[string]*delivery

	// afterSend is invoked with the delivery outcome. The service hooks it
	// to persist the notification row.
	afterSend func(d *delivery, err error)
}

func NewDispatcher(email EmailSender, sms SMSSender, window time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		email:   email,
		sms:     sms,
		window:  window,
		logger:  log,
		pending: make(map[string]*debounce.Debouncer),
		latest:  make(map[string]*delivery),
	}
}

// Enqueue schedules a delivery. A pending delivery to the same recipient and
// channel is replaced and its timer reset.
func (d *Dispatcher) Enqueue(recipientID, channel, target, subject, body string) {
	key := channel + ":" + recipientID

	d.mu.Lock()
	d.latest[key] = &delivery{recipientID: recipientID, channel: channel, target: target, subject: subject, body: body}
	deb, ok := d.pending[key]
	if !ok {
		deb = debounce.New(d.window)
		d.pending[key] = deb
	}
	d.mu.Unlock()

	deb.Do(func() { d.flush(key) })
}

// Stop cancels all pending deliveries.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, deb := range d.pending {
		deb.Stop()
	}
}

func (d *Dispatcher) flush(key string) {
	d.mu.Lock()
	item := d.latest[key]
	delete(d.latest, key)
	// The debouncer has fired; drop it so the map stays bounded by the
	// in-flight keys rather than every recipient ever seen. A racing
	// Enqueue simply creates a fresh one.
	delete(d.pending, key)
	d.mu.Unlock()

	if item == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch item.channel {
	case "email":
		err = d.email.SendText(ctx, item.target, item.subject, item.body)
	case "sms":
		err = d.sms.SendSMS(ctx, item.target, item.body)
	}

	status := "sent"
	if err != nil {
		status = "failed"
		d.logger.Error("notification delivery failed", map[string]interface{}{
			"channel": item.channel,
			"error":   err.Error(),
		})
	}
	metrics.NotificationsSent.WithLabelValues(item.channel, status).Inc()

	if d.afterSend != nil {
		d.afterSend(item, err)
	}
}
