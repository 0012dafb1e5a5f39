package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zzik-backend/internal/common/logger"
)

// ==========================
// Test Doubles
// ==========================

type stubEmailSender struct {
	mu    sync.Mutex
	sent  []string // "to|subject|body"
	fail  bool
	calls int
}

func (s *stubEmailSender) SendText(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return assert.AnError
	}
	s.sent = append(s.sent, to+"|"+subject+"|"+body)
	return nil
}

type stubSMSSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubSMSSender) SendSMS(_ context.Context, phoneNumber, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phoneNumber+"|"+message)
	return nil
}

// ==========================
// Dispatcher
// ==========================

func TestDispatcher_DeliversEmail(t *testing.T) {
	email := &stubEmailSender{}
	d := NewDispatcher(email, &stubSMSSender{}, 10*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	d.Enqueue("user-1", "email", "jiwoo@example.com", "ZZIK points earned", "You earned 10 points")

	require.Eventually(t, func() bool {
		email.mu.Lock()
		defer email.mu.Unlock()
		return len(email.sent) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "jiwoo@example.com|ZZIK points earned|You earned 10 points", email.sent[0])
}

func TestDispatcher_CoalescesBurstToLatest(t *testing.T) {
	email := &stubEmailSender{}
	d := NewDispatcher(email, &stubSMSSender{}, 40*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	d.Enqueue("user-1", "email", "jiwoo@example.com", "first", "body one")
	d.Enqueue("user-1", "email", "jiwoo@example.com", "second", "body two")
	d.Enqueue("user-1", "email", "jiwoo@example.com", "third", "body three")

	require.Eventually(t, func() bool {
		email.mu.Lock()
		defer email.mu.Unlock()
		return email.calls >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)

	email.mu.Lock()
	defer email.mu.Unlock()
	require.Len(t, email.sent, 1)
	assert.Equal(t, "jiwoo@example.com|third|body three", email.sent[0])
}

func TestDispatcher_IndependentRecipients(t *testing.T) {
	email := &stubEmailSender{}
	d := NewDispatcher(email, &stubSMSSender{}, 10*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	d.Enqueue("user-1", "email", "a@example.com", "s", "one")
	d.Enqueue("user-2", "email", "b@example.com", "s", "two")

	require.Eventually(t, func() bool {
		email.mu.Lock()
		defer email.mu.Unlock()
		return len(email.sent) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_PrunesStateAfterFlush(t *testing.T) {
	email := &stubEmailSender{}
	d := NewDispatcher(email, &stubSMSSender{}, 10*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	d.Enqueue("user-1", "email", "a@example.com", "s", "one")
	d.Enqueue("user-2", "email", "b@example.com", "s", "two")

	require.Eventually(t, func() bool {
		email.mu.Lock()
		defer email.mu.Unlock()
		return len(email.sent) == 2
	}, time.Second, 5*time.Millisecond)

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Empty(t, d.pending)
	assert.Empty(t, d.latest)
}

func TestDispatcher_SMSChannel(t *testing.T) {
	sms := &stubSMSSender{}
	d := NewDispatcher(&stubEmailSender{}, sms, 10*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	d.Enqueue("user-1", "sms", "+821012345678", "", "You earned 10 points")

	require.Eventually(t, func() bool {
		sms.mu.Lock()
		defer sms.mu.Unlock()
		return len(sms.sent) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "+821012345678|You earned 10 points", sms.sent[0])
}

func TestDispatcher_FailureInvokesHookWithError(t *testing.T) {
	email := &stubEmailSender{fail: true}
	d := NewDispatcher(email, &stubSMSSender{}, 10*time.Millisecond, logger.NewTestLogger(t))
	defer d.Stop()

	var mu sync.Mutex
	var gotErr error
	var gotChannel string
	d.afterSend = func(item *delivery, err error) {
		mu.Lock()
		defer mu.Unlock()
		gotErr = err
		gotChannel = item.channel
	}

	d.Enqueue("user-1", "email", "jiwoo@example.com", "s", "b")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotErr != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "email", gotChannel)
}

func TestDispatcher_StopCancelsPending(t *testing.T) {
	email := &stubEmailSender{}
	d := NewDispatcher(email, &stubSMSSender{}, 50*time.Millisecond, logger.NewTestLogger(t))

	d.Enqueue("user-1", "email", "jiwoo@example.com", "s", "b")
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	email.mu.Lock()
	defer email.mu.Unlock()
	assert.Zero(t, email.calls)
}
