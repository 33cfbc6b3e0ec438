package telegram

import (
	"combinaapi/services"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return tgbotapi.Message{}, r.err
	}
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestEscapeMessage(t *testing.T) {
	assert.Equal(t, "user\\_id \\*bold\\* \\[x\\] \\`code\\`", EscapeMessage("user_id *bold* [x] `code`"))
}

func TestAlertThrottlesPerKey(t *testing.T) {
	sender := &recordingSender{}
	n := NewAlertNotifierWithSender(sender, 42)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	require.NoError(t, n.Alert(context.Background(), "k", "first"))
	require.NoError(t, n.Alert(context.Background(), "k", "second"))
	require.NoError(t, n.Alert(context.Background(), "other", "third"))
	assert.Equal(t, 2, sender.count())
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "markdown", sender.sent[0].ParseMode)

	now = now.Add(6 * time.Minute)
	require.NoError(t, n.Alert(context.Background(), "k", "again"))
	assert.Equal(t, 3, sender.count())
}

func TestAlertSendError(t *testing.T) {
	n := NewAlertNotifierWithSender(&recordingSender{err: errors.New("blocked")}, 1)
	assert.Error(t, n.Alert(context.Background(), "k", "text"))
}

func TestNilNotifierIsSilent(t *testing.T) {
	var n *AlertNotifier
	assert.NoError(t, n.Alert(context.Background(), "k", "text"))
	n.BalancerExhausted(nil)

	n, err := NewAlertNotifier("", 0)
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestBalancerExhaustedSendsInBackground(t *testing.T) {
	sender := &recordingSender{}
	n := NewAlertNotifierWithSender(sender, 7)
	n.BalancerExhausted([]services.BackendStats{{Tag: "primary", Failures: 3}, {Tag: "secondary", Failures: 3}})

	assert.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 10*time.Millisecond)
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Contains(t, sender.sent[0].Text, "primary: 3 failures")
}
