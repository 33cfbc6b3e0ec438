package telegram

import (
	"combinaapi/services"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// same alert key is sent at most once per interval
const defaultAlertInterval = 5 * time.Minute

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// Sender is the part of *tgbotapi.BotAPI used for alerts.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// AlertNotifier posts operational alerts to one chat. A nil notifier drops
// every alert, so callers need no configuration checks.
type AlertNotifier struct {
	bot      Sender
	chatID   int64
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewAlertNotifier(token string, chatID int64) (*AlertNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return NewAlertNotifierWithSender(bot, chatID), nil
}

func NewAlertNotifierWithSender(bot Sender, chatID int64) *AlertNotifier {
	return &AlertNotifier{
		bot:      bot,
		chatID:   chatID,
		interval: defaultAlertInterval,
		now:      time.Now,
		lastSent: map[string]time.Time{},
	}
}

// Alert sends text unless an alert with the same key went out recently.
func (n *AlertNotifier) Alert(ctx context.Context, key, text string) error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	now := n.now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.interval {
		n.mu.Unlock()
		return nil
	}
	n.lastSent[key] = now
	n.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, EscapeMessage(text))
	msg.ParseMode = "markdown"
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// BalancerExhausted is a services.BalancerConfig.OnExhausted hook. It sends in
// the background so the request that hit the limit is not delayed.
func (n *AlertNotifier) BalancerExhausted(stats []services.BackendStats) {
	if n == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("⚠️ All generative backends are over the failure limit, forcing a reset.\n")
	for _, s := range stats {
		fmt.Fprintf(&sb, "%s: %d failures, last used %s\n", s.Tag, s.Failures, s.LastUsed.UTC().Format(time.RFC3339))
	}
	go func(text string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = n.Alert(ctx, "balancer_exhausted", text)
	}(sb.String())
}
