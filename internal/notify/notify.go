// Package notify delivers rendered settlement plans to people outside the app.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/goingdutch/internal/calculator"
	"github.com/mmynk/goingdutch/internal/models"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("no recipients")

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of sending them.
// It is used when no email provider is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default().
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	s.logger.InfoContext(ctx, "Skipping email send (no provider configured)",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	)
	return nil
}

// RenderSettlement formats a group's transfer plan as an email.
func RenderSettlement(group *models.Group, transactions []calculator.Transaction, isPaid calculator.PaidLookup) Message {
	names := make(map[string]string, len(group.Members))
	for _, m := range group.Members {
		names[m.ID] = m.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Settlement for %s\n\n", group.Name)
	if len(transactions) == 0 {
		b.WriteString("Everyone is settled up.\n")
	}
	for _, tx := range transactions {
		fmt.Fprintf(&b, "- %s pays %s %s %s", name(tx.From), name(tx.To), tx.Amount.String(), group.Currency)
		if isPaid != nil && isPaid(tx.From, tx.To) {
			b.WriteString(" (paid)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nInvite code: %s\n", group.InviteCode)

	return Message{
		Subject: fmt.Sprintf("Who pays whom: %s", group.Name),
		Body:    b.String(),
	}
}
