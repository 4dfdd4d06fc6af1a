// internal/notify/notifier.go
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Message is the payload handed to the push-delivery subsystem.
type Message struct {
	DeliveryID string  `json:"deliveryId"`
	Title      string  `json:"title"`
	Body       string  `json:"message"`
	UserIDs    []int64 `json:"targetUserIds,omitempty"`
	IsGlobal   bool    `json:"isGlobal"`
}

// Sender delivers a message to the push transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is the default Sender: it records the delivery in the log and
// always succeeds. A real transport plugs in behind the same interface.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("push notification dispatched",
		"deliveryId", msg.DeliveryID,
		"title", msg.Title,
		"isGlobal", msg.IsGlobal,
		"targets", len(msg.UserIDs),
	)
	return nil
}

// Notifier dispatches fire-and-forget notifications after a settlement has
// committed. Delivery runs on its own goroutine with its own deadline, so
// settlement latency and correctness never depend on the push transport.
// A failed delivery is logged and dropped, never retried into the ledger path.
type Notifier struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
}

// NewNotifier creates a Notifier around the given sender.
func NewNotifier(sender Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Dispatch sends a message to the given users asynchronously. An empty target
// list marks the message global.
func (n *Notifier) Dispatch(title, body string, userIDs ...int64) {
	msg := Message{
		DeliveryID: uuid.NewString(),
		Title:      title,
		Body:       body,
		UserIDs:    userIDs,
		IsGlobal:   len(userIDs) == 0,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error("push notification delivery failed",
				"deliveryId", msg.DeliveryID, "title", msg.Title, "error", err)
		}
	}()
}
