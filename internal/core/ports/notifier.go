package ports

import "context"

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers a message to a user's address. Implementations must
// not mutate application state; callers decide whether a delivery
// failure is fatal to their flow.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// MailQueue accepts messages for asynchronous, best-effort delivery.
// Failures are logged by the worker, never surfaced to the caller.
type MailQueue interface {
	Enqueue(msg Message)
}
