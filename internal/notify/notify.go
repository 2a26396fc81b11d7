package notify

import (
	"context"
	"time"
)

// ContactNotification is the data sent when a visitor submits the contact
// form.
type ContactNotification struct {
	Name       string
	Email      string
	Phone      string
	Subject    string
	Message    string
	ReceivedAt time.Time
}

// Notifier sends transactional email.
type Notifier interface {
	// ContactReceived notifies the site admin and confirms receipt to the
	// visitor.
	ContactReceived(ctx context.Context, n ContactNotification) error
}

// NoOp drops every notification.
type NoOp struct{}

func (NoOp) ContactReceived(context.Context, ContactNotification) error { return nil }
