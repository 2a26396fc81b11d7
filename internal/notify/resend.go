package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the part of the resend client the notifier uses.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendConfig configures the resend notifier.
type ResendConfig struct {
	APIKey         string
	From           string
	AdminRecipient string
}

// ResendNotifier sends email through the Resend API.
type ResendNotifier struct {
	sender EmailSender
	from   string
	admin  string
}

// NewResendNotifier builds a notifier over a resend client.
func NewResendNotifier(cfg ResendConfig) *ResendNotifier {
	client := resend.NewClient(cfg.APIKey)
	return NewResendNotifierWithSender(client.Emails, cfg.From, cfg.AdminRecipient)
}

// NewResendNotifierWithSender builds a notifier over any sender.
func NewResendNotifierWithSender(sender EmailSender, from, admin string) *ResendNotifier {
	return &ResendNotifier{sender: sender, from: from, admin: admin}
}

// ContactReceived sends both emails. A failure of one does not prevent the
// other; the errors are joined.
func (n *ResendNotifier) ContactReceived(ctx context.Context, msg ContactNotification) error {
	var errs []error

	if n.admin != "" {
		body, err := render(adminTemplate, msg)
		if err == nil {
			_, err = n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
				From:    n.from,
				To:      []string{n.admin},
				ReplyTo: msg.Email,
				Subject: fmt.Sprintf("New contact message: %s", msg.Subject),
				Html:    body,
			})
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("notify: admin email: %w", err))
		}
	}

	body, err := render(confirmationTemplate, msg)
	if err == nil {
		_, err = n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
			From:    n.from,
			To:      []string{msg.Email},
			Subject: "We received your message",
			Html:    body,
		})
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("notify: confirmation email: %w", err))
	}
	return errors.Join(errs...)
}
