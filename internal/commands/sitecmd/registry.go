package sitecmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract used when wiring
// handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Services are the collaborators the admin handlers act on.
type Services struct {
	Submissions StatusSetter
	Contact     ReadMarker
	Content     ContentReloader
}

// HandlerSet groups the admin command handlers.
type HandlerSet struct {
	SetSubmissionStatus *SetSubmissionStatusHandler
	MarkMessageRead     *MarkMessageReadHandler
	ReloadContent       *ReloadContentHandler
}

// Register builds the admin handlers and registers them with reg when it is
// not nil.
func Register(reg CommandRegistry, services Services, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if services.Submissions == nil || services.Contact == nil || services.Content == nil {
		return nil, errors.New("sitecmd: submissions, contact and content services are required")
	}

	set := &HandlerSet{
		SetSubmissionStatus: NewSetSubmissionStatusHandler(services.Submissions, commands.CommandLogger(provider, "submissions")),
		MarkMessageRead:     NewMarkMessageReadHandler(services.Contact, commands.CommandLogger(provider, "contact")),
		ReloadContent:       NewReloadContentHandler(services.Content, commands.CommandLogger(provider, "content")),
	}
	if reg != nil {
		for _, handler := range []any{set.SetSubmissionStatus, set.MarkMessageRead, set.ReloadContent} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Subscription releases a dispatcher registration.
type Subscription interface {
	Unsubscribe()
}

// Subscribe registers every handler with the go-command dispatcher so the
// messages can be sent with dispatcher.Dispatch.
func (s *HandlerSet) Subscribe() []Subscription {
	if s == nil {
		return nil
	}
	return []Subscription{
		dispatcher.SubscribeCommand(s.SetSubmissionStatus),
		dispatcher.SubscribeCommand(s.MarkMessageRead),
		dispatcher.SubscribeCommand(s.ReloadContent),
	}
}
