package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/notify"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

var ErrMessageNotFound = errors.New("contact: message not found")

const (
	contactValidationCode      = "CONTACT_VALIDATION_FAILED"
	defaultNotificationTimeout = 15 * time.Second
)

// SubmitRequest is a contact form post.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks required fields and the email format.
func (r SubmitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 40)),
		validation.Field(&r.Subject, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// Service handles contact messages.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Message, error)
	List(ctx context.Context, opts ListOptions) ([]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnreadCount(ctx context.Context) (int, error)
}

// ListOptions filters the admin inbox.
type ListOptions struct {
	UnreadOnly bool
}

// ServiceOption configures the service.
type ServiceOption func(*Inbox)

func WithNotifier(notifier notify.Notifier) ServiceOption {
	return func(s *Inbox) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

func WithNotificationTimeout(timeout time.Duration) ServiceOption {
	return func(s *Inbox) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Inbox) {
		s.logger = logging.Ensure(logger)
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *Inbox) {
		s.activity = emitter
	}
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Inbox) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Inbox implements Service.
type Inbox struct {
	repo          Repository
	notifier      notify.Notifier
	notifyTimeout time.Duration
	logger        interfaces.Logger
	activity      *activity.Emitter
	now           func() time.Time
	pending       sync.WaitGroup
}

// NewService constructs the contact service.
func NewService(repo Repository, opts ...ServiceOption) *Inbox {
	s := &Inbox{
		repo:          repo,
		notifier:      notify.NoOp{},
		notifyTimeout: defaultNotificationTimeout,
		logger:        logging.NoOp(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit persists the message, then notifies in the background. The result
// never depends on email delivery.
func (s *Inbox) Submit(ctx context.Context, req SubmitRequest) (*Message, error) {
	req = normalize(req)
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "contact message invalid").
			WithTextCode(contactValidationCode)
	}

	msg, err := s.repo.Create(ctx, &Message{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("contact.message.create_failed", "error", err)
		return nil, err
	}
	s.logger.Info("contact.message.received", "id", msg.ID)
	s.notifyAsync(msg)
	return msg, nil
}

func (s *Inbox) notifyAsync(msg *Message) {
	n := notify.ContactNotification{
		Name:       msg.Name,
		Email:      msg.Email,
		Phone:      msg.Phone,
		Subject:    msg.Subject,
		Message:    msg.Message,
		ReceivedAt: msg.CreatedAt,
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.ContactReceived(ctx, n); err != nil {
			s.logger.Warn("contact.notification.failed", "id", msg.ID, "error", err)
			return
		}
		s.logger.Debug("contact.notification.sent", "id", msg.ID)
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *Inbox) Wait() {
	s.pending.Wait()
}

func (s *Inbox) List(ctx context.Context, opts ListOptions) ([]*Message, error) {
	return s.repo.List(ctx, opts.UnreadOnly)
}

func (s *Inbox) MarkRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error) {
	msg, err := s.repo.SetRead(ctx, id, read)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.activity.Emit(ctx, "mark_read", "contact_message", id.String(), map[string]any{"is_read": read})
	return msg, nil
}

func (s *Inbox) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("contact.message.deleted", "id", id)
	s.activity.Emit(ctx, "delete", "contact_message", id.String(), nil)
	return nil
}

func (s *Inbox) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}

func normalize(req SubmitRequest) SubmitRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

func mapNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return errors.Join(ErrMessageNotFound, err)
	}
	return err
}
