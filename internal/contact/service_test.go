package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/notify"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	"github.com/google/uuid"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.ContactNotification
	err  error
}

func (r *recordingNotifier) ContactReceived(_ context.Context, n notify.ContactNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func newInbox(t *testing.T, notifier notify.Notifier) *contact.Inbox {
	t.Helper()
	db := testsupport.NewBunDB(t, (*contact.Message)(nil))
	return contact.NewService(contact.NewBunRepository(db), contact.WithNotifier(notifier))
}

func validRequest() contact.SubmitRequest {
	return contact.SubmitRequest{
		Name:    " Ama Mensah ",
		Email:   "ama@example.org",
		Subject: "Appointment",
		Message: "When is the clinic open?",
	}
}

func TestSubmitPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	inbox := newInbox(t, notifier)

	msg, err := inbox.Submit(ctx, validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	inbox.Wait()

	if msg.Name != "Ama Mensah" || msg.IsRead {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Email != "ama@example.org" {
		t.Fatalf("expected one notification, got %+v", notifier.sent)
	}
}

func TestSubmitSucceedsWhenEmailFails(t *testing.T) {
	ctx := context.Background()
	inbox := newInbox(t, &recordingNotifier{err: errors.New("smtp down")})

	if _, err := inbox.Submit(ctx, validRequest()); err != nil {
		t.Fatalf("submit should not depend on email: %v", err)
	}
	inbox.Wait()

	messages, err := inbox.List(ctx, contact.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected message to be stored, got %d", len(messages))
	}
}

func TestSubmitValidates(t *testing.T) {
	notifier := &recordingNotifier{}
	inbox := newInbox(t, notifier)

	req := validRequest()
	req.Email = "not-an-email"
	if _, err := inbox.Submit(context.Background(), req); err == nil {
		t.Fatalf("expected validation error")
	}
	req = validRequest()
	req.Subject = "  "
	if _, err := inbox.Submit(context.Background(), req); err == nil {
		t.Fatalf("expected missing subject error")
	}
	inbox.Wait()
	if len(notifier.sent) != 0 {
		t.Fatalf("invalid submissions must not notify")
	}
}

func TestMarkReadAndDelete(t *testing.T) {
	ctx := context.Background()
	inbox := newInbox(t, nil)

	msg, err := inbox.Submit(ctx, validRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if count, _ := inbox.UnreadCount(ctx); count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	read, err := inbox.MarkRead(ctx, msg.ID, true)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !read.IsRead {
		t.Fatalf("expected read message")
	}
	unread, err := inbox.List(ctx, contact.ListOptions{UnreadOnly: true})
	if err != nil || len(unread) != 0 {
		t.Fatalf("expected no unread messages, got %d (%v)", len(unread), err)
	}

	if err := inbox.Delete(ctx, msg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := inbox.Delete(ctx, msg.ID); !errors.Is(err, contact.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
	if _, err := inbox.MarkRead(ctx, uuid.New(), true); !errors.Is(err, contact.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
	inbox.Wait()
}
