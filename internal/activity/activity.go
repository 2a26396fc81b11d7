package activity

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

// Channel tags every record emitted by this module.
const Channel = "site-admin"

type actorKey struct{}

// WithActor stores the acting user on ctx.
func WithActor(ctx context.Context, actor uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting user, or uuid.Nil.
func ActorFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if actor, ok := ctx.Value(actorKey{}).(uuid.UUID); ok {
		return actor
	}
	return uuid.Nil
}

// Emitter builds activity records and forwards them to a sink. A nil
// Emitter, or one without a sink, drops records.
type Emitter struct {
	sink   interfaces.ActivitySink
	logger interfaces.Logger
	now    func() time.Time
}

// NewEmitter constructs an emitter. Sink errors are logged, never returned.
func NewEmitter(sink interfaces.ActivitySink, logger interfaces.Logger) *Emitter {
	return &Emitter{
		sink:   sink,
		logger: logging.Ensure(logger),
		now:    time.Now,
	}
}

// Emit records verb on the object identified by objectType/objectID.
func (e *Emitter) Emit(ctx context.Context, verb, objectType, objectID string, data map[string]any) {
	if e == nil || e.sink == nil {
		return
	}
	actor := ActorFromContext(ctx)
	record := interfaces.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		Verb:       strings.TrimSpace(verb),
		ObjectType: strings.TrimSpace(objectType),
		ObjectID:   strings.TrimSpace(objectID),
		Channel:    Channel,
		Data:       maps.Clone(data),
		OccurredAt: e.now().UTC(),
	}
	if err := e.sink.Log(ctx, record); err != nil {
		e.logger.Warn("activity.emit.failed", "verb", verb, "object_type", objectType, "error", err)
	}
}

// LoggerSink writes activity records to a logger. It is the default sink
// when no go-users activity store is configured.
type LoggerSink struct {
	Logger interfaces.Logger
}

// Log implements interfaces.ActivitySink.
func (s LoggerSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	logging.Ensure(s.Logger).Info("activity.recorded",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID.String(),
	)
	return nil
}
