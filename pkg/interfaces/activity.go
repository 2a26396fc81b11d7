package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record; admin mutations are
// reported with it so the trail can be shipped to a go-users sink.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
