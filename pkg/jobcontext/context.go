// Package jobcontext scopes one scheduler item: a meeting-bound context with
// a deadline, identity for logs, and panic isolation.
package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type keyContext string

const itemKey keyContext = "scheduler_item"

// DefaultTimeout bounds a single scheduler item.
const DefaultTimeout = 45 * time.Second

// Item identifies one unit of scheduler work
type Item struct {
	ID        uuid.UUID
	Job       string
	MeetingID int64
	Cycle     time.Time
	Started   time.Time
}

// Begin derives the item context. Items run once per cycle; the next cycle
// is the retry.
func Begin(parent context.Context, job string, meetingID int64, cycle time.Time, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	item := Item{
		ID:        uuid.New(),
		Job:       job,
		MeetingID: meetingID,
		Cycle:     cycle,
		Started:   time.Now(),
	}
	return context.WithValue(ctx, itemKey, item), cancel
}

// Run calls fn, converting a panic into an error so one bad meeting cannot
// take down the cycle
func Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("item skipped: %w", ctx.Err())
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return fn(ctx)
}

// FromContext returns the item the context belongs to
func FromContext(ctx context.Context) (Item, bool) {
	item, ok := ctx.Value(itemKey).(Item)
	return item, ok
}

// Fields returns log fields for the item, or nil outside one
func Fields(ctx context.Context) []zap.Field {
	item, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return []zap.Field{
		zap.String("item_id", item.ID.String()),
		zap.String("job", item.Job),
		zap.Int64("meeting_id", item.MeetingID),
		zap.Time("cycle", item.Cycle),
		zap.Duration("elapsed", time.Since(item.Started)),
	}
}
