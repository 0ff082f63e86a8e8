package meeting

import (
	"context"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

// Matcher tolerances
const (
	SummaryTolerance    = 10 * time.Minute
	TranscriptTolerance = 20 * time.Minute
	matchWindow         = 50
)

// Matcher resolves an event to a meeting by start-time proximity
type Matcher struct {
	meetings repositories.MeetingRepository
}

// NewMatcher creates a matcher
func NewMatcher(meetings repositories.MeetingRepository) *Matcher {
	return &Matcher{meetings: meetings}
}

// Match returns the first of the most recent meetings, id DESC, whose start
// is within tolerance of candidate. Overlapping meetings resolve to the newest
// row, not the closest start. Returns ErrMeetingNotFound when none matches.
func (m *Matcher) Match(ctx context.Context, candidate time.Time, tolerance time.Duration) (*entities.Meeting, error) {
	recent, err := m.meetings.ListRecentWithStart(ctx, matchWindow)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		if recent[i].StartTime == nil {
			continue
		}
		if timeutil.WithinTolerance(*recent[i].StartTime, candidate, tolerance) {
			return &recent[i], nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}
