package meeting

import (
	"context"
	"errors"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
)

// Outcome is the deduplication verdict for an incoming calendar id
type Outcome int

const (
	// OutcomeNew means no row exists yet
	OutcomeNew Outcome = iota
	// OutcomeDuplicateComplete means the row exists and its bot is scheduled
	// or the meeting already reached a terminal status
	OutcomeDuplicateComplete
	// OutcomeRetryRepair means the row is still open and bot scheduling never
	// succeeded
	OutcomeRetryRepair
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeDuplicateComplete:
		return "duplicate"
	case OutcomeRetryRepair:
		return "repaired"
	}
	return "unknown"
}

// Decision pairs an Outcome with the existing row, if any
type Decision struct {
	Outcome Outcome
	Meeting *entities.Meeting
}

// Guard decides whether an event creates, repairs or skips a meeting
type Guard struct {
	meetings repositories.MeetingRepository
}

// NewGuard creates a deduplication guard
func NewGuard(meetings repositories.MeetingRepository) *Guard {
	return &Guard{meetings: meetings}
}

// Check looks up outlookEventID
func (g *Guard) Check(ctx context.Context, outlookEventID string) (Decision, error) {
	existing, err := g.meetings.FindByOutlookEventID(ctx, outlookEventID)
	if errors.Is(err, entities.ErrMeetingNotFound) {
		return Decision{Outcome: OutcomeNew}, nil
	}
	if err != nil {
		return Decision{}, err
	}
	if existing.HasBotToken() || existing.Status.IsTerminal() {
		return Decision{Outcome: OutcomeDuplicateComplete, Meeting: existing}, nil
	}
	return Decision{Outcome: OutcomeRetryRepair, Meeting: existing}, nil
}
