// Package normalize turns schema-drifting calendar webhook payloads into a
// canonical Event. It never panics and never returns an error: a payload
// that cannot be used yields a Rejection the caller acknowledges.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

// DefaultTitle is used when a payload carries no title or subject.
const DefaultTitle = "Meeting"

var (
	meetingKeys = []string{"meeting", "meeting_payload"}
	clientKeys  = []string{"client"}
)

// Normalizer extracts Events from raw payloads.
type Normalizer struct {
	loc           *time.Location
	defaultLength time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewNormalizer creates a normalizer interpreting naive timestamps in loc.
func NewNormalizer(loc *time.Location, defaultLength time.Duration, logger *zap.Logger) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if defaultLength <= 0 {
		defaultLength = 30 * time.Minute
	}
	return &Normalizer{
		loc:           loc,
		defaultLength: defaultLength,
		now:           time.Now,
		logger:        logger,
	}
}

// WithClock overrides the clock used for missing start times.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize converts payload into a Result.
func (n *Normalizer) Normalize(payload map[string]any) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			if n.logger != nil {
				n.logger.Error("normalizer recovered from panic", zap.Any("panic", p))
			}
			res = Result{Rejection: &Rejection{Kind: RejectMalformed, Reason: "Malformed payload"}}
		}
	}()

	root, ok := normalizeValue(payload).(map[string]any)
	if !ok || len(root) == 0 {
		return reject(RejectMissingMeeting, "Missing meeting data")
	}

	meeting := firstMap(root, meetingKeys...)
	if meeting == nil {
		if n.logger != nil {
			n.logger.Warn("payload has no meeting object", zap.Strings("keys", keysOf(root)))
		}
		return reject(RejectMissingMeeting, "Missing meeting data")
	}
	client := firstMap(root, clientKeys...)

	organizer := organizerEmail(meeting)
	if organizer == "" {
		return reject(RejectNoOrganizer, "No organizer email")
	}

	ev := &Event{
		OrganizerEmail: organizer,
		Title:          firstNonEmpty(lookupString(meeting, "title"), lookupString(meeting, "subject"), DefaultTitle),
		BodyText:       StripHTML(bodyText(meeting)),
		Location:       StripHTML(locationText(meeting)),
		Attendees:      attendees(meeting),
		ClientName:     entities.PlaceholderClientName,
		Company:        entities.PlaceholderCompany,
	}
	if ev.Location == "" {
		ev.Location = entities.PlaceholderLocation
	}
	ev.OnlineMeetingURL = firstNonEmpty(
		lookupString(meeting, "online_meeting_url"),
		lookupString(meeting, "online_meeting", "join_url"),
		lookupString(meeting, "join_url"),
		lookupString(meeting, "online_meeting"),
	)
	if !strings.HasPrefix(ev.OnlineMeetingURL, "http") {
		ev.OnlineMeetingURL = ""
	}

	if client != nil {
		ev.ClientEmail = strings.ToLower(lookupString(client, "email"))
		ev.ClientPhone = lookupString(client, "phone")
		ev.CRMContactID = lookupString(client, "hubspot_contact_id")
		if company := lookupString(client, "company"); company != "" {
			ev.Company = company
		}
		full := strings.TrimSpace(lookupString(client, "first_name") + " " + lookupString(client, "last_name"))
		if name := firstNonEmpty(full, lookupString(client, "name")); name != "" {
			ev.ClientName = name
		}
	}

	rawStart := firstNonEmpty(lookupString(meeting, "start_time"), lookupString(meeting, "start", "date_time"), lookupString(meeting, "start"))
	if start, ok := n.parseTime(meeting, "start_time", "start"); ok {
		ev.StartTime, ev.StartKnown = start, true
	} else {
		ev.StartTime = n.now().UTC()
	}
	if end, ok := n.parseTime(meeting, "end_time", "end"); ok && !end.Before(ev.StartTime) {
		ev.EndTime = end
	} else {
		ev.EndTime = ev.StartTime.Add(n.defaultLength)
	}

	ev.MeetingID = firstNonEmpty(
		lookupString(meeting, "meeting_id"),
		lookupString(meeting, "event_id"),
		lookupString(meeting, "outlook_event_id"),
		lookupString(meeting, "id"),
	)
	if ev.MeetingID == "" {
		ev.MeetingID = SyntheticID(organizer, rawStart, ev.Title)
		ev.Synthetic = true
	}

	return Result{Event: ev}
}

// SyntheticID derives a stable calendar id for events delivered without one,
// so redeliveries of the same event resolve to the same row.
func SyntheticID(organizer, start, title string) string {
	name := strings.Join([]string{strings.ToLower(organizer), strings.TrimSpace(start), strings.TrimSpace(title)}, "|")
	return entities.SyntheticIDPrefix + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func reject(kind RejectionKind, reason string) Result {
	return Result{Rejection: &Rejection{Kind: kind, Reason: reason}}
}

// parseTime reads either a flat "start_time" string or a Graph-style
// {"date_time": ..., "time_zone": ...} object under key.
func (n *Normalizer) parseTime(m map[string]any, flatKey, objKey string) (time.Time, bool) {
	if s := lookupString(m, flatKey); s != "" {
		return timeutil.Parse(s, n.loc)
	}
	switch v := m[objKey].(type) {
	case string:
		return timeutil.Parse(v, n.loc)
	case map[string]any:
		loc := n.loc
		if tz := lookupString(v, "time_zone"); tz != "" {
			if l, err := time.LoadLocation(tz); err == nil {
				loc = l
			}
		}
		return timeutil.Parse(lookupString(v, "date_time"), loc)
	}
	return time.Time{}, false
}

func organizerEmail(meeting map[string]any) string {
	candidates := []string{
		lookupString(meeting, "organizer", "email"),
		lookupString(meeting, "organizer", "address"),
		lookupString(meeting, "organizer", "email_address", "address"),
		lookupString(meeting, "organizer", "email_address"),
		lookupString(meeting, "organizer", "email_address", "email"),
		lookupString(meeting, "organizer"),
		lookupString(meeting, "organizer_email"),
	}
	for _, c := range candidates {
		if isEmail(c) {
			return strings.ToLower(c)
		}
	}

	list, _ := meeting["attendees"].([]any)
	for _, a := range list {
		if email := attendeeEmail(a); email != "" {
			return email
		}
	}
	return ""
}

func attendeeEmail(a any) string {
	switch t := a.(type) {
	case string:
		if isEmail(t) {
			return strings.ToLower(strings.TrimSpace(t))
		}
	case map[string]any:
		for _, c := range []string{
			lookupString(t, "email"),
			lookupString(t, "address"),
			lookupString(t, "email_address", "address"),
			lookupString(t, "email_address"),
		} {
			if isEmail(c) {
				return strings.ToLower(c)
			}
		}
	}
	return ""
}

func attendees(meeting map[string]any) []string {
	list, ok := meeting["attendees"].([]any)
	if !ok {
		if s := lookupString(meeting, "attendees"); s != "" {
			var out []string
			for _, part := range strings.Split(s, ",") {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, a := range list {
		if email := attendeeEmail(a); email != "" {
			out = append(out, email)
			continue
		}
		if m, ok := a.(map[string]any); ok {
			if name := firstNonEmpty(lookupString(m, "name"), lookupString(m, "email_address", "name")); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func bodyText(meeting map[string]any) string {
	return firstNonEmpty(
		lookupString(meeting, "body", "content"),
		lookupString(meeting, "body"),
		lookupString(meeting, "body_preview"),
		lookupString(meeting, "description"),
	)
}

func locationText(meeting map[string]any) string {
	return firstNonEmpty(
		lookupString(meeting, "location", "display_name"),
		lookupString(meeting, "location", "name"),
		lookupString(meeting, "location"),
	)
}

// lookupString walks path through nested maps and renders the leaf as a
// trimmed string. Non-scalar leaves yield "".
func lookupString(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	switch v := cur.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case int, int64, bool:
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func firstMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if obj, ok := m[k].(map[string]any); ok && len(obj) > 0 {
			return obj
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " {}")
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
