package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// NotificationKind names the purpose of an outgoing message
type NotificationKind string

const (
	KindCoaching    NotificationKind = "coaching"
	KindReminder    NotificationKind = "reminder"
	KindAnalysis    NotificationKind = "analysis"
	KindSummary     NotificationKind = "summary"
	KindNudge       NotificationKind = "nudge"
	KindChat        NotificationKind = "chat"
	KindWelcome     NotificationKind = "welcome"
	KindRawCoaching NotificationKind = "raw_coaching"
	KindFeedback    NotificationKind = "feedback"
)

// Fixed replies and bodies
const (
	NudgeMessage         = "👋 Hey! Just a friendly reminder to reply *Done* once you've completed the follow-up tasks from the meeting analysis."
	FeedbackConfirmation = "✅ Meeting marked as completed notes synced to CRM."
	NoPendingMeeting     = "No active meeting found pending feedback."
	analysisReplyPrompt  = "👉 Reply *Done* after you have followed up."
	maxSummaryPreview    = 500
	maxContextSummary    = 2000
	chatTranscriptLines  = 300
)

// Message is a rendered notification: a freeform body plus optional
// template variables for business-initiated sends
type Message struct {
	Body         string
	TemplateVars map[string]string
}

// CoachingMessage renders the pre-meeting coaching template
func CoachingMessage(title string, plan entities.CoachingPlan) Message {
	steps := make([]string, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		steps = append(steps, "- "+s)
	}
	header := fmt.Sprintf("🚀 *New Meeting: %s*", title)
	scenario := fmt.Sprintf("🎯 *Scenario*: %s", plan.Scenario)
	prep := "📋 *Prep Steps*:\n" + strings.Join(steps, "\n")
	reply := fmt.Sprintf("💡 *Reply*: %s", plan.RecommendedReply)

	return Message{
		Body: header + "\n" + plan.Greeting + "\n\n" + scenario + "\n\n" + prep + "\n\n" + reply,
		TemplateVars: map[string]string{
			"1": header,
			"2": plan.Greeting + "\n\n" + scenario,
			"3": prep,
			"4": reply,
		},
	}
}

// AnalysisMessage renders the post-meeting analysis template
func AnalysisMessage(title string, a entities.MeetingAnalysis) Message {
	objections := "None detected."
	if len(a.Objections) > 0 {
		quotes := make([]string, 0, len(a.Objections))
		for _, o := range a.Objections {
			quotes = append(quotes, fmt.Sprintf("• \"%s\"", o.Quote))
		}
		objections = strings.Join(quotes, "\n")
	}
	next := make([]string, 0, len(a.FollowUpActions))
	for _, s := range a.FollowUpActions {
		next = append(next, "• "+s)
	}

	vars := map[string]string{
		"1": fmt.Sprintf("🧠 *Post-Meeting Analysis (%s)*", title),
		"2": fmt.Sprintf("🛑 *Objections*:\n%s\n\n📈 *Buying Signals*: %d detected", objections, len(a.BuyingSignals)),
		"3": fmt.Sprintf("⚠️ *Risks*: %d identified\n\n🚀 *Next Steps*:\n%s", len(a.Risks), strings.Join(next, "\n")),
		"4": analysisReplyPrompt,
	}
	return Message{
		Body:         vars["1"] + "\n\n" + vars["2"] + "\n\n" + vars["3"] + "\n\n" + vars["4"],
		TemplateVars: vars,
	}
}

// ReminderMessage asks the salesperson how the meeting went
func ReminderMessage(m *entities.Meeting) string {
	return fmt.Sprintf("🔔 Meeting with %s finished. How did it go? (Reply 'Done' to log to HubSpot)", m.ClientName("the client"))
}

// SummaryMessage announces a meeting summary
func SummaryMessage(m *entities.Meeting, summary, reportURL string) string {
	return fmt.Sprintf("📝 *Meeting Summary Ready (%s)*\n\n%s\n\n🔗 Full Report: %s",
		m.ClientName("Client"), preview(summary, maxSummaryPreview), reportURL)
}

// WelcomeMessage greets a newly registered salesperson
func WelcomeMessage(name, botEmail string) string {
	return fmt.Sprintf("🎉 Welcome %s! You are registered.\n\nInvite '%s' to your meetings to receive coaching.", name, botEmail)
}

// AnalysisTicket renders the CRM ticket body for a transcript analysis
func AnalysisTicket(title, transcriptURL string, a entities.MeetingAnalysis) string {
	if transcriptURL == "" {
		transcriptURL = "Stored in Database"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 **AI Meeting Analysis**\n\n**Meeting**: %s\n**Transcript**: %s", title, transcriptURL)

	objections := make([]string, 0, len(a.Objections))
	for _, o := range a.Objections {
		objections = append(objections, fmt.Sprintf("%s (Context: %s)", o.Quote, o.Context))
	}
	writeSection(&b, "🛑 **Objections**", objections)
	writeSection(&b, "📈 **Buying Signals**", a.BuyingSignals)
	writeSection(&b, "⚠️ **Risks**", a.Risks)
	writeSection(&b, "🚀 **Recommended Next Steps**", a.FollowUpActions)
	return b.String()
}

func writeSection(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "\n\n%s:\n", heading)
	if len(items) == 0 {
		b.WriteString("None registered")
		return
	}
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + item)
	}
}

// ChatContext describes the meeting for the chat assistant
func ChatContext(m *entities.Meeting, loc *time.Location, lines []entities.TranscriptLine) string {
	company := "Unknown"
	if m.Client != nil && !entities.IsPlaceholder(m.Client.Company) {
		company = m.Client.Company
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Salesperson is meeting with %s from %s.", m.ClientName("the client"), company)
	if m.StartTime != nil {
		end := m.StartTime.Add(30 * time.Minute)
		if m.EndTime != nil {
			end = *m.EndTime
		}
		if loc == nil {
			loc = time.UTC
		}
		fmt.Fprintf(&b, "\nTime: %s - %s", m.StartTime.In(loc).Format("Jan 02, 03:04 PM"), end.In(loc).Format("03:04 PM MST"))
	}
	fmt.Fprintf(&b, "\nLocation: %s\nAttendees: %s", firstNonBlank(m.Location, entities.PlaceholderLocation), m.AttendeeList())

	switch {
	case len(lines) > 0:
		if len(lines) > chatTranscriptLines {
			lines = lines[len(lines)-chatTranscriptLines:]
		}
		b.WriteString("\n\n[FULL TRANSCRIPT AVAILABLE]\n")
		b.WriteString(entities.JoinTranscript(lines))
	case m.Summary != "":
		b.WriteString("\n\nMeeting Summary/Agenda: ")
		b.WriteString(truncateRunes(m.Summary, maxContextSummary))
	}
	return b.String()
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
