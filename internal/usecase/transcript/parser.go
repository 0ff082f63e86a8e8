// Package transcript parses transcript text delivered by recording and
// note-taking services into speaker turns.
package transcript

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// UnknownSpeaker labels text that appears before any speaker prefix.
const UnknownSpeaker = "Unknown"

// Line is one parsed speaker turn.
type Line struct {
	Timestamp string
	Speaker   string
	Text      string
}

var (
	timestampPattern = regexp.MustCompile(`^\[?(\d{1,2}:\d{2}(?::\d{2})?)(?:\.\d+)?\]?`)
	speakerPattern   = regexp.MustCompile(`^([^:]{1,80}):\s*(.*)$`)
	voiceTagPattern  = regexp.MustCompile(`^<v\s+([^>]+)>(.*?)(?:</v>)?$`)
	cueIDPattern     = regexp.MustCompile(`^\d+$`)
)

// Parse splits content into turns. It understands WEBVTT cues,
// "[hh:mm(:ss)] Speaker: text" lines and bare "Speaker: text" lines;
// any other non-empty line continues the previous turn.
func Parse(content string) []Line {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if strings.HasPrefix(strings.TrimSpace(content), "WEBVTT") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = ""
		}
	}

	var (
		lines          []Line
		currentSpeaker = UnknownSpeaker
		currentTime    string
	)

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || cueIDPattern.MatchString(line) || strings.HasPrefix(line, "NOTE") {
			continue
		}

		if strings.Contains(line, "-->") {
			if m := timestampPattern.FindStringSubmatch(line); m != nil {
				currentTime = m[1]
			}
			continue
		}

		if m := timestampPattern.FindStringSubmatch(line); m != nil {
			currentTime = m[1]
			line = strings.TrimSpace(strings.Replace(line, m[0], "", 1))
			if line == "" {
				continue
			}
		}

		if m := voiceTagPattern.FindStringSubmatch(line); m != nil {
			currentSpeaker = strings.TrimSpace(m[1])
			lines = append(lines, Line{Timestamp: currentTime, Speaker: currentSpeaker, Text: strings.TrimSpace(m[2])})
			continue
		}

		if m := speakerPattern.FindStringSubmatch(line); m != nil && !strings.HasPrefix(m[2], "//") {
			currentSpeaker = strings.TrimSpace(m[1])
			lines = append(lines, Line{Timestamp: currentTime, Speaker: currentSpeaker, Text: strings.TrimSpace(m[2])})
			continue
		}

		if n := len(lines); n > 0 && lines[n-1].Speaker == currentSpeaker {
			lines[n-1].Text = strings.TrimSpace(lines[n-1].Text + " " + line)
			continue
		}
		lines = append(lines, Line{Timestamp: currentTime, Speaker: currentSpeaker, Text: line})
	}

	return lines
}

// FullText renders lines as "speaker: text" for prompts.
func FullText(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Speaker)
		b.WriteString(": ")
		b.WriteString(l.Text)
	}
	return b.String()
}

// ToEntities attaches lines to a meeting for storage.
func ToEntities(meetingID int64, source string, lines []Line) []entities.TranscriptLine {
	if source == "" {
		source = entities.TranscriptSourceReadAI
	}
	out := make([]entities.TranscriptLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entities.TranscriptLine{
			MeetingID: meetingID,
			Speaker:   l.Speaker,
			Timestamp: l.Timestamp,
			Text:      l.Text,
			Source:    source,
		})
	}
	return out
}
