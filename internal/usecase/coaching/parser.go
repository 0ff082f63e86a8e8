package coaching

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	sessionPattern  = regexp.MustCompile(`(?i)session_id\s*[:\-]\s*([A-Za-z0-9_-]+)`)
	ownerPattern    = regexp.MustCompile(`(?i)owner\s*[:\-]\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	idPrefixPattern = regexp.MustCompile(`(?i)^([A-Z0-9]{26}|[a-f0-9-]{36})`)
	metaLine        = regexp.MustCompile(`(?i)^(session_id|owner)\s*[:\-]`)
	summaryLine     = regexp.MustCompile(`(?i)^summary\s*[:\-]\s*`)
	speakerLine     = regexp.MustCompile(`^([^:\n]{1,50}?)\s*:\s*(.*)$`)
)

// minPrefixLen is the shortest shared line prefix taken as a session id
const minPrefixLen = 4

// SpeakerBlock is one speaker turn of a raw transcript
type SpeakerBlock struct {
	Speaker string
	Text    string
}

// Parsed is the structured content of a raw meeting dump
type Parsed struct {
	SessionID  string
	OwnerEmail string
	Transcript string
	Summary    string
	Blocks     []SpeakerBlock
}

type parseMode int

const (
	modeScan parseMode = iota
	modeSummary
	modeSpeaker
)

// ParseRaw extracts the session id, owner, summary and speaker turns from
// text pasted out of a note taker. The session id comes from an explicit
// "session_id:" line, else an id prefix repeated on most lines, else the
// common prefix of all lines, else a generated demo id.
func ParseRaw(raw string, now time.Time) Parsed {
	var p Parsed
	text := strings.ToValidUTF8(raw, "")

	if m := sessionPattern.FindStringSubmatch(text); m != nil {
		p.SessionID = strings.TrimSpace(m[1])
	}
	if m := ownerPattern.FindStringSubmatch(text); m != nil {
		p.OwnerEmail = strings.ToLower(strings.TrimSpace(m[1]))
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	if p.SessionID == "" && len(lines) > 0 {
		if m := idPrefixPattern.FindStringSubmatch(lines[0]); m != nil {
			id := m[1]
			hits := 0
			for _, l := range lines {
				if strings.HasPrefix(l, id) {
					hits++
				}
			}
			if hits*2 > len(lines) || len(lines) == 1 {
				p.SessionID = id
				for i, l := range lines {
					if strings.HasPrefix(l, id) {
						lines[i] = strings.TrimSpace(l[len(id):])
					}
				}
			}
		}
	}

	var prefix string
	if p.SessionID == "" && len(lines) > 1 {
		prefix = commonPrefix(lines)
		if len(prefix) >= minPrefixLen {
			p.SessionID = strings.TrimSpace(prefix)
		} else {
			prefix = ""
		}
	}

	if p.SessionID == "" && len(lines) > 0 {
		p.SessionID = fmt.Sprintf("demo_session_%d_%s", now.Unix(), uuid.NewString()[:8])
	}

	var (
		turns   []string
		summary []string
		mode    = modeScan
	)
	for _, line := range lines {
		if metaLine.MatchString(line) {
			mode = modeScan
			continue
		}
		if loc := summaryLine.FindStringIndex(line); loc != nil {
			mode = modeSummary
			if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
				summary = append(summary, rest)
			}
			continue
		}

		processed := line
		if prefix != "" && strings.HasPrefix(line, prefix) {
			processed = strings.TrimSpace(line[len(prefix):])
		}

		if m := speakerLine.FindStringSubmatch(processed); m != nil && !reservedKey(m[1]) {
			mode = modeSpeaker
			speaker, said := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
			turns = append(turns, speaker+": "+said)
			p.Blocks = append(p.Blocks, SpeakerBlock{Speaker: speaker, Text: said})
			continue
		}

		switch mode {
		case modeSummary:
			summary = append(summary, line)
		case modeSpeaker:
			turns[len(turns)-1] += " " + line
			p.Blocks[len(p.Blocks)-1].Text += " " + line
		default:
			if len(turns) == 0 && len(line) > 5 {
				turns = append(turns, line)
			}
		}
	}

	p.Transcript = strings.Join(turns, "\n")
	p.Summary = strings.Join(summary, "\n")
	return p
}

func reservedKey(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "session_id") || strings.Contains(n, "summary")
}

// commonPrefix returns the prefix shared by every line
func commonPrefix(lines []string) string {
	sorted := append([]string(nil), lines...)
	sort.Strings(sorted)
	first, last := sorted[0], sorted[len(sorted)-1]
	i := 0
	for i < len(first) && i < len(last) && first[i] == last[i] {
		i++
	}
	return first[:i]
}
