package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

func TestParseBracketedTimestamps(t *testing.T) {
	content := "[00:01] Alice: Hi there\n[00:05] Bob: Hello\nhow are you?\n[01:02:03] Alice: Fine"

	lines := Parse(content)
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Timestamp: "00:01", Speaker: "Alice", Text: "Hi there"}, lines[0])
	assert.Equal(t, Line{Timestamp: "00:05", Speaker: "Bob", Text: "Hello how are you?"}, lines[1])
	assert.Equal(t, Line{Timestamp: "01:02:03", Speaker: "Alice", Text: "Fine"}, lines[2])
}

func TestParseWebVTT(t *testing.T) {
	content := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:04.000\nAlice: Welcome everyone\n\n2\n00:00:05.000 --> 00:00:07.500\n<v Bob>Thanks Alice</v>\n"

	lines := Parse(content)
	require.Len(t, lines, 2)
	assert.Equal(t, Line{Timestamp: "00:00:01", Speaker: "Alice", Text: "Welcome everyone"}, lines[0])
	assert.Equal(t, Line{Timestamp: "00:00:05", Speaker: "Bob", Text: "Thanks Alice"}, lines[1])
}

func TestParseTextBeforeAnySpeaker(t *testing.T) {
	lines := Parse("just some notes\nmore notes")
	require.Len(t, lines, 1)
	assert.Equal(t, UnknownSpeaker, lines[0].Speaker)
	assert.Equal(t, "just some notes more notes", lines[0].Text)
}

func TestParseIgnoresURLs(t *testing.T) {
	lines := Parse("Alice: see https://example.com/doc\nhttps://example.com/other")
	require.Len(t, lines, 1)
	assert.Equal(t, "see https://example.com/doc https://example.com/other", lines[0].Text)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("WEBVTT"))
}

func TestFullTextAndEntities(t *testing.T) {
	lines := []Line{{Speaker: "A", Text: "one"}, {Speaker: "B", Text: "two", Timestamp: "00:02"}}
	assert.Equal(t, "A: one\nB: two", FullText(lines))

	rows := ToEntities(7, "", lines)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(7), rows[1].MeetingID)
	assert.Equal(t, entities.TranscriptSourceReadAI, rows[1].Source)
	assert.Equal(t, "00:02", rows[1].Timestamp)
}
