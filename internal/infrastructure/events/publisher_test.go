package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

type fakeConn struct {
	connected bool
	err       error
	subjects  []string
	payloads  [][]byte
}

func (f *fakeConn) IsConnected() bool { return f.connected }

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNATSPublisherPublish(t *testing.T) {
	conn := &fakeConn{connected: true}
	p := NewNATSPublisher(conn, "coachlink", nil)

	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	p.Publish(context.Background(), MeetingScheduled, LifecycleEvent{
		MeetingID:      7,
		OutlookEventID: "m1",
		Status:         string(entities.MeetingStatusScheduled),
		At:             at,
	})

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "coachlink.meeting.scheduled", conn.subjects[0])

	var got LifecycleEvent
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, int64(7), got.MeetingID)
	assert.Equal(t, "m1", got.OutlookEventID)
	assert.Equal(t, "scheduled", got.Status)
	assert.True(t, at.Equal(got.At))
}

func TestNATSPublisherDisconnected(t *testing.T) {
	conn := &fakeConn{connected: false}
	p := NewNATSPublisher(conn, "x", nil)
	p.Publish(context.Background(), MeetingFailed, LifecycleEvent{MeetingID: 1})
	assert.Empty(t, conn.subjects)
}

func TestNATSPublisherErrorIsSwallowed(t *testing.T) {
	conn := &fakeConn{connected: true, err: errors.New("boom")}
	p := NewNATSPublisher(conn, "x", nil)
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), MeetingFailed, LifecycleEvent{MeetingID: 1})
	})
}

func TestEventForStatus(t *testing.T) {
	assert.Equal(t, MeetingCompleted, EventForStatus(entities.MeetingStatusCompleted))
	assert.Equal(t, MeetingReminderSent, EventForStatus(entities.MeetingStatusReminderSent))
}
