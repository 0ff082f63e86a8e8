package survey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
)

func TestTrigger(t *testing.T) {
	var got TriggerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), httpclient.NoRetry())
	err := c.Trigger(context.Background(), TriggerPayload{MeetingID: 9, Title: "Demo", ClientEmail: "c@y.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.MeetingID)
	assert.Equal(t, "c@y.com", got.ClientEmail)
}

func TestTriggerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), httpclient.NoRetry())
	assert.Error(t, c.Trigger(context.Background(), TriggerPayload{MeetingID: 1}))
}

func TestListRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"results":[
			{"id":12,"participant_email":"c@y.com","meeting_title":"Demo","meeting_id":"m1","punctuality":5,"overall_value":"4","clarity_answers":null},
			{"id":"abc","participant_email":""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), httpclient.NoRetry())
	results, err := c.ListRecent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, FlexString("12"), results[0].ID)
	assert.Equal(t, FlexString("m1"), results[0].MeetingID)
	assert.Equal(t, Rating(5), results[0].Punctuality)
	assert.Equal(t, Rating(4), results[0].OverallValue)
	assert.Equal(t, Rating(0), results[0].ClarityAnswers)
	assert.Equal(t, FlexString("abc"), results[1].ID)
}
