package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// statementLog records the UPDATE statements gorm builds in dry-run mode
type statementLog struct {
	sql  []string
	vars [][]interface{}
}

func (l *statementLog) last(t *testing.T) (string, []interface{}) {
	t.Helper()
	require.NotEmpty(t, l.sql, "no statement built")
	i := len(l.sql) - 1
	return l.sql[i], l.vars[i]
}

func newDryRunRepository(t *testing.T) (*MeetingRepository, *statementLog) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=coachlink dbname=coachlink sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	log := &statementLog{}
	err = db.Callback().Update().After("gorm:update").Register("coachlink:record_update", func(tx *gorm.DB) {
		log.sql = append(log.sql, tx.Statement.SQL.String())
		log.vars = append(log.vars, append([]interface{}(nil), tx.Statement.Vars...))
	})
	require.NoError(t, err)
	return NewMeetingRepository(db), log
}

func TestMeetingRepository_ClaimGuardsOnNullColumn(t *testing.T) {
	repo, log := newDryRunRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.ClaimCoaching(ctx, 7, at)
	require.NoError(t, err)
	sql, vars := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "coaching_sent_at"=\$1,"updated_at"=\$2 WHERE id = \$3 AND coaching_sent_at IS NULL$`, sql)
	assert.Equal(t, at, vars[0])
	assert.Equal(t, int64(7), vars[2])

	_, err = repo.ClaimTranscript(ctx, 7, at)
	require.NoError(t, err)
	sql, _ = log.last(t)
	assert.Contains(t, sql, "WHERE id = $3 AND transcript_received_at IS NULL")
}

func TestMeetingRepository_ReleaseClearsColumn(t *testing.T) {
	repo, log := newDryRunRepository(t)

	require.NoError(t, repo.ReleaseCoaching(context.Background(), 7))
	sql, _ := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "coaching_sent_at"=NULL,"updated_at"=\$1 WHERE id = \$2$`, sql)
	assert.NotContains(t, sql, "IS NULL")
}

func TestMeetingRepository_TransitionStatusFiltersSources(t *testing.T) {
	repo, log := newDryRunRepository(t)
	ctx := context.Background()

	from := []entities.MeetingStatus{
		entities.MeetingStatusScheduled,
		entities.MeetingStatusCompleted,
		entities.MeetingStatusReminderSent,
	}
	_, err := repo.TransitionStatus(ctx, 9, from, entities.MeetingStatusFailed)
	require.NoError(t, err)

	sql, vars := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND status IN \(\$4,\$5\)$`, sql)
	assert.Equal(t, entities.MeetingStatusFailed, vars[0])
	assert.Equal(t, []interface{}{int64(9), entities.MeetingStatusScheduled, entities.MeetingStatusReminderSent}, vars[2:])
}

func TestMeetingRepository_TransitionStatusRejectsMissingEdge(t *testing.T) {
	repo, log := newDryRunRepository(t)
	ctx := context.Background()

	_, err := repo.TransitionStatus(ctx, 9, []entities.MeetingStatus{entities.MeetingStatusCompleted}, entities.MeetingStatusFailed)
	assert.ErrorIs(t, err, entities.ErrInvalidTransition)

	_, err = repo.TransitionStatus(ctx, 9, []entities.MeetingStatus{entities.MeetingStatusScheduled}, "archived")
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)

	assert.Empty(t, log.sql)
}

func TestMeetingRepository_TransitionSurveyStatus(t *testing.T) {
	repo, log := newDryRunRepository(t)

	_, err := repo.TransitionSurveyStatus(context.Background(), 3,
		entities.SurveyPredecessorsOf(entities.SurveyStatusSent), entities.SurveyStatusSent)
	require.NoError(t, err)

	sql, vars := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "survey_status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND survey_status IN \(\$4,\$5\)$`, sql)
	assert.ElementsMatch(t, []interface{}{entities.SurveyStatusPending, entities.SurveyStatusFailed}, vars[3:])

	_, err = repo.TransitionSurveyStatus(context.Background(), 3,
		[]entities.SurveyStatus{entities.SurveyStatusSent}, entities.SurveyStatusFailed)
	assert.ErrorIs(t, err, entities.ErrInvalidTransition)
	assert.Len(t, log.sql, 1)
}

func TestMeetingRepository_SetBotTokenOnlyWhenUnset(t *testing.T) {
	repo, log := newDryRunRepository(t)

	_, err := repo.SetBotToken(context.Background(), 4, "aux-1", "tok-1")
	require.NoError(t, err)

	sql, vars := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "aux_meeting_id"=\$1,"aux_meeting_token"=\$2,"updated_at"=\$3 WHERE id = \$4 AND \(aux_meeting_token IS NULL OR aux_meeting_token = ''\)$`, sql)
	assert.Equal(t, "aux-1", vars[0])
	assert.Equal(t, "tok-1", vars[1])
	assert.Equal(t, int64(4), vars[3])
}

func TestMeetingRepository_UpdateFieldsRefusesGuardedColumns(t *testing.T) {
	repo, log := newDryRunRepository(t)
	ctx := context.Background()

	for _, column := range []string{"status", "survey_status", "aux_meeting_token"} {
		err := repo.UpdateFields(ctx, 1, map[string]interface{}{column: "x"})
		assert.Error(t, err, column)
	}
	assert.Empty(t, log.sql)

	require.NoError(t, repo.UpdateFields(ctx, 1, map[string]interface{}{"location": "Room 7"}))
	sql, _ := log.last(t)
	assert.Regexp(t, `^UPDATE "meetings" SET "location"=\$1,"updated_at"=\$2 WHERE id = \$3$`, sql)
}
