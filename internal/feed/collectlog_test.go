package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) (*CollectLog, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewCollectLog(mock), mock
}

func TestCollectLog_StartCompleteFail(t *testing.T) {
	log, mock := newTestLog(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO road_data\.collect_log`).
		WithArgs(pgxmock.AnyArg(), "getRoadInfoList").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	runID, err := log.Start(ctx, "getRoadInfoList")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, runID)

	mock.ExpectExec(`UPDATE road_data\.collect_log\s+SET status = 'complete'`).
		WithArgs(3, 7, runID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, log.Complete(ctx, runID, Counts{Inserted: 3, Updated: 7}))

	mock.ExpectExec(`UPDATE road_data\.collect_log\s+SET status = 'failed'`).
		WithArgs("provider returned result code \"22\"", runID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, log.Fail(ctx, runID, "provider returned result code \"22\""))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectLog_LastSuccess(t *testing.T) {
	log, mock := newTestLog(t)
	ctx := context.Background()

	started := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT started_at FROM road_data\.collect_log`).
		WithArgs("getRoadInfoList").
		WillReturnRows(pgxmock.NewRows([]string{"started_at"}).AddRow(started))

	got, err := log.LastSuccess(ctx, "getRoadInfoList")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, started, *got)

	// Never collected: no error, nil time.
	mock.ExpectQuery(`SELECT started_at FROM road_data\.collect_log`).
		WithArgs("getIncidentInfo").
		WillReturnError(pgx.ErrNoRows)

	got, err = log.LastSuccess(ctx, "getIncidentInfo")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectLog_Recent(t *testing.T) {
	log, mock := newTestLog(t)

	id1, id2 := uuid.New(), uuid.New()
	now := time.Now()
	errMsg := "fetch timed out"
	rows := pgxmock.NewRows([]string{"id", "feed", "status", "started_at", "completed_at", "inserted", "updated", "error"}).
		AddRow(id1, "getRoadInfoList", "complete", now, &now, 5, 2, (*string)(nil)).
		AddRow(id2, "getIncidentInfo", "failed", now, &now, 0, 0, &errMsg)

	mock.ExpectQuery(`SELECT id, feed, status, started_at, completed_at, inserted, updated, error\s+FROM road_data\.collect_log`).
		WithArgs(2).
		WillReturnRows(rows)

	entries, err := log.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, id1, entries[0].ID)
	assert.Equal(t, "complete", entries[0].Status)
	assert.Equal(t, 5, entries[0].Inserted)
	assert.Empty(t, entries[0].Error)

	assert.Equal(t, "failed", entries[1].Status)
	assert.Equal(t, "fetch timed out", entries[1].Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectLog_RecentDefaultLimit(t *testing.T) {
	log, mock := newTestLog(t)

	mock.ExpectQuery(`FROM road_data\.collect_log ORDER BY started_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "feed", "status", "started_at", "completed_at", "inserted", "updated", "error"}))

	entries, err := log.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
