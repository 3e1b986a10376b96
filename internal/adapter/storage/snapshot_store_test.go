package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/domain/party"
)

var takenAt = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*SnapshotStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store := NewSnapshotStore(mock)
	store.now = func() time.Time { return takenAt }
	return store, mock
}

func sampleOverall() party.Overall {
	return party.Overall{
		YSRCP:       party.PartyStats{TotalFollowers: 6_000_000, ShareOfVoice: 71, SentimentScore: 75},
		TDP:         party.PartyStats{TotalFollowers: 4_500_000, ShareOfVoice: 29, SentimentScore: 73},
		LastUpdated: takenAt.Add(-time.Minute),
		IsLive:      true,
	}
}

func TestSaveSnapshot(t *testing.T) {
	store, mock := newMockStore(t)
	o := sampleOverall()

	ysrcpJSON, _ := json.Marshal(o.YSRCP)
	tdpJSON, _ := json.Marshal(o.TDP)

	mock.ExpectExec("INSERT INTO stats_snapshots").
		WithArgs(pgxmock.AnyArg(), takenAt, o.LastUpdated, true, ysrcpJSON, tdpJSON).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveSnapshot(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshotError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO stats_snapshots").
		WillReturnError(errors.New("connection refused"))

	err := store.SaveSnapshot(context.Background(), sampleOverall())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListSnapshots(t *testing.T) {
	store, mock := newMockStore(t)
	o := sampleOverall()
	ysrcpJSON, _ := json.Marshal(o.YSRCP)
	tdpJSON, _ := json.Marshal(o.TDP)

	rows := pgxmock.NewRows([]string{"id", "taken_at", "last_updated", "is_live", "ysrcp", "tdp"}).
		AddRow("4f1c2b9e-7c55-4e55-9d55-0c2f3c7d8a01", takenAt, o.LastUpdated, true, ysrcpJSON, tdpJSON)

	mock.ExpectQuery("SELECT (.+) FROM stats_snapshots").
		WithArgs(5).
		WillReturnRows(rows)

	snaps, err := store.ListSnapshots(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "4f1c2b9e-7c55-4e55-9d55-0c2f3c7d8a01", snaps[0].ID)
	assert.Equal(t, takenAt, snaps[0].TakenAt)
	assert.Equal(t, o.YSRCP, snaps[0].YSRCP)
	assert.Equal(t, 73, snaps[0].TDP.SentimentScore)
	assert.True(t, snaps[0].IsLive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSnapshotsClampsLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultHistoryLimit},
		{"negative", -3, DefaultHistoryLimit},
		{"capped", 5000, MaxHistoryLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery("SELECT (.+) FROM stats_snapshots").
				WithArgs(tc.want).
				WillReturnRows(pgxmock.NewRows([]string{"id", "taken_at", "last_updated", "is_live", "ysrcp", "tdp"}))

			snaps, err := store.ListSnapshots(context.Background(), tc.limit)
			require.NoError(t, err)
			assert.Empty(t, snaps)
			assert.NotNil(t, snaps)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS stats_snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
