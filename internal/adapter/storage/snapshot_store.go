// internal/adapter/storage/snapshot_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"partypulse/internal/domain/party"
)

// DefaultHistoryLimit is used when a caller asks for no particular limit
const DefaultHistoryLimit = 20

// MaxHistoryLimit caps a single history listing
const MaxHistoryLimit = 200

const schema = `
	CREATE TABLE IF NOT EXISTS stats_snapshots (
		id UUID PRIMARY KEY,
		taken_at TIMESTAMPTZ NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		is_live BOOLEAN NOT NULL,
		ysrcp JSONB NOT NULL,
		tdp JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS stats_snapshots_taken_at_idx ON stats_snapshots (taken_at DESC);
`

// DB is the part of pgxpool.Pool the snapshot store uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Snapshot is one archived overall stats result
type Snapshot struct {
	ID      string    `json:"id"`
	TakenAt time.Time `json:"takenAt"`
	party.Overall
}

// SnapshotStore archives overall stats in Postgres
type SnapshotStore struct {
	db  DB
	now func() time.Time
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(db DB) *SnapshotStore {
	return &SnapshotStore{
		db:  db,
		now: time.Now,
	}
}

// EnsureSchema creates the snapshot table when it does not exist
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error creating snapshot schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores an overall stats result
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, o party.Overall) error {
	query := `
		INSERT INTO stats_snapshots (
			id, taken_at, last_updated, is_live, ysrcp, tdp
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	ysrcpJSON, err := json.Marshal(o.YSRCP)
	if err != nil {
		return fmt.Errorf("error marshaling ysrcp stats: %w", err)
	}

	tdpJSON, err := json.Marshal(o.TDP)
	if err != nil {
		return fmt.Errorf("error marshaling tdp stats: %w", err)
	}

	lastUpdated := o.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = s.now()
	}

	_, err = s.db.Exec(
		ctx,
		query,
		uuid.New().String(),
		s.now(),
		lastUpdated,
		o.IsLive,
		ysrcpJSON,
		tdpJSON,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// ListSnapshots returns the newest snapshots first
func (s *SnapshotStore) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	query := `
		SELECT id, taken_at, last_updated, is_live, ysrcp, tdp
		FROM stats_snapshots
		ORDER BY taken_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		var ysrcpJSON, tdpJSON []byte

		if err := rows.Scan(
			&snap.ID,
			&snap.TakenAt,
			&snap.LastUpdated,
			&snap.IsLive,
			&ysrcpJSON,
			&tdpJSON,
		); err != nil {
			return nil, fmt.Errorf("error scanning snapshot: %w", err)
		}

		if err := json.Unmarshal(ysrcpJSON, &snap.YSRCP); err != nil {
			return nil, fmt.Errorf("error unmarshaling ysrcp stats: %w", err)
		}
		if err := json.Unmarshal(tdpJSON, &snap.TDP); err != nil {
			return nil, fmt.Errorf("error unmarshaling tdp stats: %w", err)
		}

		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
