package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

// ActivityRepository is an append-only journal of lead events. The lead store
// stays the source of truth; this only survives restarts for audit.
type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

const createActivityTable = `
	CREATE TABLE IF NOT EXISTS lead_activity (
		event_id    TEXT PRIMARY KEY,
		event_type  TEXT NOT NULL,
		lead_id     TEXT NOT NULL,
		company     TEXT NOT NULL,
		stage       TEXT NOT NULL,
		score       INTEGER NOT NULL,
		interaction JSONB NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS lead_activity_lead_idx ON lead_activity (lead_id, occurred_at DESC);
`

func (r *ActivityRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createActivityTable); err != nil {
		return fmt.Errorf("migrate lead_activity: %w", err)
	}
	return nil
}

// Record inserts evt. Replays of the same event id are ignored.
func (r *ActivityRepository) Record(ctx context.Context, evt entity.LeadEvent) error {
	ix, err := json.Marshal(evt.Interaction)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lead_activity (event_id, event_type, lead_id, company, stage, score, interaction, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING
	`
	_, err = r.DB.ExecContext(ctx, query,
		evt.ID,
		string(evt.Type),
		evt.LeadID,
		evt.Company,
		string(evt.Stage),
		evt.Score,
		ix,
		evt.At,
	)
	return err
}

// PublishLeadEvent lets the journal sit directly behind the dispatcher when no broker is configured.
func (r *ActivityRepository) PublishLeadEvent(ctx context.Context, evt entity.LeadEvent) error {
	return r.Record(ctx, evt)
}

// Recent returns up to limit events for leadID, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, leadID string, limit int) ([]entity.LeadEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT event_id, event_type, lead_id, company, stage, score, interaction, occurred_at
		FROM lead_activity
		WHERE lead_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.LeadEvent
	for rows.Next() {
		var (
			evt      entity.LeadEvent
			typ, stg string
			ix       []byte
		)
		if err := rows.Scan(&evt.ID, &typ, &evt.LeadID, &evt.Company, &stg, &evt.Score, &ix, &evt.At); err != nil {
			return nil, err
		}
		evt.Type = entity.LeadEventType(typ)
		evt.Stage = entity.Stage(stg)
		if err := json.Unmarshal(ix, &evt.Interaction); err != nil {
			return nil, fmt.Errorf("decode interaction of %s: %w", evt.ID, err)
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}
