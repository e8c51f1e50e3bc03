package repository

import (
	"context"
	"encoding/json"
	"time"

	"mine_empire/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create appends one event to the journal.
func (r *EventRepository) Create(ctx context.Context, ev *domain.MiningEvent) error {
	detailsJSON, err := json.Marshal(ev.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	amount := ev.Amount
	if amount == "" {
		amount = "0"
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO mining_events (account, kind, mine, drill_id, amount, details)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6)
		 RETURNING id, created_at`,
		ev.Account, ev.Kind, ev.Mine, ev.DrillID, amount, detailsJSON,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// GetByAccount returns recent events for one account, newest first.
func (r *EventRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.MiningEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, account, kind, mine, drill_id, amount::text, details, created_at
		 FROM mining_events
		 WHERE account = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// GetRecent returns the most recent events across all accounts.
func (r *EventRepository) GetRecent(ctx context.Context, limit int) ([]*domain.MiningEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, account, kind, mine, drill_id, amount::text, details, created_at
		 FROM mining_events
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *EventRepository) scanRows(rows pgx.Rows) ([]*domain.MiningEvent, error) {
	var result []*domain.MiningEvent

	for rows.Next() {
		var (
			ev          domain.MiningEvent
			detailsJSON []byte
			createdAt   time.Time
		)

		if err := rows.Scan(&ev.ID, &ev.Account, &ev.Kind, &ev.Mine, &ev.DrillID, &ev.Amount, &detailsJSON, &createdAt); err != nil {
			return nil, err
		}

		ev.CreatedAt = createdAt
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &ev.Details)
		}

		result = append(result, &ev)
	}

	return result, rows.Err()
}
