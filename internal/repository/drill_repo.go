package repository

import (
	"context"

	"mine_empire/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DrillRecord mirrors one registry entry: the drill itself plus where
// ownership currently sits.
type DrillRecord struct {
	Drill    domain.Drill `json:"drill"`
	Owner    string       `json:"owner"`
	Approved string       `json:"approved,omitempty"`
}

type DrillRepository struct {
	db *pgxpool.Pool
}

func NewDrillRepository(db *pgxpool.Pool) *DrillRepository {
	return &DrillRepository{db: db}
}

// Upsert writes the full drill row. Called after every mint, upgrade,
// approval and custody change, so it overwrites rather than inserts.
func (r *DrillRepository) Upsert(ctx context.Context, rec *DrillRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO drills (drill_id, type_id, level, owner, approved)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (drill_id) DO UPDATE
		 SET type_id = EXCLUDED.type_id,
		     level = EXCLUDED.level,
		     owner = EXCLUDED.owner,
		     approved = EXCLUDED.approved`,
		rec.Drill.DrillID, rec.Drill.TypeID, rec.Drill.Level, rec.Owner, rec.Approved,
	)
	return err
}

func (r *DrillRepository) GetByID(ctx context.Context, drillID uint64) (*DrillRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT drill_id, type_id, level, owner, approved
		 FROM drills
		 WHERE drill_id = $1`,
		drillID,
	)

	var rec DrillRecord
	if err := row.Scan(&rec.Drill.DrillID, &rec.Drill.TypeID, &rec.Drill.Level, &rec.Owner, &rec.Approved); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *DrillRepository) GetByOwner(ctx context.Context, owner string) ([]*DrillRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT drill_id, type_id, level, owner, approved
		 FROM drills
		 WHERE owner = $1
		 ORDER BY drill_id`,
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*DrillRecord
	for rows.Next() {
		var rec DrillRecord
		if err := rows.Scan(&rec.Drill.DrillID, &rec.Drill.TypeID, &rec.Drill.Level, &rec.Owner, &rec.Approved); err != nil {
			return nil, err
		}
		res = append(res, &rec)
	}
	return res, rows.Err()
}

// List returns every drill row ordered by id. Used at boot to rebuild
// the in-memory registry.
func (r *DrillRepository) List(ctx context.Context) ([]*DrillRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT drill_id, type_id, level, owner, approved
		 FROM drills
		 ORDER BY drill_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*DrillRecord
	for rows.Next() {
		var rec DrillRecord
		if err := rows.Scan(&rec.Drill.DrillID, &rec.Drill.TypeID, &rec.Drill.Level, &rec.Owner, &rec.Approved); err != nil {
			return nil, err
		}
		res = append(res, &rec)
	}
	return res, rows.Err()
}
