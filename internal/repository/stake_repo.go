package repository

import (
	"context"

	"mine_empire/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StakeRepository struct {
	db *pgxpool.Pool
}

func NewStakeRepository(db *pgxpool.Pool) *StakeRepository {
	return &StakeRepository{db: db}
}

func (r *StakeRepository) Upsert(ctx context.Context, s *domain.Stake) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO stakes (mine, account, drill_id, staked_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (mine, account) DO UPDATE
		 SET drill_id = EXCLUDED.drill_id,
		     staked_at = EXCLUDED.staked_at`,
		s.Mine, s.Account, s.DrillID, s.Timestamp,
	)
	return err
}

func (r *StakeRepository) Delete(ctx context.Context, mine, account string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM stakes WHERE mine = $1 AND account = $2`,
		mine, account,
	)
	return err
}

func (r *StakeRepository) Get(ctx context.Context, mine, account string) (*domain.Stake, error) {
	row := r.db.QueryRow(ctx,
		`SELECT mine, account, drill_id, staked_at
		 FROM stakes
		 WHERE mine = $1 AND account = $2`,
		mine, account,
	)

	var s domain.Stake
	if err := row.Scan(&s.Mine, &s.Account, &s.DrillID, &s.Timestamp); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every stake row. Used at boot to rebuild mine state.
func (r *StakeRepository) List(ctx context.Context) ([]*domain.Stake, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mine, account, drill_id, staked_at FROM stakes`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Stake
	for rows.Next() {
		var s domain.Stake
		if err := rows.Scan(&s.Mine, &s.Account, &s.DrillID, &s.Timestamp); err != nil {
			return nil, err
		}
		res = append(res, &s)
	}
	return res, rows.Err()
}

// UserLevel is one row of the per-mine account level table.
type UserLevel struct {
	Mine    string `json:"mine"`
	Account string `json:"account"`
	Level   int    `json:"level"`
}

func (r *StakeRepository) UpsertUserLevel(ctx context.Context, mine, account string, level int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO mine_user_levels (mine, account, level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (mine, account) DO UPDATE
		 SET level = EXCLUDED.level`,
		mine, account, level,
	)
	return err
}

func (r *StakeRepository) ListUserLevels(ctx context.Context) ([]*UserLevel, error) {
	rows, err := r.db.Query(ctx,
		`SELECT mine, account, level FROM mine_user_levels`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*UserLevel
	for rows.Next() {
		var ul UserLevel
		if err := rows.Scan(&ul.Mine, &ul.Account, &ul.Level); err != nil {
			return nil, err
		}
		res = append(res, &ul)
	}
	return res, rows.Err()
}
