package repository

import (
	"context"

	"mine_empire/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByAddress(ctx context.Context, address string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, address, created_at
		 FROM accounts
		 WHERE address = $1`,
		address,
	)

	var a domain.Account
	if err := row.Scan(&a.ID, &a.Address, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetOrCreate returns the account for an address, creating it on first sight.
func (r *AccountRepository) GetOrCreate(ctx context.Context, address string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO accounts (address)
		 VALUES ($1)
		 ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
		 RETURNING id, address, created_at`,
		address,
	)

	var a domain.Account
	if err := row.Scan(&a.ID, &a.Address, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, address, created_at FROM accounts ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Address, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}
