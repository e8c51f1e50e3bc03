package repository

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceRepository struct {
	db *pgxpool.Pool
}

func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Set writes the absolute balance of an address for one token. Amounts
// travel as decimal strings so NUMERIC(78,0) round-trips without loss.
func (r *BalanceRepository) Set(ctx context.Context, token, address string, amount *big.Int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO balances (token, address, amount)
		 VALUES ($1, $2, $3::numeric)
		 ON CONFLICT (token, address) DO UPDATE
		 SET amount = EXCLUDED.amount`,
		token, address, amount.String(),
	)
	return err
}

func (r *BalanceRepository) Get(ctx context.Context, token, address string) (*big.Int, error) {
	var s string
	err := r.db.QueryRow(ctx,
		`SELECT amount::text FROM balances WHERE token = $1 AND address = $2`,
		token, address,
	).Scan(&s)
	if err != nil {
		return nil, err
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed balance %q for %s/%s", s, token, address)
	}
	return n, nil
}

// BalanceRow is one (token, address, amount) triple.
type BalanceRow struct {
	Token   string   `json:"token"`
	Address string   `json:"address"`
	Amount  *big.Int `json:"amount"`
}

// List returns every balance row. Used at boot to rebuild token ledgers.
func (r *BalanceRepository) List(ctx context.Context) ([]*BalanceRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT token, address, amount::text FROM balances`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*BalanceRow
	for rows.Next() {
		var (
			row BalanceRow
			s   string
		)
		if err := rows.Scan(&row.Token, &row.Address, &s); err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("malformed balance %q for %s/%s", s, row.Token, row.Address)
		}
		row.Amount = n
		res = append(res, &row)
	}
	return res, rows.Err()
}

func (r *BalanceRepository) ListByAddress(ctx context.Context, address string) ([]*BalanceRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT token, address, amount::text FROM balances WHERE address = $1 ORDER BY token`,
		address,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*BalanceRow
	for rows.Next() {
		var (
			row BalanceRow
			s   string
		)
		if err := rows.Scan(&row.Token, &row.Address, &s); err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("malformed balance %q for %s/%s", s, row.Token, row.Address)
		}
		row.Amount = n
		res = append(res, &row)
	}
	return res, rows.Err()
}
