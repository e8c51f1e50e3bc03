package domain

import "time"

type Account struct {
	ID        int64     `db:"id"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}
