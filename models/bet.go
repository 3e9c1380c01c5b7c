package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet is a single user's wager on one pool. The amount is copied from the
// pool's stake at placement time. At most one bet exists per (pool, user)
// pair; the record is immutable once created.
type Bet struct {
	ID             string          `db:"id"`
	PoolID         string          `db:"pool_id"`
	UserID         string          `db:"user_id"`
	OptionSelected string          `db:"option_selected"`
	Amount         decimal.Decimal `db:"amount"`
	CreatedAt      time.Time       `db:"created_at"`
}
