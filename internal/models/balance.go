package models

import (
	"time"

	"github.com/google/uuid"
)

// Balance is a cached aggregate over the user's ledger, recomputed on
// demand. The ledger is the source of truth, not this row.
type Balance struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Amount    float64   `db:"amount"`
	Currency  string    `db:"currency"`
	UpdatedAt time.Time `db:"updated_at"`
}
