package models

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category describes a user-defined or default transaction category.
// Default categories have a nil UserID and are visible to everyone.
type Category struct {
	ID        uuid.UUID    `db:"id"`
	UserID    *uuid.UUID   `db:"user_id"`
	Name      string       `db:"name"`
	Type      CategoryType `db:"type"`
	Emoji     string       `db:"emoji"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}
