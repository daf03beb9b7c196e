package models

import (
	"time"

	"github.com/google/uuid"
)

// Source is a traffic source users arrive from, carried as the /start
// deep-link payload and kept for UTM attribution.
type Source struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	UTMSource   string    `db:"utm_source"`
	UTMMedium   string    `db:"utm_medium"`
	UTMCampaign string    `db:"utm_campaign"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
