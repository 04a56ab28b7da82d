package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is an hourly billing plan. Rates are deactivated, never deleted,
// so finalized tickets keep a valid reference.
type Rate struct {
	ID            string
	Description   string
	AmountPerHour decimal.Decimal
	Active        bool
	CreatedAt     time.Time
}
