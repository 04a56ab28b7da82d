package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const msPerHour = 3_600_000

// Charges computes the elapsed hours and the amount due for a stay.
// Hours are the elapsed milliseconds divided by one hour, rounded to
// two decimals; the amount is hours times the hourly rate, rounded to
// two decimals from the already-rounded hours.
func Charges(entry, exit time.Time, amountPerHour decimal.Decimal) (hours, amount decimal.Decimal, err error) {
	elapsedMs := exit.Sub(entry).Milliseconds()
	if elapsedMs < 0 {
		return decimal.Zero, decimal.Zero, ErrNegativeDuration
	}

	hours = decimal.NewFromInt(elapsedMs).
		Div(decimal.NewFromInt(msPerHour)).
		Round(2)
	amount = hours.Mul(amountPerHour).Round(2)
	return hours, amount, nil
}
