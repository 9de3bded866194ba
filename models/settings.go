package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the singleton settings row.
const SettingsID = 1

// DefaultSavingsGoal is seeded when no settings row exists yet.
var DefaultSavingsGoal = decimal.NewFromInt(150000)

// Settings is a singleton row (id = 1) holding the shared savings goal and
// the optional target window used by the monthly prediction. Updates are
// last-writer-wins; the row is never deleted.
type Settings struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SavingsGoal decimal.Decimal `gorm:"type:numeric;not null" json:"savings_goal"`
	// TargetMonths and TargetStartDate are set together or not at all.
	TargetMonths    *int       `json:"target_months,omitempty"`
	TargetStartDate *time.Time `json:"target_start_date,omitempty"`
	// LastInvoiceNumber backs the invoice counter; the next invoice is
	// issued as this value + 1, zero-padded to five digits.
	LastInvoiceNumber int       `gorm:"default:19" json:"-"`
	UpdatedAt         time.Time `json:"updated_at"`
}
