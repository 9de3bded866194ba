package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Withdrawals count against the savings total,
// income and savings count toward it.
const (
	TypeIncome     = "income"
	TypeSavings    = "savings"
	TypeWithdrawal = "withdrawal"
)

// Transaction is a single deposit or withdrawal logged by one of the two
// users. Rows are immutable once created; the only mutation is deletion.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Type      string          `gorm:"size:32;not null" json:"type"`
	Category  string          `gorm:"size:255" json:"category,omitempty"`
	Reason    string          `gorm:"size:255" json:"reason,omitempty"`
	User      string          `gorm:"column:user;size:32;not null;index" json:"user"`
	Date      time.Time       `gorm:"not null" json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// ValidTransactionType reports whether t is one of the enumerated types.
func ValidTransactionType(t string) bool {
	return t == TypeIncome || t == TypeSavings || t == TypeWithdrawal
}
