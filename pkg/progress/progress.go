// Package progress turns a transaction snapshot and the goal settings into
// the aggregate figures shown on the dashboard: per-user totals, goal
// progress, contribution percentages, the monthly-saving prediction and the
// success-likelihood heuristic. Everything here is pure; callers fetch the
// snapshots and pass them in.
package progress

import (
	"errors"

	"github.com/shopspring/decimal"

	"tinigom/models"
)

// ErrNonPositiveGoal is returned when a percentage is requested against a
// zero or negative goal. Division is guarded rather than producing Inf.
var ErrNonPositiveGoal = errors.New("savings goal must be positive")

var hundred = decimal.NewFromInt(100)

// SignedAmount returns the transaction amount with withdrawals negated.
func SignedAmount(t models.Transaction) decimal.Decimal {
	if t.Type == models.TypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// UserTotals sums signed amounts per user. Both users are always present in
// the result, at zero when they have no transactions.
func UserTotals(txs []models.Transaction) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{
		models.UserNuone: decimal.Zero,
		models.UserKate:  decimal.Zero,
	}
	for _, t := range txs {
		if _, ok := totals[t.User]; !ok {
			continue
		}
		totals[t.User] = totals[t.User].Add(SignedAmount(t))
	}
	return totals
}

// GrandTotal sums the per-user totals.
func GrandTotal(totals map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum
}

// Percentage returns grandTotal/goal*100 capped at 100. The cap keeps the
// progress ring from overflowing once the goal is passed.
func Percentage(grandTotal, goal decimal.Decimal) (float64, error) {
	if !goal.IsPositive() {
		return 0, ErrNonPositiveGoal
	}
	pct, _ := grandTotal.Div(goal).Mul(hundred).Float64()
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// Contribution returns userTotal/goal*100, deliberately unclamped: a user
// who withdrew more than they contributed goes negative, and a single user
// can exceed 100.
func Contribution(userTotal, goal decimal.Decimal) (float64, error) {
	if !goal.IsPositive() {
		return 0, ErrNonPositiveGoal
	}
	pct, _ := userTotal.Div(goal).Mul(hundred).Float64()
	return pct, nil
}
