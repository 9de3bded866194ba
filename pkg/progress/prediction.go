package progress

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tinigom/models"
)

// daysPerMonth converts day counts to fractional months.
const daysPerMonth = 30

// Prediction describes what it would take to hit the goal by the target
// date, against what the users are actually saving.
type Prediction struct {
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
	RemainingMonths       float64         `json:"remaining_months"`
	RequiredMonthlySaving decimal.Decimal `json:"required_monthly_saving"`
	CurrentMonthlySaving  decimal.Decimal `json:"current_monthly_saving"`
	Achievable            bool            `json:"achievable"`
	Shortfall             decimal.Decimal `json:"shortfall"`
	TargetReached         bool            `json:"target_reached"`
}

// MonthlyPrediction computes the required-vs-actual monthly saving rate for
// the configured target window. Returns nil when no target is set.
func MonthlyPrediction(txs []models.Transaction, goal, grandTotal decimal.Decimal, targetMonths int, targetStart, now time.Time) *Prediction {
	if targetMonths <= 0 {
		return nil
	}

	remaining := goal.Sub(grandTotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	end := targetStart.AddDate(0, targetMonths, 0)
	days := end.Sub(now).Hours() / 24
	months := math.Round(days/daysPerMonth*10) / 10
	if months < 0 {
		months = 0
	}

	p := &Prediction{
		RemainingAmount:      remaining,
		RemainingMonths:      months,
		CurrentMonthlySaving: CurrentMonthlySaving(txs, now),
		TargetReached:        remaining.IsZero(),
	}
	if months > 0 {
		p.RequiredMonthlySaving = remaining.DivRound(decimal.NewFromFloat(months), 2)
	} else {
		p.RequiredMonthlySaving = decimal.Zero
	}
	p.Achievable = p.CurrentMonthlySaving.GreaterThanOrEqual(p.RequiredMonthlySaving)
	shortfall := p.RequiredMonthlySaving.Sub(p.CurrentMonthlySaving)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	p.Shortfall = shortfall
	return p
}

// CurrentMonthlySaving averages the deposits (income and savings kinds)
// dated within the last 3 calendar months.
func CurrentMonthlySaving(txs []models.Transaction, now time.Time) decimal.Decimal {
	cutoff := now.AddDate(0, -3, 0)
	sum := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TypeWithdrawal {
			continue
		}
		if t.Date.Before(cutoff) || t.Date.After(now) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum.DivRound(decimal.NewFromInt(3), 2)
}

// SuccessLikelihood estimates the odds of reaching the goal by the target
// date as an integer in [10,95]. This is a display heuristic with
// hand-tuned constants, not a statistical probability: base 50, scaled
// toward 95 when progress is ahead of the elapsed share of the target
// window and toward a floor of 15 when behind, then shifted 15 points for
// meeting or missing the required monthly saving.
func SuccessLikelihood(pred *Prediction, grandTotal, goal decimal.Decimal, targetMonths int, targetStart, now time.Time) int {
	if pred == nil || targetMonths <= 0 || !goal.IsPositive() {
		return 50
	}

	actual, err := Contribution(grandTotal, goal)
	if err != nil {
		return 50
	}
	monthsElapsed := now.Sub(targetStart).Hours() / 24 / daysPerMonth
	if monthsElapsed < 0 {
		monthsElapsed = 0
	}
	expected := monthsElapsed / float64(targetMonths) * 100

	score := 50.0
	if expected > 0 {
		ratio := actual / expected
		switch {
		case ratio >= 1:
			score = math.Min(95, 50+(ratio-1)*50)
		case ratio > 0:
			score = 15 + 35*ratio
		default:
			score = 15
		}
	}
	if pred.Achievable {
		score += 15
	} else {
		score -= 15
	}

	if score > 95 {
		score = 95
	}
	if score < 10 {
		score = 10
	}
	return int(math.Round(score))
}
