package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinigom/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyPrediction_NoTarget(t *testing.T) {
	assert.Nil(t, MonthlyPrediction(nil, dec("100000"), dec("40000"), 0, time.Time{}, time.Now()))
	assert.Nil(t, MonthlyPrediction(nil, dec("100000"), dec("40000"), -3, time.Time{}, time.Now()))
}

func TestMonthlyPrediction_MidWindow(t *testing.T) {
	// Target window: 2024-07-01 + 10 months = 2025-05-01, which is
	// exactly 120 days past the fixed "now".
	now := date(2025, time.January, 1)
	start := date(2024, time.July, 1)

	p := MonthlyPrediction(nil, dec("100000"), dec("40000"), 10, start, now)
	require.NotNil(t, p)
	assert.True(t, p.RemainingAmount.Equal(dec("60000")))
	assert.Equal(t, 4.0, p.RemainingMonths)
	assert.True(t, p.RequiredMonthlySaving.Equal(dec("15000")))
	assert.False(t, p.TargetReached)
	assert.False(t, p.Achievable)
	assert.True(t, p.Shortfall.Equal(dec("15000")))
}

func TestMonthlyPrediction_TargetDatePassed(t *testing.T) {
	now := date(2025, time.June, 1)
	start := date(2024, time.January, 1)

	p := MonthlyPrediction(nil, dec("100000"), dec("40000"), 12, start, now)
	require.NotNil(t, p)
	assert.Equal(t, 0.0, p.RemainingMonths)
	assert.True(t, p.RequiredMonthlySaving.IsZero())
	assert.False(t, p.TargetReached, "goal not reached when the window closed short")

	p = MonthlyPrediction(nil, dec("100000"), dec("120000"), 12, start, now)
	require.NotNil(t, p)
	assert.True(t, p.RemainingAmount.IsZero())
	assert.True(t, p.TargetReached)
}

func TestMonthlyPrediction_GoalAlreadyExceeded(t *testing.T) {
	now := date(2025, time.January, 1)
	start := date(2024, time.July, 1)

	p := MonthlyPrediction(nil, dec("100000"), dec("150000"), 10, start, now)
	require.NotNil(t, p)
	assert.True(t, p.RemainingAmount.IsZero(), "remaining floors at zero")
	assert.True(t, p.RequiredMonthlySaving.IsZero())
	assert.True(t, p.TargetReached)
	assert.True(t, p.Achievable)
}

func TestCurrentMonthlySaving_ThreeMonthWindow(t *testing.T) {
	now := date(2025, time.June, 15)
	txs := []models.Transaction{
		{User: models.UserNuone, Type: models.TypeIncome, Amount: dec("30000"), Date: date(2025, time.May, 20)},
		{User: models.UserKate, Type: models.TypeSavings, Amount: dec("15000"), Date: date(2025, time.April, 10)},
		// Outside the window.
		{User: models.UserNuone, Type: models.TypeIncome, Amount: dec("90000"), Date: date(2025, time.February, 1)},
		// Withdrawals never count toward the saving rate.
		{User: models.UserKate, Type: models.TypeWithdrawal, Amount: dec("9999"), Date: date(2025, time.May, 1)},
	}

	avg := CurrentMonthlySaving(txs, now)
	assert.True(t, avg.Equal(dec("15000")), "got %s", avg)
}

func TestCurrentMonthlySaving_Empty(t *testing.T) {
	assert.True(t, CurrentMonthlySaving(nil, time.Now()).IsZero())
}

func TestSuccessLikelihood_NoTarget(t *testing.T) {
	assert.Equal(t, 50, SuccessLikelihood(nil, dec("40000"), dec("100000"), 10, time.Time{}, time.Now()))
}

func TestSuccessLikelihood_AheadAndAchievable(t *testing.T) {
	now := date(2025, time.January, 1)
	start := now.Add(-120 * 24 * time.Hour) // 4.0 elapsed months of 10
	pred := &Prediction{Achievable: true}

	// actual 60% vs expected 40% -> ratio 1.5 -> 75, +15 = 90.
	got := SuccessLikelihood(pred, dec("60000"), dec("100000"), 10, start, now)
	assert.Equal(t, 90, got)
}

func TestSuccessLikelihood_BehindAndShort(t *testing.T) {
	now := date(2025, time.January, 1)
	start := now.Add(-120 * 24 * time.Hour)
	pred := &Prediction{Achievable: false}

	// actual 10% vs expected 40% -> ratio 0.25 -> 23.75, -15 -> floor 10.
	got := SuccessLikelihood(pred, dec("10000"), dec("100000"), 10, start, now)
	assert.Equal(t, 10, got)
}

func TestSuccessLikelihood_CappedAt95(t *testing.T) {
	now := date(2025, time.January, 1)
	start := now.Add(-120 * 24 * time.Hour)
	pred := &Prediction{Achievable: true}

	// actual 120% vs expected 40% -> capped at 95 before and after the bonus.
	got := SuccessLikelihood(pred, dec("120000"), dec("100000"), 10, start, now)
	assert.Equal(t, 95, got)
}

func TestSuccessLikelihood_NegativeTotalHitsFloor(t *testing.T) {
	now := date(2025, time.January, 1)
	start := now.Add(-120 * 24 * time.Hour)
	pred := &Prediction{Achievable: false}

	got := SuccessLikelihood(pred, dec("-5000"), dec("100000"), 10, start, now)
	assert.Equal(t, 10, got)
}

func TestSuccessLikelihood_BeforeWindowStart(t *testing.T) {
	now := date(2025, time.January, 1)
	start := now.Add(30 * 24 * time.Hour) // window not started yet
	pred := &Prediction{Achievable: true}

	// No expected progress yet: base 50 plus the achievable bonus.
	got := SuccessLikelihood(pred, dec("0"), dec("100000"), 10, start, now)
	assert.Equal(t, 65, got)
}
