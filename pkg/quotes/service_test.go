package quotes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinigom/models"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	rows      []models.MotivationalQuote
	nextID    uint
	clock     time.Time
	latestErr error
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) add(user, text string, expiresAt *time.Time) models.MotivationalQuote {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	q := models.MotivationalQuote{ID: f.nextID, Quote: text, TargetUser: user, CreatedAt: f.clock, ExpiresAt: expiresAt}
	f.rows = append(f.rows, q)
	return q
}

func (f *fakeStore) LatestValidQuote(now time.Time) (*models.MotivationalQuote, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var best *models.MotivationalQuote
	for i := range f.rows {
		q := &f.rows[i]
		if q.ExpiresAt == nil || !q.ExpiresAt.After(now) {
			continue
		}
		if best == nil || q.CreatedAt.After(best.CreatedAt) {
			best = q
		}
	}
	return best, nil
}

func (f *fakeStore) RecentQuotes(user string, limit int) ([]models.MotivationalQuote, error) {
	var out []models.MotivationalQuote
	for _, q := range f.rows {
		if q.TargetUser == user {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) InsertQuote(q *models.MotivationalQuote) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	*q = f.add(q.TargetUser, q.Quote, q.ExpiresAt)
	return nil
}

func (f *fakeStore) DeleteExpiredQuotes(now time.Time) error {
	kept := f.rows[:0]
	for _, q := range f.rows {
		if q.ExpiresAt != nil && q.ExpiresAt.Before(now) {
			continue
		}
		kept = append(kept, q)
	}
	f.rows = kept
	return nil
}

// fakeGen records prompts and returns canned text.
type fakeGen struct {
	text    string
	err     error
	prompts []string
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func newTestService(store Store, gen Generator, mode Mode, now time.Time) *Service {
	svc := NewService(store, gen, mode)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSharedReturnsCachedQuote(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	expires := now.Add(3 * time.Hour)
	store.add(models.UserNuone, "Nuone, think twice before buying.", &expires)

	gen := &fakeGen{text: "should not be called"}
	svc := newTestService(store, gen, ModeShared, now)

	for i := 0; i < 2; i++ {
		res := svc.Shared(context.Background(), 46.7)
		assert.True(t, res.Cached)
		assert.False(t, res.Generated)
		assert.False(t, res.Fallback)
		assert.Equal(t, "Nuone, think twice before buying.", res.Quote)
	}
	assert.Empty(t, gen.prompts, "cache hits must not generate")
}

func TestSharedFallbackWithoutGenerator(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(store, nil, ModeShared, now)

	res := svc.Shared(context.Background(), 10)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackQuote, res.Quote)
	assert.NotEmpty(t, res.Diagnostic)
	assert.Empty(t, store.rows, "fallback must not persist anything")
}

func TestSharedGeneratesOnMiss(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	// A stale row that the write path must prune.
	stale := now.Add(-time.Hour)
	store.add(models.UserKate, "old quote", &stale)

	gen := &fakeGen{text: `"Kate bestie, saving is self-care periodt!"`}
	svc := newTestService(store, gen, ModeShared, now)

	res := svc.Shared(context.Background(), 46.7)
	assert.True(t, res.Generated)
	assert.Equal(t, "Kate bestie, saving is self-care periodt!", res.Quote, "wrapping quote characters stripped")
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, now.Add(12*time.Hour), *res.ExpiresAt)

	require.Len(t, store.rows, 1, "stale row pruned, fresh row inserted")
	assert.Equal(t, TurnUser(now), store.rows[0].TargetUser)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], TurnUser(now))
	assert.Contains(t, gen.prompts[0], "46.7%")
}

func TestSharedGeneratorErrorFallsBack(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	gen := &fakeGen{err: errors.New("quota exceeded")}
	svc := newTestService(store, gen, ModeShared, now)

	res := svc.Shared(context.Background(), 10)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackQuote, res.Quote)
	assert.Contains(t, res.Diagnostic, "quota exceeded")
}

func TestSharedCacheReadErrorStillGenerates(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.latestErr = errors.New("storage unavailable")
	gen := &fakeGen{text: "Nuone, wealth is patience."}
	svc := newTestService(store, gen, ModeShared, now)

	res := svc.Shared(context.Background(), 10)
	assert.True(t, res.Generated)
	assert.Equal(t, "Nuone, wealth is patience.", res.Quote)
}

func TestDualGeneratesOnePerUser(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	gen := &fakeGen{text: "a fresh quote"}
	svc := newTestService(store, gen, ModeDual, now)

	res := svc.Dual(context.Background(), map[string]float64{
		models.UserNuone: 26.7,
		models.UserKate:  20.0,
	})
	assert.True(t, res.Generated)
	assert.False(t, res.Fallback)
	assert.Equal(t, now, res.CreatedAt)
	assert.Equal(t, "a fresh quote", res.NuoneQuote)
	assert.Equal(t, "a fresh quote", res.KateQuote)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], models.UserNuone)
	assert.Contains(t, gen.prompts[0], "26.7%")
	assert.Contains(t, gen.prompts[1], models.UserKate)
	assert.Contains(t, gen.prompts[1], "20.0%")

	require.Len(t, store.rows, 2)
	assert.Equal(t, models.UserNuone, store.rows[0].TargetUser)
	assert.Equal(t, models.UserKate, store.rows[1].TargetUser)
	assert.Nil(t, store.rows[0].ExpiresAt, "dual mode writes no expiry")
}

func TestDualDeduplicatesAgainstRecentHistory(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	for i := 1; i <= 12; i++ {
		store.add(models.UserNuone, fmt.Sprintf("nuone quote %02d", i), nil)
	}
	gen := &fakeGen{text: "brand new"}
	svc := newTestService(store, gen, ModeDual, now)

	svc.Dual(context.Background(), map[string]float64{})

	require.NotEmpty(t, gen.prompts)
	prompt := gen.prompts[0]
	for i := 3; i <= 12; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("nuone quote %02d", i))
	}
	for i := 1; i <= 2; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("nuone quote %02d", i), "oldest entries drop out past 10")
	}
	_, avoidSection, found := strings.Cut(prompt, "Do NOT repeat any of these recent quotes:\n")
	require.True(t, found)
	avoidSection, _, _ = strings.Cut(avoidSection, "Return ONLY")
	assert.Equal(t, 10, strings.Count(avoidSection, "- nuone quote"), "exactly ten avoid lines")
}

func TestDualFallbackWithoutGenerator(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), nil, ModeDual, now)

	res := svc.Dual(context.Background(), nil)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackQuote, res.NuoneQuote)
	assert.Equal(t, FallbackQuote, res.KateQuote)
}

func TestDualGeneratorErrorFallsBack(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	gen := &fakeGen{err: errors.New("network down")}
	svc := newTestService(newFakeStore(), gen, ModeDual, now)

	res := svc.Dual(context.Background(), nil)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Diagnostic, "network down")
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeShared, ParseMode("shared"))
	assert.Equal(t, ModeDual, ParseMode("dual"))
	assert.Equal(t, ModeDual, ParseMode(""))
	assert.Equal(t, ModeDual, ParseMode("bogus"))
}
