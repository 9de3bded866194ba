// Package quotes decides whether a cached motivational quote is still
// valid, generates new text when it isn't, and prunes expired rows. Two
// cache lifecycles coexist as named strategies: a single shared quote with
// a 12-hour expiry and time-bucketed turn selection, and two independent
// per-user quotes with no expiry that deduplicate against recent history.
package quotes

import (
	"context"
	"fmt"
	"log"
	"time"

	"tinigom/models"
)

// FallbackQuote is returned whenever a quote cannot be read or generated.
// Quote failures never surface as hard errors.
const FallbackQuote = "Wealth begins where impulse ends."

const (
	cacheTTL     = 12 * time.Hour
	turnBucket   = 6 * time.Hour
	historyLimit = 10
)

// Mode selects the cache lifecycle strategy.
type Mode string

const (
	// ModeShared keeps one quote row valid at a time, expiring after 12
	// hours, addressed to whichever user the current turn bucket selects.
	ModeShared Mode = "shared"
	// ModeDual generates an independent quote per user on every fetch,
	// deduplicating against that user's recent history.
	ModeDual Mode = "dual"
)

// ParseMode maps a QUOTE_MODE env value to a Mode, defaulting to dual —
// the most feature-complete variant.
func ParseMode(v string) Mode {
	if v == string(ModeShared) {
		return ModeShared
	}
	return ModeDual
}

// Generator produces quote text from a natural-language prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store is the slice of the persistence gateway the service needs.
type Store interface {
	LatestValidQuote(now time.Time) (*models.MotivationalQuote, error)
	RecentQuotes(user string, limit int) ([]models.MotivationalQuote, error)
	InsertQuote(q *models.MotivationalQuote) error
	DeleteExpiredQuotes(now time.Time) error
}

// Service implements both quote strategies over an injected store and
// generator. A nil generator means no credential is configured and every
// miss degrades to the fallback quote.
type Service struct {
	store Store
	gen   Generator
	mode  Mode
	now   func() time.Time
}

// NewService builds a Service. gen may be nil.
func NewService(store Store, gen Generator, mode Mode) *Service {
	return &Service{store: store, gen: gen, mode: mode, now: time.Now}
}

// Mode returns the configured strategy.
func (s *Service) Mode() Mode { return s.mode }

// Result is the outcome of a shared-mode fetch. Exactly one of Cached,
// Generated or Fallback is set.
type Result struct {
	Quote      string
	Cached     bool
	Generated  bool
	Fallback   bool
	ExpiresAt  *time.Time
	Diagnostic string
}

// PairResult is the outcome of a dual-mode fetch.
type PairResult struct {
	NuoneQuote string
	KateQuote  string
	Generated  bool
	Fallback   bool
	CreatedAt  time.Time
	Diagnostic string
}

// TurnUser deterministically selects which user a shared quote addresses:
// 6-hour wall-clock buckets alternate between the two. Stateless, so any
// replica computes the same answer.
func TurnUser(t time.Time) string {
	if (t.UnixMilli()/turnBucket.Milliseconds())%2 == 0 {
		return models.UserNuone
	}
	return models.UserKate
}

// Shared returns the current shared quote: the cached row when one is still
// valid, otherwise freshly generated text for the current turn user,
// cached for 12 hours. progressPct is the overall goal progress embedded
// into the prompt.
func (s *Service) Shared(ctx context.Context, progressPct float64) Result {
	now := s.now()

	cached, err := s.store.LatestValidQuote(now)
	if err != nil {
		// Read failures fall through to generation.
		log.Printf("quote cache read failed: %v", err)
	}
	if cached != nil {
		return Result{Quote: cached.Quote, Cached: true, ExpiresAt: cached.ExpiresAt}
	}

	if s.gen == nil {
		return fallbackResult("generation credential not configured")
	}

	user := TurnUser(now)
	text, err := s.gen.Generate(ctx, SharedPrompt(user, progressPct))
	if err != nil {
		return fallbackResult(fmt.Sprintf("generation failed: %v", err))
	}
	quote := CleanQuote(text)
	expires := now.Add(cacheTTL)

	// Prune on the write path, then insert. Concurrent misses may both
	// land here; reads take newest-valid so a duplicate row only wastes
	// one generation call.
	if err := s.store.DeleteExpiredQuotes(now); err != nil {
		log.Printf("quote prune failed: %v", err)
	}
	row := models.MotivationalQuote{Quote: quote, TargetUser: user, ExpiresAt: &expires}
	if err := s.store.InsertQuote(&row); err != nil {
		// Still return the generated quote even if caching fails.
		log.Printf("quote cache write failed: %v", err)
	}
	return Result{Quote: quote, Generated: true, ExpiresAt: &expires}
}

// Dual generates a fresh quote for each user, passing that user's recent
// quotes as anti-repetition context. contributionPct maps user name to
// their contribution percentage for the prompt.
func (s *Service) Dual(ctx context.Context, contributionPct map[string]float64) PairResult {
	now := s.now()

	if s.gen == nil {
		return fallbackPair(now, "generation credential not configured")
	}

	nuone, err := s.generateFor(ctx, models.UserNuone, contributionPct[models.UserNuone])
	if err != nil {
		return fallbackPair(now, fmt.Sprintf("generation failed for %s: %v", models.UserNuone, err))
	}
	kate, err := s.generateFor(ctx, models.UserKate, contributionPct[models.UserKate])
	if err != nil {
		return fallbackPair(now, fmt.Sprintf("generation failed for %s: %v", models.UserKate, err))
	}
	return PairResult{NuoneQuote: nuone, KateQuote: kate, Generated: true, CreatedAt: now}
}

func (s *Service) generateFor(ctx context.Context, user string, pct float64) (string, error) {
	history, err := s.store.RecentQuotes(user, historyLimit)
	if err != nil {
		// Degraded dedup beats no quote.
		log.Printf("quote history read failed for %s: %v", user, err)
		history = nil
	}
	avoid := make([]string, 0, len(history))
	for _, q := range history {
		avoid = append(avoid, q.Quote)
	}

	text, err := s.gen.Generate(ctx, DualPrompt(user, pct, avoid))
	if err != nil {
		return "", err
	}
	quote := CleanQuote(text)

	row := models.MotivationalQuote{Quote: quote, TargetUser: user}
	if err := s.store.InsertQuote(&row); err != nil {
		log.Printf("quote history write failed for %s: %v", user, err)
	}
	return quote, nil
}

func fallbackResult(diag string) Result {
	return Result{Quote: FallbackQuote, Fallback: true, Diagnostic: diag}
}

func fallbackPair(now time.Time, diag string) PairResult {
	return PairResult{
		NuoneQuote: FallbackQuote,
		KateQuote:  FallbackQuote,
		Fallback:   true,
		CreatedAt:  now,
		Diagnostic: diag,
	}
}
