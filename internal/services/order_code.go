package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"go.opentelemetry.io/otel/metric"
)

// ErrNilCodeStore indicates a generator constructed without a store.
var ErrNilCodeStore = errors.New("order code generator: store is required")

const (
	// seenFilterCapacity sizes the bloom prefilter; well above the codes
	// a single process mints between restarts.
	seenFilterCapacity = 100_000
	seenFilterFP       = 0.01
)

// OrderCodeGeneratorDeps wires the generator's collaborators. RandomDigit,
// Clock and Fallbacks may be nil; Prefix, Digits and MaxAttempts fall back
// to the storefront defaults when zero.
type OrderCodeGeneratorDeps struct {
	Store       CodeChecker
	Prefix      string
	Digits      int
	MaxAttempts int
	Clock       func() time.Time
	RandomDigit func() int
	Fallbacks   metric.Int64Counter
}

// OrderCodeGenerator mints short human-facing order codes and checks them
// against the store before handing them out. A process-local bloom filter
// skips the store round trip for codes this process already minted; the
// store stays the uniqueness authority because the final Create is
// transactional.
type OrderCodeGenerator struct {
	store       CodeChecker
	prefix      string
	digits      int
	maxAttempts int
	clock       func() time.Time
	randomDigit func() int
	fallbacks   metric.Int64Counter
	pattern     *regexp.Regexp

	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewOrderCodeGenerator validates deps and builds the generator.
func NewOrderCodeGenerator(deps OrderCodeGeneratorDeps) (*OrderCodeGenerator, error) {
	if deps.Store == nil {
		return nil, ErrNilCodeStore
	}
	if deps.Prefix == "" {
		deps.Prefix = "PJ-"
	}
	if deps.Digits <= 0 {
		deps.Digits = 6
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = 10
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.RandomDigit == nil {
		deps.RandomDigit = func() int { return rand.Intn(10) }
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`^%s\d{%d}$`, regexp.QuoteMeta(deps.Prefix), deps.Digits))
	if err != nil {
		return nil, fmt.Errorf("order code generator: compile pattern: %w", err)
	}

	return &OrderCodeGenerator{
		store:       deps.Store,
		prefix:      deps.Prefix,
		digits:      deps.Digits,
		maxAttempts: deps.MaxAttempts,
		clock:       deps.Clock,
		randomDigit: deps.RandomDigit,
		fallbacks:   deps.Fallbacks,
		pattern:     pattern,
		seen:        bloom.NewWithEstimates(seenFilterCapacity, seenFilterFP),
	}, nil
}

// Generate mints a fresh code, retrying on collisions up to the attempt
// budget. When every attempt collides it falls back to a clock-derived
// code, which the transactional write still guards.
func (g *OrderCodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := g.mint()
		if g.seenLocally(code) {
			continue
		}
		exists, err := g.store.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("order code generator: exists check: %w", err)
		}
		if exists {
			g.remember(code)
			continue
		}
		g.remember(code)
		return code, nil
	}

	if g.fallbacks != nil {
		g.fallbacks.Add(ctx, 1)
	}
	code := g.fallbackCode()
	g.remember(code)
	return code, nil
}

// Matches reports whether code has the generator's shape.
func (g *OrderCodeGenerator) Matches(code string) bool {
	return g.pattern.MatchString(code)
}

func (g *OrderCodeGenerator) mint() string {
	var b strings.Builder
	b.Grow(len(g.prefix) + g.digits)
	b.WriteString(g.prefix)
	for i := 0; i < g.digits; i++ {
		b.WriteByte(byte('0' + g.randomDigit()%10))
	}
	return b.String()
}

func (g *OrderCodeGenerator) fallbackCode() string {
	modulus := int64(1)
	for i := 0; i < g.digits; i++ {
		modulus *= 10
	}
	suffix := g.clock().UnixMilli() % modulus
	return fmt.Sprintf("%s%0*d", g.prefix, g.digits, suffix)
}

func (g *OrderCodeGenerator) seenLocally(code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seen.TestString(code)
}

func (g *OrderCodeGenerator) remember(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen.AddString(code)
}
