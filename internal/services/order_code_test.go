package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCodeChecker struct {
	taken   map[string]bool
	calls   []string
	failErr error
}

func (s *stubCodeChecker) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.calls = append(s.calls, code)
	if s.failErr != nil {
		return false, s.failErr
	}
	return s.taken[code], nil
}

// sequenceDigits returns a RandomDigit func replaying the given digits.
func sequenceDigits(digits ...int) func() int {
	i := 0
	return func() int {
		d := digits[i%len(digits)]
		i++
		return d
	}
}

func TestGenerateMintsShapedCode(t *testing.T) {
	store := &stubCodeChecker{}
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{
		Store:       store,
		RandomDigit: sequenceDigits(1, 2, 3, 4, 5, 6),
	})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if code != "PJ-123456" {
		t.Errorf("code = %q, want PJ-123456", code)
	}
	if !gen.Matches(code) {
		t.Errorf("Matches(%q) = false", code)
	}
	if len(store.calls) != 1 {
		t.Errorf("store calls = %v, want one check", store.calls)
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	store := &stubCodeChecker{taken: map[string]bool{"PJ-111111": true}}
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{
		Store:       store,
		RandomDigit: sequenceDigits(1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2),
	})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if code != "PJ-222222" {
		t.Errorf("code = %q, want PJ-222222 after collision", code)
	}
	if len(store.calls) != 2 {
		t.Errorf("store calls = %v, want two checks", store.calls)
	}
}

func TestGenerateFallsBackToClock(t *testing.T) {
	store := &stubCodeChecker{taken: map[string]bool{"PJ-777777": true}}
	fixed := time.UnixMilli(1724800123456)
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{
		Store:       store,
		MaxAttempts: 3,
		Clock:       func() time.Time { return fixed },
		RandomDigit: sequenceDigits(7),
	})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if code != "PJ-123456" {
		t.Errorf("code = %q, want last six digits of the clock", code)
	}
	if len(store.calls) != 1 {
		t.Errorf("store calls = %v, want one check before the local filter short-circuits", store.calls)
	}
}

func TestGenerateSkipsLocallySeenCodes(t *testing.T) {
	store := &stubCodeChecker{}
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{
		Store:       store,
		RandomDigit: sequenceDigits(5, 5, 5, 5, 5, 5, 9, 9, 9, 9, 9, 9),
	})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}

	first, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	second, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	if first != "PJ-555555" || second != "PJ-999999" {
		t.Errorf("codes = %q, %q", first, second)
	}
}

func TestGeneratePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store down")
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{
		Store:       &stubCodeChecker{failErr: storeErr},
		RandomDigit: sequenceDigits(1),
	})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}

	_, err = gen.Generate(context.Background())
	if !errors.Is(err, storeErr) {
		t.Errorf("Generate err = %v, want wrapped store error", err)
	}
}

func TestMatchesRejectsWrongShapes(t *testing.T) {
	gen, err := NewOrderCodeGenerator(OrderCodeGeneratorDeps{Store: &stubCodeChecker{}})
	if err != nil {
		t.Fatalf("NewOrderCodeGenerator returned error: %v", err)
	}
	for _, code := range []string{"PJ-12345", "PJ-1234567", "XX-123456", "PJ-12a456", ""} {
		if gen.Matches(code) {
			t.Errorf("Matches(%q) = true, want false", code)
		}
	}
}
