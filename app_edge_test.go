package main

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> empty construction, non-nil slices.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp(nil, nil)
	result := app.Evaluate("")

	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Points == nil {
		t.Error("Points should be non-nil empty slice, got nil")
	}
	if result.Lines == nil {
		t.Error("Lines should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Verification.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error on a later line: eval error, no construction.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp(nil, nil)

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(point 0 0)\n(line \"P1\""
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Points) != 0 {
		t.Errorf("expected 0 points on syntax error, got %d", len(result.Points))
	}

	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

// ---------------------------------------------------------------------------
// 3. Rejected construction steps surface as eval errors.
// ---------------------------------------------------------------------------

func TestE2EConstructionErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			name:    "unknown endpoint",
			source:  "(point 0 0)\n(line \"P1\" \"P5\")",
			wantMsg: "P5",
		},
		{
			name:    "line arity",
			source:  "(point 0 0)\n(line \"P1\")",
			wantMsg: "exactly 2",
		},
		{
			name:    "point without y",
			source:  "(point 3)",
			wantMsg: "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(nil, nil)
			result := app.Evaluate(tt.source)
			if len(result.Errors) == 0 {
				t.Fatal("expected eval error")
			}
			if !strings.Contains(result.Errors[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", result.Errors[0].Message, tt.wantMsg)
			}
			if result.Verification != nil {
				t.Error("no verification should run on eval error")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// 4. Order sensitivity through the app: the later of two coincident points
//    is the one reported.
// ---------------------------------------------------------------------------

func TestE2ELaterCoincidentPointReported(t *testing.T) {
	app := NewApp(nil, nil)
	result := app.Evaluate(`
(point 10 10)
(point 0 0)
(point 20 20)
(point 0.000000000001 0)
`)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected eval errors: %v", result.Errors)
	}
	v := result.Verification
	if v.Valid || v.ID != "P4" {
		t.Errorf("got %+v, want P4 rejected", v)
	}
}

// ---------------------------------------------------------------------------
// 5. Repeated evaluation: the same source always yields the same result.
// ---------------------------------------------------------------------------

func TestE2ERepeatedEvaluation(t *testing.T) {
	app := NewApp(nil, nil)
	source := "(def a (point 0 0)) (def b (point 2 0)) (line a b) (line b a)"

	first := app.Evaluate(source)
	for i := 0; i < 3; i++ {
		again := app.Evaluate(source)
		if fmt.Sprint(again.Points, again.Lines) != fmt.Sprint(first.Points, first.Lines) {
			t.Fatalf("evaluation %d differs: %v %v", i, again.Points, again.Lines)
		}
	}
	if len(first.Lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(first.Lines))
	}
}

// ---------------------------------------------------------------------------
// 6. Concurrent interactive edits keep IDs unique.
// ---------------------------------------------------------------------------

func TestConcurrentAddPoint(t *testing.T) {
	app := NewApp(nil, nil)

	const workers, per = 4, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				app.AddPoint(float64(w*1000+i), float64(i))
			}
		}(w)
	}
	wg.Wait()

	pts := app.Points()
	if len(pts) != workers*per {
		t.Fatalf("expected %d points, got %d", workers*per, len(pts))
	}
	seen := make(map[string]bool, len(pts))
	for _, p := range pts {
		if seen[p.ID] {
			t.Errorf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
	if v := app.Verify(); !v.Valid {
		t.Errorf("distinct points should verify, got %+v", v)
	}
}
