package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/straightedge/pkg/construction"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(point :x 1 :y 2)`,
			expect: `(point "__kw_x" 1 "__kw_y" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(point-count)`,
			expect: `(point_count)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(point -3 -4)`,
			expect: `(point -3 -4)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "escaped quote inside string",
			input:  `"say \"a-b\" :k" (point-count)`,
			expect: `"say \"a-b\" :k" (point_count)`,
		},
		{
			name:   "backtick string preserved",
			input:  "`x-y ;no` :x",
			expect: "`x-y ;no` \"__kw_x\"",
		},
		{
			name:   "hyphen inside string preserved",
			input:  `(line "P1" "P2") "a-b"`,
			expect: `(line "P1" "P2") "a-b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func evalOK(t *testing.T, source string) *construction.Graph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

func evalFails(t *testing.T, source string) []EvalError {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs
}

func TestPointBuiltin(t *testing.T) {
	g := evalOK(t, `
(point 0 0)
(point 1.5 -2)
(point :x 7 :y 8)
`)
	want := []construction.Point{
		{ID: "P1", X: 0, Y: 0},
		{ID: "P2", X: 1.5, Y: -2},
		{ID: "P3", X: 7, Y: 8},
	}
	got := g.Points()
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPointMissingCoordinate(t *testing.T) {
	evalFails(t, `(point 1)`)
}

func TestPointRejectsNonNumber(t *testing.T) {
	evalFails(t, `(point "a" 2)`)
}

func TestPointBuiltinRejectsNonFinite(t *testing.T) {
	g := construction.New()
	cases := [][]zygo.Sexp{
		{&zygo.SexpFloat{Val: math.Inf(1)}, &zygo.SexpInt{Val: 0}},
		{&zygo.SexpInt{Val: 0}, &zygo.SexpFloat{Val: math.NaN()}},
	}
	for _, args := range cases {
		if _, err := pointBuiltin(g, args); !errors.Is(err, construction.ErrInvalidCoordinate) {
			t.Errorf("expected ErrInvalidCoordinate, got %v", err)
		}
	}
	if g.PointCount() != 0 {
		t.Errorf("rejected points were added: %d", g.PointCount())
	}
}

func TestScriptNonFiniteCoordinateFails(t *testing.T) {
	// Float division by zero either yields +Inf, which point rejects, or
	// is refused by the interpreter; both surface as an eval error.
	errs := evalFails(t, `(point (/ 1.0 0.0) 0)`)
	t.Logf("eval error: %s", errs[0])
}

func TestLineWithVariables(t *testing.T) {
	g := evalOK(t, `
(def a (point 0 0))
(def b (point 4 0))
(def c (point 0 3))
(line a b)
(line b c)
(line c a)
`)
	if g.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", g.LineCount())
	}
	for _, id := range []construction.PointID{"P1", "P2", "P3"} {
		if g.Degree(id) != 2 {
			t.Errorf("Degree(%s) = %d, want 2", id, g.Degree(id))
		}
	}
}

func TestLineWithIDs(t *testing.T) {
	g := evalOK(t, `
(point 0 0)
(point 1 1)
(line "P1" "P2")
(line "P2" "P1")
`)
	if g.LineCount() != 1 {
		t.Fatalf("reversed line should be idempotent, got %d lines", g.LineCount())
	}
	l, ok := g.LineBetween("P1", "P2")
	if !ok || l.ID != "L1" {
		t.Errorf("LineBetween = %v, %v", l, ok)
	}
}

func TestLineSelfLoopIsNoOp(t *testing.T) {
	g := evalOK(t, `
(def a (point 0 0))
(line a a)
`)
	if g.LineCount() != 0 {
		t.Errorf("self loop should add no line, got %d", g.LineCount())
	}
}

func TestLineUnknownPoint(t *testing.T) {
	errs := evalFails(t, `
(point 0 0)
(line "P1" "P7")
`)
	t.Logf("eval error: %s", errs[0])
}

func TestLineArity(t *testing.T) {
	evalFails(t, `(def a (point 0 0)) (line a)`)
}

func TestLineRejectsBadArgument(t *testing.T) {
	evalFails(t, `(def a (point 0 0)) (line a 5)`)
}

func TestDegreeAndCounts(t *testing.T) {
	g := evalOK(t, `
(def a (point 0 0))
(def b (point 1 0))
(def c (point 2 0))
(line a b)
(line a c)
(def d (degree a))
(def n (point-count))
(def m (line-count))
`)
	if g.Degree("P1") != 2 {
		t.Errorf("Degree(P1) = %d, want 2", g.Degree("P1"))
	}
	if g.PointCount() != 3 || g.LineCount() != 2 {
		t.Errorf("got %d points, %d lines; want 3, 2", g.PointCount(), g.LineCount())
	}
}

func TestDegreeArity(t *testing.T) {
	evalFails(t, `(point 0 0) (degree)`)
}
