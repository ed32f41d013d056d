package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/straightedge/pkg/construction"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites construction script source into what zygomys
// accepts:
//
//   - :keyword becomes the string "__kw_keyword", so keywords never clash
//     with user variables of the same name.
//   - point-count becomes point_count; zygomys reads a hyphen inside an
//     identifier as subtraction.
//   - ; and ;; comments become // comments.
//
// String literals pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			end := skipLiteral(source, i)
			out.WriteString(source[i:end])
			i = end

		case c == ';':
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				end = len(source)
			} else {
				end += i
			}
			out.WriteString("//")
			out.WriteString(strings.TrimLeft(source[i:end], ";"))
			i = end

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j

		// A hyphen between identifier characters; minus and negative
		// literals are left alone.
		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipLiteral returns the index just past the string literal that opens
// at i. Double-quoted literals honour backslash escapes, backtick
// literals are raw. An unterminated literal runs to the end of source.
func skipLiteral(source string, i int) int {
	quote := source[i]
	for j := i + 1; j < len(source); j++ {
		switch {
		case quote == '"' && source[j] == '\\':
			j++
		case source[j] == quote:
			return j + 1
		}
	}
	return len(source)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing construction handles through zygomys
// ---------------------------------------------------------------------------

// sexpPointRef is returned by `point` and accepted wherever a point is
// expected.
type sexpPointRef struct {
	id construction.PointID
}

func (p *sexpPointRef) SexpString(ps *zygo.PrintState) string { return p.id.String() }
func (p *sexpPointRef) Type() *zygo.RegisteredType            { return nil }

// sexpLineRef is returned by `line`.
type sexpLineRef struct {
	id construction.LineID
}

func (l *sexpLineRef) SexpString(ps *zygo.PrintState) string { return l.id.String() }
func (l *sexpLineRef) Type() *zygo.RegisteredType            { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toPointID accepts a point reference or a point ID string such as "P1".
func toPointID(s zygo.Sexp) (construction.PointID, error) {
	switch v := s.(type) {
	case *sexpPointRef:
		return v.id, nil
	case *zygo.SexpStr:
		return construction.PointID(v.S), nil
	}
	return "", fmt.Errorf("expected point reference or id, got %T (%s)", s, s.SexpString(nil))
}

// coordinate resolves the positional or keyword form of a coordinate.
func coordinate(pa kwArgs, pos int, key string) (float64, error) {
	if v, ok := pa.kw[key]; ok {
		return toFloat64(v)
	}
	if pos < len(pa.positional) {
		return toFloat64(pa.positional[pos])
	}
	return 0, fmt.Errorf("missing %s coordinate", key)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the construction builtins into a zygomys
// environment. The builtins mutate g as the script runs; a rejected
// construction step becomes an evaluation error.
//
// Source code must be preprocessed with preprocessSource() before evaluation.
func registerBuiltins(env *zygo.Zlisp, g *construction.Graph) {
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return pointBuiltin(g, args)
	})
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return lineBuiltin(g, args)
	})
	env.AddFunction("degree", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return degreeBuiltin(g, args)
	})

	// Registered with underscores; the preprocessor converts the
	// kebab-case spelling in user source.
	env.AddFunction("point_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(g.PointCount())}, nil
	})
	env.AddFunction("line_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(g.LineCount())}, nil
	})
}

// pointBuiltin implements (point 3 4) and (point :x 3 :y 4).
func pointBuiltin(g *construction.Graph, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)

	x, err := coordinate(pa, 0, "x")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
	}
	y, err := coordinate(pa, 1, "y")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
	}

	id, err := g.AddPoint(x, y)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("point: %w", err)
	}
	return &sexpPointRef{id: id}, nil
}

// lineBuiltin implements (line a b), where a and b are point refs or ids.
// It returns nil when a and b are the same point.
func lineBuiltin(g *construction.Graph, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("line requires exactly 2 points, got %d", len(args))
	}

	a, err := toPointID(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: first point: %w", err)
	}
	b, err := toPointID(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: second point: %w", err)
	}

	id, err := g.AddLine(a, b)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("line: %w", err)
	}
	if id.IsZero() {
		return zygo.SexpNull, nil
	}
	return &sexpLineRef{id: id}, nil
}

func degreeBuiltin(g *construction.Graph, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("degree requires exactly 1 point, got %d", len(args))
	}
	id, err := toPointID(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("degree: %w", err)
	}
	return &zygo.SexpInt{Val: int64(g.Degree(id))}, nil
}
