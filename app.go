package main

import (
	"errors"
	"log"
	"sync"

	"github.com/chazu/straightedge/pkg/construction"
	"github.com/chazu/straightedge/pkg/engine"
	"github.com/chazu/straightedge/pkg/verify"
)

// App is the backend a presentation layer drives. It owns the current
// construction and exposes JSON-friendly methods for adding points and
// lines, running construction scripts and verifying the result.
type App struct {
	mu     sync.Mutex
	engine *engine.Engine
	policy verify.Policy
	graph  *construction.Graph
}

// PointData is the JSON-serializable point format sent to the frontend.
type PointData struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LineData is the JSON-serializable line format sent to the frontend.
type LineData struct {
	ID string `json:"id"`
	A  string `json:"a"`
	B  string `json:"b"`
}

// AddPointResult is returned by AddPoint.
type AddPointResult struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// AddLineResult is returned by AddLine. NoOp is set when both endpoints
// are the same point.
type AddLineResult struct {
	ID    string `json:"id,omitempty"`
	NoOp  bool   `json:"noOp,omitempty"`
	Error string `json:"error,omitempty"`
}

// WarningData is an advisory verification finding.
type WarningData struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// VerificationData is the JSON-serializable verification outcome. For an
// invalid construction Kind, ID and Reason locate the first violation.
type VerificationData struct {
	Valid    bool          `json:"valid"`
	Kind     string        `json:"kind,omitempty"`
	ID       string        `json:"id,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Message  string        `json:"message,omitempty"`
	Warnings []WarningData `json:"warnings"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// BoundsData is the axis-aligned extent of the construction, used by the
// frontend to fit its view.
type BoundsData struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// EvalResult is the full result returned to the frontend after running a
// construction script.
type EvalResult struct {
	Points       []PointData       `json:"points"`
	Lines        []LineData        `json:"lines"`
	Errors       []EvalErrorData   `json:"errors"`
	Bounds       *BoundsData       `json:"bounds,omitempty"`
	Verification *VerificationData `json:"verification,omitempty"`
}

// NewApp creates an App with an empty construction. A nil policy means
// verify.DefaultPolicy.
func NewApp(eng *engine.Engine, policy verify.Policy) *App {
	if eng == nil {
		eng = engine.NewEngine()
	}
	if policy == nil {
		policy = verify.DefaultPolicy()
	}
	return &App{
		engine: eng,
		policy: policy,
		graph:  construction.New(),
	}
}

func (a *App) current() *construction.Graph {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph
}

// Reset discards the current construction.
func (a *App) Reset() {
	a.mu.Lock()
	a.graph = construction.New()
	a.mu.Unlock()
}

// AddPoint adds a point to the current construction.
func (a *App) AddPoint(x, y float64) AddPointResult {
	id, err := a.current().AddPoint(x, y)
	if err != nil {
		log.Printf("AddPoint rejected: %v", err)
		return AddPointResult{Error: err.Error()}
	}
	return AddPointResult{ID: id.String()}
}

// AddLine connects two points of the current construction.
func (a *App) AddLine(p1, p2 string) AddLineResult {
	id, err := a.current().AddLine(construction.PointID(p1), construction.PointID(p2))
	if err != nil {
		if !errors.Is(err, construction.ErrUnknownPoint) {
			log.Printf("AddLine error: %v", err)
		}
		return AddLineResult{Error: err.Error()}
	}
	if id.IsZero() {
		return AddLineResult{NoOp: true}
	}
	return AddLineResult{ID: id.String()}
}

// Points returns the current points in insertion order.
func (a *App) Points() []PointData {
	return pointData(a.current().Points())
}

// Lines returns the current lines in insertion order.
func (a *App) Lines() []LineData {
	return lineData(a.current().Lines())
}

// Bounds returns the extent of the current construction, or nil when it
// has no points.
func (a *App) Bounds() *BoundsData {
	return boundsData(a.current())
}

func boundsData(g *construction.Graph) *BoundsData {
	box, ok := g.Bounds()
	if !ok {
		return nil
	}
	return &BoundsData{MinX: box.Min.X, MinY: box.Min.Y, MaxX: box.Max.X, MaxY: box.Max.Y}
}

// Verify checks the current construction and reports the first violation.
func (a *App) Verify() VerificationData {
	return a.verify(a.current())
}

func (a *App) verify(g *construction.Graph) VerificationData {
	snap := g.Snapshot()
	result := verify.VerifySnapshot(snap, a.policy)
	warnings := verify.Warnings(snap)

	data := VerificationData{
		Valid:    result.Valid(),
		Warnings: make([]WarningData, 0, len(warnings)),
	}
	if !result.Valid() {
		data.Kind = result.Kind.String()
		data.ID = result.ID
		data.Reason = result.Reason.String()
		data.Message = result.Message
	}
	for _, w := range warnings {
		data.Warnings = append(data.Warnings, WarningData{
			Kind:    w.Kind.String(),
			ID:      w.ID,
			Message: w.Message,
		})
	}
	return data
}

// Evaluate runs a construction script. On success the script's
// construction replaces the current one and is verified; on failure the
// current construction is left untouched.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Points: []PointData{},
		Lines:  []LineData{},
		Errors: []EvalErrorData{},
	}

	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	a.graph = g
	a.mu.Unlock()

	result.Points = pointData(g.Points())
	result.Lines = lineData(g.Lines())
	result.Bounds = boundsData(g)
	v := a.verify(g)
	result.Verification = &v
	return result
}

func pointData(pts []construction.Point) []PointData {
	out := make([]PointData, 0, len(pts))
	for _, p := range pts {
		out = append(out, PointData{ID: p.ID.String(), X: p.X, Y: p.Y})
	}
	return out
}

func lineData(lines []construction.Line) []LineData {
	out := make([]LineData, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineData{ID: l.ID.String(), A: l.A.String(), B: l.B.String()})
	}
	return out
}
