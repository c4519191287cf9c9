// Package stroke turns raw, jittery pointer samples into continuous
// curves. The same state machine runs for the local pointer and for every
// remote cursor, so a replayed stroke matches the original.
package stroke

// Point is one pointer sample in canvas coordinates.
type Point struct {
	X, Y float64
}

// Mid returns the midpoint between p and q.
func Mid(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Canvas is the rendering surface a Tracker draws on.
type Canvas interface {
	// DrawLine draws a straight segment from from to to.
	DrawLine(from, to Point)
	// DrawQuadratic draws a quadratic curve from from, bending through
	// control, ending at to.
	DrawQuadratic(from, control, to Point)
}

// Tracker smooths one participant's stroke. Between pointer-down and
// pointer-up it emits one segment per sample after the first: a straight
// segment first, then quadratics whose control point is the previous raw
// sample and whose endpoint is the midpoint to the newest one. Each
// emitted endpoint therefore trails the raw input by one sample, which is
// the price of curve continuity.
type Tracker struct {
	canvas  Canvas
	last    *Point // last raw sample; stale between strokes
	anchor  *Point // last emitted curve endpoint
	drawing bool
}

func NewTracker(canvas Canvas) *Tracker {
	return &Tracker{canvas: canvas}
}

// Drawing reports whether the tracker is inside a stroke.
func (t *Tracker) Drawing() bool { return t.drawing }

// Down starts a stroke at p. No segment is emitted yet.
func (t *Tracker) Down(p Point) {
	t.drawing = true
	t.last = &p
}

// Move consumes the next raw sample. Outside a stroke it is ignored.
func (t *Tracker) Move(p Point) {
	if !t.drawing {
		return
	}
	if t.last == nil {
		// Drawing flag without a down point; drop the sample rather
		// than invent a segment origin.
		return
	}

	if t.anchor == nil {
		t.canvas.DrawLine(*t.last, p)
		t.anchor = &p
	} else {
		m := Mid(*t.last, p)
		t.canvas.DrawQuadratic(*t.anchor, *t.last, m)
		t.anchor = &m
	}
	t.last = &p
}

// Up ends the stroke. The anchor is cleared so the next stroke starts with
// a straight segment; the last raw point is kept as stale context.
func (t *Tracker) Up() {
	t.anchor = nil
	t.drawing = false
}

// Observe drives the tracker from a remote cursor sample instead of local
// pointer events: the move applies first (drawing only if the previous
// sample was already inside a stroke), a true-to-false transition closes
// the stroke, and the sample then becomes the new last point.
func (t *Tracker) Observe(p Point, isDrawing bool) {
	t.Move(p)
	if t.drawing && !isDrawing {
		t.Up()
	}
	t.last = &p
	t.drawing = isDrawing
}
