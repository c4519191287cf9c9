package stroke

import "github.com/bhavjitChauhan/liveboard/internal/protocol"

// Board tracks one smoothing state machine per remote participant,
// created lazily on the first cursor message observed for an id.
type Board struct {
	canvas   Canvas
	trackers map[string]*Tracker
}

func NewBoard(canvas Canvas) *Board {
	return &Board{canvas: canvas, trackers: make(map[string]*Tracker)}
}

// HandleCursor feeds one relayed cursor message to the owning tracker.
func (b *Board) HandleCursor(msg protocol.CursorMessage) {
	t, ok := b.trackers[msg.ID]
	if !ok {
		t = NewTracker(b.canvas)
		b.trackers[msg.ID] = t
	}
	t.Observe(Point{X: msg.X, Y: msg.Y}, msg.IsDrawing)
}

// Drop force-closes any open stroke for id and forgets the tracker.
func (b *Board) Drop(id string) {
	if t, ok := b.trackers[id]; ok {
		t.Up()
		delete(b.trackers, id)
	}
}

// Tracker returns the tracker for id, if one exists.
func (b *Board) Tracker(id string) (*Tracker, bool) {
	t, ok := b.trackers[id]
	return t, ok
}
