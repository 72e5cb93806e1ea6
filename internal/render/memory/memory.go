package memory

import (
	"context"
	"sync"

	"dashgen/internal/core"
	"dashgen/internal/render"
)

// Recorder is an in-memory renderer. It keeps the last handed-off row set;
// used as the dry-run backend and as the test double.
type Recorder struct {
	mu      sync.Mutex
	rows    []core.LayoutRow
	renders int
}

var _ render.Renderer = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{}
}

// Render records the complete row set, replacing any previous one.
func (r *Recorder) Render(_ context.Context, rows []core.LayoutRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]core.LayoutRow(nil), rows...)
	r.renders++
	return nil
}

// Rows returns a copy of the last rendered row set.
func (r *Recorder) Rows() []core.LayoutRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.LayoutRow(nil), r.rows...)
}

// Renders returns how many times Render was called.
func (r *Recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}
