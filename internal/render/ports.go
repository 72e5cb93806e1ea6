package render

import (
	"context"

	"dashgen/internal/core"
)

// Renderer is the port for the rendering target. It is invoked exactly once
// per build, with the complete ordered row set; style hints (freeze, header
// emphasis) are applied by the implementation and never interpreted by the
// engine.
type Renderer interface {
	Render(ctx context.Context, rows []core.LayoutRow) error
}
