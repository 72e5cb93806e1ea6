package report

import "context"

// Settings is the port for the external preference store. Only the
// subcategory-visibility boolean lives behind it.
type Settings interface {
	GetValue(ctx context.Context, key, defaultValue string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// Notifier is the fire-and-forget port for success/failure sinks. The
// engine consumes no return value from it.
type Notifier interface {
	BuildSucceeded(ctx context.Context, rowCount int, durationMs int64)
	BuildFailed(ctx context.Context, message string)
}

// Analyzer is the optional downstream analysis pass triggered after a
// successful hand-off.
type Analyzer interface {
	Analyze(ctx context.Context) error
}
