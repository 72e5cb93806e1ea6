// Package report drives the full overview build pipeline: invalidate caches,
// read the ledger, derive combinations, lay out the grid, and hand the
// complete row set to the renderer in a single call.
package report

import (
	"context"
	"fmt"
	"time"

	"dashgen/internal/aggregate"
	"dashgen/internal/cache"
	"dashgen/internal/config"
	"dashgen/internal/core"
	"dashgen/internal/layout"
	"dashgen/internal/ledger"
	"dashgen/internal/log"
	"dashgen/internal/render"
)

// Orchestrator owns the fixed pipeline order. It is synchronous and single
// threaded; a build either completes with one renderer hand-off or returns
// an error with no partial layout handed over.
type Orchestrator struct {
	cfg        *config.Config
	cache      *cache.Store
	source     ledger.Source
	aggregator *aggregate.Aggregator
	renderer   render.Renderer
	settings   Settings
	notifier   Notifier
	analyzer   Analyzer
	logger     *log.Logger
}

func NewOrchestrator(
	cfg *config.Config,
	store *cache.Store,
	source ledger.Source,
	aggregator *aggregate.Aggregator,
	renderer render.Renderer,
	settings Settings,
	notifier Notifier,
	analyzer Analyzer,
	logger *log.Logger,
) *Orchestrator {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Orchestrator{
		cfg:        cfg,
		cache:      store,
		source:     source,
		aggregator: aggregator,
		renderer:   renderer,
		settings:   settings,
		notifier:   notifier,
		analyzer:   analyzer,
		logger:     logger.WithComponent(log.ComponentOrchestrator),
	}
}

// Build runs the full pipeline. Caches are invalidated up front so a rebuild
// always reflects the freshest ledger state; structure validation gates all
// aggregation work. Errors are logged, reported through the notifier with
// the original message, and returned for the caller's own fallback.
func (o *Orchestrator) Build(ctx context.Context) error {
	if err := o.build(ctx); err != nil {
		o.logger.ErrorContext(ctx, "Overview build failed",
			log.NewBuildFields().WithOperation(log.OpBuild).WithError(err).ToSlice()...)
		if o.notifier != nil {
			o.notifier.BuildFailed(ctx, err.Error())
		}
		return err
	}

	return nil
}

func (o *Orchestrator) build(ctx context.Context) error {
	start := time.Now()

	o.cache.InvalidateAll(ctx)
	o.logger.InfoContext(ctx, "Caches invalidated", log.FieldOperation, log.OpInvalidate)

	rows, err := o.source.GetAllRows(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("read ledger: %w", core.ErrNoRows)
	}

	cols, err := ledger.ResolveColumns(rows[0])
	if err != nil {
		return err
	}
	records := ledger.Records(rows, cols)

	showSub, err := o.showSubCategories(ctx)
	if err != nil {
		return fmt.Errorf("read preference: %w", err)
	}

	combos, err := o.aggregator.UniqueCombinations(ctx, records, showSub)
	if err != nil {
		return fmt.Errorf("derive combinations: %w", err)
	}
	groups, err := o.aggregator.GroupByType(ctx, combos)
	if err != nil {
		return fmt.Errorf("group combinations: %w", err)
	}

	layoutRows, err := layout.Build(layout.Params{
		Year:              o.cfg.Year,
		Sections:          o.cfg.Sections,
		Groups:            groups,
		Columns:           cols,
		LedgerSheet:       o.cfg.LedgerSheetName,
		ShowSubCategories: showSub,
		SharedFlagColumn:  o.cfg.SharedFlagColumn,
	})
	if err != nil {
		return fmt.Errorf("build layout: %w", err)
	}

	// Single hand-off with the complete row set.
	if err := o.renderer.Render(ctx, layoutRows); err != nil {
		return fmt.Errorf("render overview: %w", err)
	}

	durationMs := time.Since(start).Milliseconds()
	o.logger.InfoContext(ctx, "Overview build completed",
		log.NewBuildFields().
			WithOperation(log.OpBuild).
			WithLayout(len(layoutRows), len(groups.Order)).
			WithPreference(showSub).
			WithOutcome(durationMs, true).
			ToSlice()...)

	if o.notifier != nil {
		o.notifier.BuildSucceeded(ctx, len(layoutRows), durationMs)
	}

	if o.analyzer != nil {
		if err := o.analyzer.Analyze(ctx); err != nil {
			// Downstream analysis is best-effort; the build itself succeeded.
			o.logger.WarnContext(ctx, "Downstream analysis failed", log.FieldError, err.Error())
		}
	}

	return nil
}

// OnPreferenceToggled persists the new subcategory-visibility preference and
// rebuilds synchronously. Other preference edits never reach this method.
func (o *Orchestrator) OnPreferenceToggled(ctx context.Context, newValue bool) error {
	if err := o.settings.SetValue(ctx, ShowSubCategoriesKey, FormatBool(newValue)); err != nil {
		return fmt.Errorf("persist preference: %w", err)
	}
	o.logger.InfoContext(ctx, "Subcategory preference toggled",
		log.FieldOperation, log.OpToggle,
		log.FieldShowSub, newValue)
	return o.Build(ctx)
}

func (o *Orchestrator) showSubCategories(ctx context.Context) (bool, error) {
	if o.settings == nil {
		return false, nil
	}
	raw, err := o.settings.GetValue(ctx, ShowSubCategoriesKey, FormatBool(false))
	if err != nil {
		return false, err
	}
	return CoerceBool(raw, false), nil
}
