package report

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"dashgen/internal/aggregate"
	"dashgen/internal/cache"
	"dashgen/internal/config"
	"dashgen/internal/core"
	ledgermemory "dashgen/internal/ledger/memory"
	rendermemory "dashgen/internal/render/memory"
)

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) GetValue(_ context.Context, key, defaultValue string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakeSettings) SetValue(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes int
	failures  []string
}

func (f *fakeNotifier) BuildSucceeded(_ context.Context, _ int, _ int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes++
}

func (f *fakeNotifier) BuildFailed(_ context.Context, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, message)
}

func testConfig() *config.Config {
	return &config.Config{
		Year:             2024,
		Sections:         config.DefaultSections(),
		LedgerSheetName:  "Transactions",
		SharedFlagColumn: "P",
	}
}

func testLedgerRows() [][]string {
	return [][]string{
		{"Date", "Type", "Category", "Sub-Category", "Amount", "Shared"},
		{"2024-01-15", "Income", "Salary", "", "2000.00", ""},
		{"2024-01-10", "Essentials", "Food", "Groceries", "-50.00", "true"},
		{"2024-02-12", "Essentials", "Food", "Restaurants", "-30.00", ""},
	}
}

func newTestOrchestrator(cacheEnabled bool, settings Settings, notifier Notifier) (*Orchestrator, *rendermemory.Recorder) {
	store := cache.NewStore(cacheEnabled, time.Minute, nil, aggregate.KnownCacheKeys(), nil)
	renderer := rendermemory.New()
	o := NewOrchestrator(
		testConfig(),
		store,
		ledgermemory.New(testLedgerRows()),
		aggregate.New(store, time.Minute),
		renderer,
		settings,
		notifier,
		nil,
		nil,
	)
	return o, renderer
}

func TestBuildEndToEnd(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	o, renderer := newTestOrchestrator(true, newFakeSettings(), notifier)

	if err := o.Build(ctx); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if renderer.Renders() != 1 {
		t.Fatalf("renders = %d, want exactly one hand-off", renderer.Renders())
	}
	if notifier.successes != 1 || len(notifier.failures) != 0 {
		t.Fatalf("notifier: successes=%d failures=%v", notifier.successes, notifier.failures)
	}

	labels := make(map[string]bool)
	for _, r := range renderer.Rows() {
		labels[r.Label] = true
	}
	// Toggle defaults to off, so subcategories are collapsed.
	for _, want := range []string{"Income", "Salary", "Total Income", "Essentials", "Food", "Total Essentials", "Total Expenses", "Net Income"} {
		if !labels[want] {
			t.Errorf("missing row %q in rendered layout", want)
		}
	}
	if labels["Food / Groceries"] {
		t.Error("subcategory detail rendered with the toggle off")
	}
}

func TestBuildUnconfiguredTypesOnly(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	store := cache.NewStore(true, time.Minute, nil, aggregate.KnownCacheKeys(), nil)
	renderer := rendermemory.New()
	source := ledgermemory.New([][]string{
		{"Date", "Type", "Category", "Sub-Category", "Amount", "Shared"},
		{"2024-01-10", "Hobby", "Models", "", "-20.00", ""},
	})
	o := NewOrchestrator(testConfig(), store, source, aggregate.New(store, time.Minute), renderer, newFakeSettings(), notifier, nil, nil)

	if err := o.Build(ctx); err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows := renderer.Rows()
	if len(rows) != 1 || rows[0].Kind != core.RowHeader {
		t.Fatalf("rendered %d rows, want just the header for a ledger of unconfigured types", len(rows))
	}
	if notifier.successes != 1 || len(notifier.failures) != 0 {
		t.Fatalf("notifier: successes=%d failures=%v", notifier.successes, notifier.failures)
	}
}

func TestBuildCacheEquivalence(t *testing.T) {
	ctx := context.Background()

	warm, warmRenderer := newTestOrchestrator(true, newFakeSettings(), nil)
	cold, coldRenderer := newTestOrchestrator(false, newFakeSettings(), nil)

	// Prime the warm caches, then build again so the second pass hits them.
	if err := warm.Build(ctx); err != nil {
		t.Fatalf("warm prime: %v", err)
	}
	if err := warm.Build(ctx); err != nil {
		t.Fatalf("warm build: %v", err)
	}
	if err := cold.Build(ctx); err != nil {
		t.Fatalf("cold build: %v", err)
	}

	if !reflect.DeepEqual(warmRenderer.Rows(), coldRenderer.Rows()) {
		t.Fatal("cached and uncached builds rendered different layouts")
	}
}

func TestBuildStructureError(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	store := cache.NewStore(true, time.Minute, nil, aggregate.KnownCacheKeys(), nil)
	renderer := rendermemory.New()
	source := ledgermemory.New([][]string{
		{"Date", "Description", "Value"}, // Type, Category, Amount missing
		{"2024-01-15", "whatever", "12.00"},
	})
	o := NewOrchestrator(testConfig(), store, source, aggregate.New(store, time.Minute), renderer, newFakeSettings(), notifier, nil, nil)

	err := o.Build(ctx)
	if err == nil {
		t.Fatal("Build succeeded with a malformed header")
	}
	var structErr *core.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *core.StructureError", err)
	}
	if len(structErr.Missing) != 3 {
		t.Fatalf("Missing = %v, want Type, Category and Amount", structErr.Missing)
	}
	if renderer.Renders() != 0 {
		t.Error("renderer must not be reached when structure validation fails")
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("failures = %v, want one failure notification", notifier.failures)
	}
}

func TestOnPreferenceToggled(t *testing.T) {
	ctx := context.Background()
	settings := newFakeSettings()
	o, renderer := newTestOrchestrator(true, settings, nil)

	if err := o.OnPreferenceToggled(ctx, true); err != nil {
		t.Fatalf("OnPreferenceToggled: %v", err)
	}
	if settings.values[ShowSubCategoriesKey] != "true" {
		t.Fatalf("persisted preference = %q, want %q", settings.values[ShowSubCategoriesKey], "true")
	}
	if renderer.Renders() != 1 {
		t.Fatalf("renders = %d, want a rebuild after the toggle", renderer.Renders())
	}

	labels := make(map[string]bool)
	for _, r := range renderer.Rows() {
		labels[r.Label] = true
	}
	if !labels["Food / Groceries"] || !labels["Food / Restaurants"] {
		t.Error("subcategory detail missing after toggling the preference on")
	}

	if err := o.OnPreferenceToggled(ctx, false); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	labels = make(map[string]bool)
	for _, r := range renderer.Rows() {
		labels[r.Label] = true
	}
	if labels["Food / Groceries"] {
		t.Error("subcategory detail still rendered after toggling off")
	}
}

func TestOnPreferenceToggledPersistFailure(t *testing.T) {
	ctx := context.Background()
	settings := newFakeSettings()
	settings.err = errors.New("settings store down")
	o, renderer := newTestOrchestrator(true, settings, nil)

	if err := o.OnPreferenceToggled(ctx, true); err == nil {
		t.Fatal("toggle succeeded with a failing settings store")
	}
	if renderer.Renders() != 0 {
		t.Error("build must not run when persisting the preference fails")
	}
}
