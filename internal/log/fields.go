package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldDuration  = "duration_ms"
	FieldSuccess   = "success"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldCacheKey  = "cache_key"
	FieldRowCount  = "row_count"
	FieldTypeCount = "type_count"
	FieldShowSub   = "show_subcategories"
)

// Components defines standard component names
const (
	ComponentApp          = "app"
	ComponentCache        = "cache"
	ComponentOrchestrator = "orchestrator"
)

// Operations defines standard operation names
const (
	OpBuild      = "build"
	OpInvalidate = "invalidate"
	OpToggle     = "toggle"
)

// BuildFields provides a builder pattern for build-scoped log fields
type BuildFields map[string]any

// NewBuildFields creates a new BuildFields instance
func NewBuildFields() BuildFields {
	return make(BuildFields)
}

// WithOperation adds the operation field
func (f BuildFields) WithOperation(op string) BuildFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field
func (f BuildFields) WithError(err error) BuildFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOutcome adds duration and success fields
func (f BuildFields) WithOutcome(durationMs int64, success bool) BuildFields {
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// WithLayout adds layout shape fields
func (f BuildFields) WithLayout(rowCount, typeCount int) BuildFields {
	f[FieldRowCount] = rowCount
	f[FieldTypeCount] = typeCount
	return f
}

// WithPreference adds the subcategory-visibility field
func (f BuildFields) WithPreference(showSubCategories bool) BuildFields {
	f[FieldShowSub] = showSubCategories
	return f
}

// ToSlice converts BuildFields to a slice for slog
func (f BuildFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
