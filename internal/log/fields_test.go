package log

import (
	"errors"
	"testing"
)

func TestBuildFields(t *testing.T) {
	fields := NewBuildFields().
		WithOperation(OpBuild).
		WithLayout(42, 4).
		WithPreference(true).
		WithOutcome(120, true)

	want := map[string]any{
		FieldOperation: OpBuild,
		FieldRowCount:  42,
		FieldTypeCount: 4,
		FieldShowSub:   true,
		FieldDuration:  int64(120),
		FieldSuccess:   true,
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}

	slice := fields.ToSlice()
	if len(slice) != len(want)*2 {
		t.Fatalf("ToSlice length = %d, want %d", len(slice), len(want)*2)
	}
	for i := 0; i < len(slice); i += 2 {
		key, ok := slice[i].(string)
		if !ok {
			t.Fatalf("slice[%d] = %v, want a field name", i, slice[i])
		}
		if slice[i+1] != want[key] {
			t.Errorf("ToSlice pair %q = %v, want %v", key, slice[i+1], want[key])
		}
	}
}

func TestBuildFieldsWithError(t *testing.T) {
	if f := NewBuildFields().WithError(nil); len(f) != 0 {
		t.Fatalf("nil error must add nothing, got %v", f)
	}
	f := NewBuildFields().WithError(errors.New("ledger unreachable"))
	if f[FieldError] != "ledger unreachable" {
		t.Fatalf("fields[%q] = %v", FieldError, f[FieldError])
	}
}
