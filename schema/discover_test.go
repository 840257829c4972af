package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// HEADER RESOLUTION TESTS
// ============================================================================

// Header row of the launch dataset export
var dashHeaders = []string{"Unnamed: 0", "Flight Number", "Launch Site", "class", "Payload Mass (kg)", "Booster Version", "Booster Version Category"}

func TestResolveDashboardHeaders(t *testing.T) {
	idx, err := DefaultColumns().Resolve(dashHeaders)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[Field]int{
		FieldFlightNumber:           1,
		FieldLaunchSite:             2,
		FieldClass:                  3,
		FieldPayloadMassKg:          4,
		FieldBoosterVersion:         5,
		FieldBoosterVersionCategory: 6,
	}
	for field, pos := range want {
		got, ok := idx.Position(field)
		if !ok || got != pos {
			t.Errorf("%s: position %d (found=%v), want %d", field, got, ok, pos)
		}
	}

	if diff := cmp.Diff([]SkippedColumn{{Column: "Unnamed: 0", Reason: "not a launch record field"}}, idx.Skipped); diff != "" {
		t.Errorf("skipped (-want +got):\n%s", diff)
	}
}

func TestResolveSnakeAndCamelHeaders(t *testing.T) {
	for _, headers := range [][]string{
		{"launch_site", "payload_mass_kg", "class", "booster_version_category"},
		{"launchSite", "payloadMassKg", "Class", "boosterVersionCategory"},
		{"\ufeffLaunch Site", " Payload Mass (kg) ", "outcome", "Booster Category"},
	} {
		idx, err := DefaultColumns().Resolve(headers)
		if err != nil {
			t.Errorf("%q: %v", headers, err)
			continue
		}
		if pos, _ := idx.Position(FieldPayloadMassKg); pos != 1 {
			t.Errorf("%q: payload at %d", headers, pos)
		}
		if _, ok := idx.Position(FieldFlightNumber); ok {
			t.Errorf("%q: optional flight number should be absent", headers)
		}
	}
}

func TestResolveMissingColumns(t *testing.T) {
	_, err := DefaultColumns().Resolve([]string{"Launch Site", "Booster Version"})

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	want := []string{"Payload Mass (kg)", "class", "Booster Version Category"}
	if diff := cmp.Diff(want, missing.Missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyHeader(t *testing.T) {
	if _, err := DefaultColumns().Resolve(nil); err == nil {
		t.Fatal("expected error for empty header row")
	}
}

func TestResolveHeaderOverride(t *testing.T) {
	cols := DefaultColumns().WithHeaders(map[Field]string{FieldLaunchSite: "Pad"})
	headers := []string{"Launch Site", "Pad", "Payload Mass (kg)", "class", "Booster Version Category"}

	idx, err := cols.Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pos, _ := idx.Position(FieldLaunchSite); pos != 1 {
		t.Errorf("override ignored: launch site at %d", pos)
	}
	if got := idx.Value([]string{"x", " SLC-40 ", "1", "0", "FT"}, FieldLaunchSite); got != "SLC-40" {
		t.Errorf("Value = %q", got)
	}
	if got := idx.Value([]string{"x"}, FieldClass); got != "" {
		t.Errorf("short row Value = %q", got)
	}

	// the default columns are untouched
	if m, _ := DefaultColumns().Meta(FieldLaunchSite); m.Header != "" {
		t.Errorf("WithHeaders mutated the receiver")
	}
}

func TestRequiredFields(t *testing.T) {
	want := []Field{FieldLaunchSite, FieldPayloadMassKg, FieldClass, FieldBoosterVersionCategory}
	if diff := cmp.Diff(want, DefaultColumns().RequiredFields()); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Payload Mass (kg)":        "payload_mass_kg",
		"Booster Version Category": "booster_version_category",
		"launchSite":               "launch_site",
		"Unnamed: 0":               "unnamed_0",
		"class":                    "class",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
