package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// HEADER RESOLUTION
// ============================================================================
// Matching per field, first hit wins:
//   1. Exact header override (case-insensitive, trimmed)
//   2. Normalised display name
//   3. Normalised field key
//   4. Normalised aliases
// A header is claimed by at most one field. Unclaimed headers are reported
// as skipped.
// ============================================================================

// MissingColumnsError lists required fields that no header matched.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Index is a resolved header layout.
type Index struct {
	positions map[Field]int
	Skipped   []SkippedColumn
}

// Resolve maps headers onto fields.
func (c Columns) Resolve(headers []string) (*Index, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("dataset has no header row")
	}

	normalised := make([]string, len(headers))
	for i, h := range headers {
		normalised[i] = toSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	idx := &Index{positions: make(map[Field]int)}
	claimed := make(map[int]bool)

	for _, meta := range c.Fields {
		pos := -1
		if meta.Header != "" {
			pos = findHeader(headers, claimed, func(h string) bool {
				return strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(meta.Header))
			})
		} else {
			for _, candidate := range meta.candidates() {
				pos = findHeader(normalised, claimed, func(h string) bool { return h == candidate })
				if pos >= 0 {
					break
				}
			}
		}
		if pos >= 0 {
			idx.positions[meta.Field] = pos
			claimed[pos] = true
		}
	}

	var missing []string
	for _, meta := range c.Fields {
		if _, ok := idx.positions[meta.Field]; meta.Required && !ok {
			name := meta.DisplayName
			if meta.Header != "" {
				name = meta.Header
			}
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	for i, h := range headers {
		if !claimed[i] {
			idx.Skipped = append(idx.Skipped, SkippedColumn{Column: h, Reason: "not a launch record field"})
		}
	}
	return idx, nil
}

// Position returns the column index of a field.
func (ix *Index) Position(f Field) (int, bool) {
	pos, ok := ix.positions[f]
	return pos, ok
}

// Value returns the trimmed cell for a field, or "" when the field is not
// mapped or the row is short.
func (ix *Index) Value(row []string, f Field) string {
	pos, ok := ix.positions[f]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func (m FieldMeta) candidates() []string {
	out := []string{toSnakeCase(m.DisplayName), string(m.Field)}
	for _, a := range m.Aliases {
		out = append(out, toSnakeCase(a))
	}
	return out
}

func findHeader(headers []string, claimed map[int]bool, match func(string) bool) int {
	for i, h := range headers {
		if !claimed[i] && match(h) {
			return i
		}
	}
	return -1
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Payload Mass (kg)" or "launchSite" → "payload_mass_kg" / "launch_site".
func toSnakeCase(s string) string {
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune('_')
		}
		prev = r
	}

	s = result.String()
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
