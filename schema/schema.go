package schema

// ============================================================================
// SCHEMA — Maps dataset headers onto launch record fields
// ============================================================================
// The loader asks the schema which column holds which field. Header names
// can be overridden from config; otherwise every field is matched against
// its default header and a list of aliases after snake-case normalisation.
// ============================================================================

// Field identifies one launch record attribute.
type Field string

const (
	FieldFlightNumber           Field = "flight_number"
	FieldLaunchSite             Field = "launch_site"
	FieldPayloadMassKg          Field = "payload_mass_kg"
	FieldClass                  Field = "class"
	FieldBoosterVersion         Field = "booster_version"
	FieldBoosterVersionCategory Field = "booster_version_category"
)

// FieldMeta describes how a field is found in a header row.
type FieldMeta struct {
	Field       Field    `json:"field" yaml:"field"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Header      string   `json:"header,omitempty" yaml:"header,omitempty"` // exact header override
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Required    bool     `json:"required" yaml:"required"`
	Numeric     bool     `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// Columns is the full field → header mapping for a dataset.
type Columns struct {
	Fields []FieldMeta `json:"fields" yaml:"fields"`
}

// SkippedColumn records a header that maps to no field.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// DefaultColumns returns the mapping for the SpaceX launch dashboard export
// (spacex_launch_dash.csv).
func DefaultColumns() Columns {
	return Columns{Fields: []FieldMeta{
		{
			Field:       FieldFlightNumber,
			DisplayName: "Flight Number",
			Aliases:     []string{"flight", "flight_no"},
			Numeric:     true,
		},
		{
			Field:       FieldLaunchSite,
			DisplayName: "Launch Site",
			Aliases:     []string{"site"},
			Required:    true,
		},
		{
			Field:       FieldPayloadMassKg,
			DisplayName: "Payload Mass (kg)",
			Aliases:     []string{"payload_mass", "payload_kg", "payload"},
			Required:    true,
			Numeric:     true,
		},
		{
			Field:       FieldClass,
			DisplayName: "class",
			Aliases:     []string{"outcome_class", "outcome"},
			Required:    true,
			Numeric:     true,
		},
		{
			Field:       FieldBoosterVersion,
			DisplayName: "Booster Version",
		},
		{
			Field:       FieldBoosterVersionCategory,
			DisplayName: "Booster Version Category",
			Aliases:     []string{"booster_category"},
			Required:    true,
		},
	}}
}

// WithHeaders returns a copy of c with exact header overrides applied.
// Unknown fields are ignored; empty values keep the default matching.
func (c Columns) WithHeaders(overrides map[Field]string) Columns {
	out := Columns{Fields: make([]FieldMeta, len(c.Fields))}
	copy(out.Fields, c.Fields)
	for i, f := range out.Fields {
		if h := overrides[f.Field]; h != "" {
			out.Fields[i].Header = h
		}
	}
	return out
}

// Meta returns the metadata for a field.
func (c Columns) Meta(f Field) (FieldMeta, bool) {
	for _, m := range c.Fields {
		if m.Field == f {
			return m, true
		}
	}
	return FieldMeta{}, false
}

// RequiredFields returns the keys of all required fields.
func (c Columns) RequiredFields() []Field {
	var out []Field
	for _, m := range c.Fields {
		if m.Required {
			out = append(out, m.Field)
		}
	}
	return out
}
