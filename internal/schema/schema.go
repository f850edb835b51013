// Package schema defines the fixed metadata taxonomy tracked by the
// statistics engine: which fields exist, whether they are mandatory,
// recommended or optional, and which subfields (with their permitted
// categorical values) are tracked inside composite fields.
//
// The taxonomy is static. Subfield handling is driven by a table of
// per-subfield extractor functions, so adding a subfield means adding a
// table entry, not editing a branch chain.
package schema

// FieldStatus classifies a field for category rollups.
type FieldStatus string

const (
	Mandatory   FieldStatus = "mandatory"
	Recommended FieldStatus = "recommended"
	Optional    FieldStatus = "optional"
)

// OtherValue is the sentinel bucket for unrecognized categorical values in
// enumerations that define it.
const OtherValue = "Other"

// Observation is what an Extractor reports for one occurrence of a
// composite field: whether the subfield is exposed by that occurrence, how
// many times it appears within it, and the categorical values observed.
type Observation struct {
	Present   bool
	Instances int
	Values    []string
}

// Extractor pulls one subfield out of a single occurrence: one list element
// for repeatable fields, the composite value itself for singular fields.
type Extractor func(occ map[string]any) Observation

// SubfieldSpec describes one tracked subfield of a composite field.
// Values is the enumeration of permitted categorical values; a nil Values
// slice means the subfield is tracked for presence only.
type SubfieldSpec struct {
	Name    string
	Values  []string
	Extract Extractor

	valueSet map[string]bool
}

// Enumerated reports whether the subfield has a categorical value breakdown.
func (s SubfieldSpec) Enumerated() bool { return len(s.Values) > 0 }

// Member reports whether v belongs to the enumeration.
func (s SubfieldSpec) Member(v string) bool { return s.valueSet[v] }

// HasOther reports whether the enumeration defines the "Other" sentinel.
func (s SubfieldSpec) HasOther() bool { return s.valueSet[OtherValue] }

// FieldSpec describes one tracked field: its name, status, and (for
// composite fields) the subfield taxonomy. Repeatable composite fields
// contribute one occurrence per list element; singular composites contribute
// at most one occurrence per record.
type FieldSpec struct {
	Name       string
	Status     FieldStatus
	Repeatable bool
	Subfields  []SubfieldSpec
}

// Tracked reports whether the field carries subfield statistics.
func (f FieldSpec) Tracked() bool { return len(f.Subfields) > 0 }

// Schema is the full fixed taxonomy.
type Schema struct {
	Fields []FieldSpec
}

// Field returns the spec for the named field.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ResourceTypes returns the permitted resourceTypeGeneral values, which
// double as the per-resource-type breakdown keys.
func (s Schema) ResourceTypes() []string {
	f, ok := s.Field("resourceType")
	if !ok {
		return nil
	}
	for _, sub := range f.Subfields {
		if sub.Name == "resourceTypeGeneral" {
			out := make([]string, len(sub.Values))
			copy(out, sub.Values)
			return out
		}
	}
	return nil
}

func finalize(s Schema) Schema {
	for i := range s.Fields {
		for j := range s.Fields[i].Subfields {
			sub := &s.Fields[i].Subfields[j]
			sub.valueSet = make(map[string]bool, len(sub.Values))
			for _, v := range sub.Values {
				sub.valueSet[v] = true
			}
		}
	}
	return s
}
