// Package stats implements the metadata-completeness statistics engine:
// the per-entity statistics tree, the per-record updater, and the pure
// merge used to reduce partial trees computed by parallel workers.
package stats

import "metahealth/internal/schema"

// SubfieldStats tracks presence of one subfield across records. Values is
// the per-categorical-value occurrence counter for enumerated subfields,
// nil for presence-only subfields.
type SubfieldStats struct {
	Count        int            `json:"count"`
	Instances    int            `json:"instances"`
	Missing      int            `json:"missing"`
	Completeness float64        `json:"completeness"`
	Values       map[string]int `json:"values,omitempty"`
}

// FieldStats tracks presence of one field across records. Count is the
// number of records where the field is non-empty; Instances is the total
// number of occurrences (equal to Count for singular fields).
type FieldStats struct {
	Count        int                       `json:"count"`
	Instances    int                       `json:"instances"`
	Status       schema.FieldStatus        `json:"fieldStatus"`
	Completeness float64                   `json:"completeness"`
	Missing      int                       `json:"missing"`
	Subfields    map[string]*SubfieldStats `json:"subfields,omitempty"`
}

// Category is the completeness rollup for one status class.
type Category struct {
	Completeness float64 `json:"completeness"`
}

// CategoryMetrics holds the per-status-class completeness rollups. Each is
// the average per-field fill rate within the class:
// sum of field counts / (records x fields in class).
type CategoryMetrics struct {
	Mandatory   Category `json:"mandatory"`
	Recommended Category `json:"recommended"`
	Optional    Category `json:"optional"`
}

// Tree is the statistics tree for one entity scope: either the all-records
// summary or one resource type.
type Tree struct {
	RecordCount int                    `json:"count"`
	Fields      map[string]*FieldStats `json:"fields"`
	Categories  CategoryMetrics        `json:"categories"`
}

// ResourceTypes wraps the per-resource-type breakdown map.
type ResourceTypes struct {
	Types map[string]*Tree `json:"resourceTypes"`
}

// EntityTree is the full statistics for one provider or client: the
// summary over all records plus one tree per resource type.
type EntityTree struct {
	Summary        *Tree         `json:"summary"`
	ByResourceType ResourceTypes `json:"byResourceType"`
}

// NewTree returns an empty tree for the schema: every field and subfield
// zeroed, and enumerated value maps pre-populated with every permitted
// value at zero so merges never need defensive key creation.
func NewTree(s schema.Schema) *Tree {
	fields := make(map[string]*FieldStats, len(s.Fields))
	for _, f := range s.Fields {
		fs := &FieldStats{Status: f.Status}
		if f.Tracked() {
			fs.Subfields = make(map[string]*SubfieldStats, len(f.Subfields))
			for _, sub := range f.Subfields {
				ss := &SubfieldStats{}
				if sub.Enumerated() {
					ss.Values = make(map[string]int, len(sub.Values))
					for _, v := range sub.Values {
						ss.Values[v] = 0
					}
				}
				fs.Subfields[sub.Name] = ss
			}
		}
		fields[f.Name] = fs
	}
	return &Tree{Fields: fields}
}

// NewEntityTree returns an empty EntityTree: a zeroed summary plus one
// zeroed tree per known resource type.
func NewEntityTree(s schema.Schema) *EntityTree {
	types := make(map[string]*Tree)
	for _, rt := range s.ResourceTypes() {
		types[rt] = NewTree(s)
	}
	return &EntityTree{
		Summary:        NewTree(s),
		ByResourceType: ResourceTypes{Types: types},
	}
}

// Recalculate recomputes every derived value (missing, completeness,
// category rollups) against the current record count. Derived values are
// never mutated independently.
func (t *Tree) Recalculate() {
	total := t.RecordCount
	for _, fs := range t.Fields {
		fs.Missing = total - fs.Count
		fs.Completeness = ratio(fs.Count, total)
		for _, ss := range fs.Subfields {
			ss.Missing = total - ss.Count
			ss.Completeness = ratio(ss.Count, total)
		}
	}
	t.Categories = categoryMetrics(t.Fields, total)
}

// categoryMetrics computes the per-status rollups over the full field set.
func categoryMetrics(fields map[string]*FieldStats, total int) CategoryMetrics {
	type acc struct{ count, numFields int }
	sums := map[schema.FieldStatus]*acc{
		schema.Mandatory:   {},
		schema.Recommended: {},
		schema.Optional:    {},
	}
	for _, fs := range fields {
		if a, ok := sums[fs.Status]; ok {
			a.numFields++
			a.count += fs.Count
		}
	}
	rollup := func(status schema.FieldStatus) Category {
		a := sums[status]
		return Category{Completeness: ratio(a.count, total*a.numFields)}
	}
	return CategoryMetrics{
		Mandatory:   rollup(schema.Mandatory),
		Recommended: rollup(schema.Recommended),
		Optional:    rollup(schema.Optional),
	}
}

// ratio divides count by total, returning 0.0 for an empty denominator.
func ratio(count, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return float64(count) / float64(total)
}
