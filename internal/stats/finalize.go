package stats

import "math"

// completenessPrecision is the number of decimal digits kept on every
// completeness ratio for stable serialization.
const completenessPrecision = 4

// Finalize prepares an entity tree for output: resource types with no
// records and value-map entries that never occurred are pruned, and every
// completeness ratio is rounded.
func (e *EntityTree) Finalize() {
	for rt, t := range e.ByResourceType.Types {
		if t.RecordCount == 0 {
			delete(e.ByResourceType.Types, rt)
		}
	}
	pruneValues(e.Summary)
	roundTree(e.Summary)
	for _, t := range e.ByResourceType.Types {
		pruneValues(t)
		roundTree(t)
	}
}

func pruneValues(t *Tree) {
	for _, fs := range t.Fields {
		for _, ss := range fs.Subfields {
			for v, n := range ss.Values {
				if n == 0 {
					delete(ss.Values, v)
				}
			}
		}
	}
}

func roundTree(t *Tree) {
	for _, fs := range t.Fields {
		fs.Completeness = round(fs.Completeness)
		for _, ss := range fs.Subfields {
			ss.Completeness = round(ss.Completeness)
		}
	}
	t.Categories.Mandatory.Completeness = round(t.Categories.Mandatory.Completeness)
	t.Categories.Recommended.Completeness = round(t.Categories.Recommended.Completeness)
	t.Categories.Optional.Completeness = round(t.Categories.Optional.Completeness)
}

func round(x float64) float64 {
	shift := math.Pow10(completenessPrecision)
	return math.Round(x*shift) / shift
}
