package stats

import (
	"log/slog"

	"metahealth/internal/schema"
)

// Update folds one normalized record into the tree. fields maps canonical
// field names to their decoded JSON values. The tree is mutated in place
// and all derived values are recomputed before returning.
func (t *Tree) Update(s schema.Schema, fields map[string]any) {
	t.RecordCount++
	for _, spec := range s.Fields {
		value := fields[spec.Name]
		if !present(value) {
			continue
		}
		fs := t.Fields[spec.Name]
		fs.Count++

		if !spec.Tracked() {
			fs.Instances += instanceCount(value)
			continue
		}
		t.updateSubfields(spec, fs, value)
	}
	t.Recalculate()
}

// updateSubfields applies the subfield extractor table to every occurrence
// of a composite field. A subfield's count advances at most once per
// record; its instances advance once per occurrence exposing it.
func (t *Tree) updateSubfields(spec schema.FieldSpec, fs *FieldStats, value any) {
	occs, n, ok := occurrences(spec, value)
	if !ok {
		slog.Warn("unexpected field shape, skipping subfield stats",
			slog.String("field", spec.Name))
		return
	}
	fs.Instances += n

	seen := make(map[string]bool, len(spec.Subfields))
	for _, occ := range occs {
		for _, sub := range spec.Subfields {
			obs := sub.Extract(occ)
			if !obs.Present {
				continue
			}
			ss := fs.Subfields[sub.Name]
			if !seen[sub.Name] {
				ss.Count++
				seen[sub.Name] = true
			}
			ss.Instances += obs.Instances
			if !sub.Enumerated() {
				continue
			}
			for _, v := range obs.Values {
				switch {
				case sub.Member(v):
					ss.Values[v]++
				case sub.HasOther():
					ss.Values[schema.OtherValue]++
				}
				// Unrecognized values in enumerations without an
				// "Other" bucket stay out of the value map; presence
				// was already counted above.
			}
		}
	}
}

// occurrences splits a composite field value into its occurrence maps and
// the parent instance increment. Repeatable fields contribute one
// occurrence per list element (instances advance by the full list length,
// including non-object elements); singular composites contribute exactly
// one. ok is false when the value has an unexpected shape.
func occurrences(spec schema.FieldSpec, value any) (occs []map[string]any, instances int, ok bool) {
	if spec.Repeatable {
		list, isList := value.([]any)
		if !isList {
			return nil, 0, false
		}
		for _, item := range list {
			if m, isMap := item.(map[string]any); isMap {
				occs = append(occs, m)
			}
		}
		return occs, len(list), true
	}

	m, isMap := value.(map[string]any)
	if !isMap {
		return nil, 0, false
	}
	return []map[string]any{m}, 1, true
}

// present reports whether a decoded JSON value counts as a non-empty field:
// a non-empty list, object or string, or a non-zero number.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

// instanceCount is the occurrence count for fields without subfield
// tracking: list length for lists, 1 otherwise.
func instanceCount(v any) int {
	if list, ok := v.([]any); ok {
		return len(list)
	}
	return 1
}

// Update folds one record into an entity's summary tree and, when
// the record's resource type is recognized, into that type's tree.
func (e *EntityTree) Update(s schema.Schema, fields map[string]any, resourceType string) {
	e.Summary.Update(s, fields)
	if rt, ok := e.ByResourceType.Types[resourceType]; ok {
		rt.Update(s, fields)
	}
}
