package stats

// Merge combines two trees that partition a record set and returns a fresh
// tree; neither input is mutated. Counts sum field-wise and value-wise over
// the union of keys, and every derived value is recomputed against the
// merged record count. Merge is associative and commutative, so partial
// results may be reduced in any order.
func Merge(a, b *Tree) *Tree {
	if a == nil {
		return cloneTree(b)
	}
	if b == nil {
		return cloneTree(a)
	}

	out := &Tree{
		RecordCount: a.RecordCount + b.RecordCount,
		Fields:      make(map[string]*FieldStats, len(a.Fields)),
	}

	for name := range unionKeys(a.Fields, b.Fields) {
		fa := a.Fields[name]
		fb := b.Fields[name]
		out.Fields[name] = mergeField(fa, fb)
	}

	out.Recalculate()
	return out
}

func mergeField(a, b *FieldStats) *FieldStats {
	if a == nil {
		a = &FieldStats{Status: b.Status}
	}
	if b == nil {
		b = &FieldStats{Status: a.Status}
	}

	out := &FieldStats{
		Count:     a.Count + b.Count,
		Instances: a.Instances + b.Instances,
		Status:    a.Status,
	}
	if out.Status == "" {
		out.Status = b.Status
	}

	if a.Subfields == nil && b.Subfields == nil {
		return out
	}
	out.Subfields = make(map[string]*SubfieldStats)
	for name := range unionKeys(a.Subfields, b.Subfields) {
		out.Subfields[name] = mergeSubfield(a.Subfields[name], b.Subfields[name])
	}
	return out
}

func mergeSubfield(a, b *SubfieldStats) *SubfieldStats {
	if a == nil {
		a = &SubfieldStats{}
	}
	if b == nil {
		b = &SubfieldStats{}
	}

	out := &SubfieldStats{
		Count:     a.Count + b.Count,
		Instances: a.Instances + b.Instances,
	}
	if a.Values == nil && b.Values == nil {
		return out
	}
	out.Values = make(map[string]int)
	for v := range unionKeys(a.Values, b.Values) {
		out.Values[v] = a.Values[v] + b.Values[v]
	}
	return out
}

// MergeEntity lifts Merge to EntityTree: summaries merge directly, and the
// per-resource-type maps merge key-wise, with types present on only one
// side merged against an empty zero-record tree.
func MergeEntity(a, b *EntityTree) *EntityTree {
	if a == nil {
		return cloneEntity(b)
	}
	if b == nil {
		return cloneEntity(a)
	}

	types := make(map[string]*Tree)
	for rt := range unionKeys(a.ByResourceType.Types, b.ByResourceType.Types) {
		types[rt] = Merge(a.ByResourceType.Types[rt], b.ByResourceType.Types[rt])
	}
	return &EntityTree{
		Summary:        Merge(a.Summary, b.Summary),
		ByResourceType: ResourceTypes{Types: types},
	}
}

func unionKeys[V any](a, b map[string]V) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}

func cloneTree(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		RecordCount: t.RecordCount,
		Fields:      make(map[string]*FieldStats, len(t.Fields)),
		Categories:  t.Categories,
	}
	for name, fs := range t.Fields {
		cp := *fs
		if fs.Subfields != nil {
			cp.Subfields = make(map[string]*SubfieldStats, len(fs.Subfields))
			for sname, ss := range fs.Subfields {
				sub := *ss
				if ss.Values != nil {
					sub.Values = make(map[string]int, len(ss.Values))
					for v, n := range ss.Values {
						sub.Values[v] = n
					}
				}
				cp.Subfields[sname] = &sub
			}
		}
		out.Fields[name] = &cp
	}
	return out
}

func cloneEntity(e *EntityTree) *EntityTree {
	if e == nil {
		return nil
	}
	types := make(map[string]*Tree, len(e.ByResourceType.Types))
	for rt, t := range e.ByResourceType.Types {
		types[rt] = cloneTree(t)
	}
	return &EntityTree{
		Summary:        cloneTree(e.Summary),
		ByResourceType: ResourceTypes{Types: types},
	}
}
