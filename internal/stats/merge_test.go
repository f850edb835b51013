package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"metahealth/internal/schema"
)

var sampleRecords = []map[string]any{
	{
		"identifier": "10.5072/a",
		"titles":     []any{map[string]any{"title": "A"}},
		"creators": []any{
			map[string]any{"nameType": "Personal"},
		},
		"resourceType": map[string]any{"resourceTypeGeneral": "Dataset"},
	},
	{
		"identifier": "10.5072/b",
		"contributors": []any{
			map[string]any{"contributorType": "Editor"},
		},
	},
	{
		"titles":       []any{map[string]any{"title": "C"}},
		"resourceType": map[string]any{"resourceTypeGeneral": "Software"},
		"fundingReferences": []any{
			map[string]any{"funderName": "DFG", "funderIdentifierType": "ROR"},
		},
	},
	{
		"identifier": "10.5072/d",
		"titles":     []any{map[string]any{"title": "D"}, map[string]any{"title": "D2"}},
	},
	{
		"resourceType": map[string]any{"resourceTypeGeneral": "Dataset"},
		"relatedIdentifiers": []any{
			map[string]any{"relationType": "Cites", "relatedIdentifierType": "DOI"},
		},
	},
}

func treeOf(s schema.Schema, records ...map[string]any) *Tree {
	t := NewTree(s)
	for _, r := range records {
		t.Update(s, r)
	}
	return t
}

func TestMerge_EqualsDirectProcessing(t *testing.T) {
	s := schema.Default()

	direct := treeOf(s, sampleRecords...)
	left := treeOf(s, sampleRecords[:2]...)
	right := treeOf(s, sampleRecords[2:]...)
	merged := Merge(left, right)

	if diff := cmp.Diff(direct, merged); diff != "" {
		t.Errorf("merge of partition differs from direct processing (-direct +merged):\n%s", diff)
	}
}

func TestMerge_AssociativeCommutative(t *testing.T) {
	s := schema.Default()

	a := treeOf(s, sampleRecords[0], sampleRecords[1])
	b := treeOf(s, sampleRecords[2])
	c := treeOf(s, sampleRecords[3], sampleRecords[4])

	leftAssoc := Merge(Merge(a, b), c)
	rightAssoc := Merge(a, Merge(b, c))
	reordered := Merge(c, Merge(b, a))

	if diff := cmp.Diff(leftAssoc, rightAssoc); diff != "" {
		t.Errorf("merge is not associative:\n%s", diff)
	}
	if diff := cmp.Diff(leftAssoc, reordered); diff != "" {
		t.Errorf("merge is not commutative:\n%s", diff)
	}
}

func TestMerge_EmptyIsIdentity(t *testing.T) {
	s := schema.Default()
	tree := treeOf(s, sampleRecords...)

	merged := Merge(tree, NewTree(s))
	if diff := cmp.Diff(tree, merged); diff != "" {
		t.Errorf("merging with an empty tree changed the result:\n%s", diff)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	s := schema.Default()
	a := treeOf(s, sampleRecords[0])
	b := treeOf(s, sampleRecords[1])

	aBefore := cloneTree(a)
	bBefore := cloneTree(b)
	_ = Merge(a, b)

	if diff := cmp.Diff(aBefore, a); diff != "" {
		t.Errorf("merge mutated its first input:\n%s", diff)
	}
	if diff := cmp.Diff(bBefore, b); diff != "" {
		t.Errorf("merge mutated its second input:\n%s", diff)
	}
}

func TestMerge_DenominatorConsistency(t *testing.T) {
	s := schema.Default()
	merged := Merge(treeOf(s, sampleRecords[:3]...), treeOf(s, sampleRecords[3:]...))

	if merged.RecordCount != len(sampleRecords) {
		t.Fatalf("RecordCount = %d, want %d", merged.RecordCount, len(sampleRecords))
	}
	for name, fs := range merged.Fields {
		if fs.Count+fs.Missing != merged.RecordCount {
			t.Errorf("field %s: count+missing != records", name)
		}
		if want := ratio(fs.Count, merged.RecordCount); fs.Completeness != want {
			t.Errorf("field %s: completeness = %f, want %f", name, fs.Completeness, want)
		}
		for sname, ss := range fs.Subfields {
			if ss.Count+ss.Missing != merged.RecordCount {
				t.Errorf("subfield %s.%s: count+missing != records", name, sname)
			}
		}
	}
}

func TestMergeEntity_ResourceTypeUnion(t *testing.T) {
	s := schema.Default()

	a := NewEntityTree(s)
	a.Update(s, sampleRecords[0], "Dataset")

	b := NewEntityTree(s)
	b.Update(s, sampleRecords[2], "Software")
	b.Update(s, sampleRecords[4], "Dataset")

	merged := MergeEntity(a, b)
	if merged.Summary.RecordCount != 3 {
		t.Errorf("summary records = %d, want 3", merged.Summary.RecordCount)
	}
	if got := merged.ByResourceType.Types["Dataset"].RecordCount; got != 2 {
		t.Errorf("Dataset records = %d, want 2", got)
	}
	if got := merged.ByResourceType.Types["Software"].RecordCount; got != 1 {
		t.Errorf("Software records = %d, want 1", got)
	}

	// Direct processing over the union must agree with the merge.
	direct := NewEntityTree(s)
	direct.Update(s, sampleRecords[0], "Dataset")
	direct.Update(s, sampleRecords[2], "Software")
	direct.Update(s, sampleRecords[4], "Dataset")
	if diff := cmp.Diff(direct, merged); diff != "" {
		t.Errorf("entity merge differs from direct processing:\n%s", diff)
	}
}

func TestMergeEntity_OneSidedResourceType(t *testing.T) {
	s := schema.Default()

	a := NewEntityTree(s)
	a.Update(s, sampleRecords[0], "Dataset")
	// Simulate a partial tree whose zero-count types were already pruned.
	b := NewEntityTree(s)
	b.Update(s, sampleRecords[2], "Software")
	b.Finalize()

	merged := MergeEntity(a, b)
	if got := merged.ByResourceType.Types["Dataset"].RecordCount; got != 1 {
		t.Errorf("Dataset records = %d, want 1", got)
	}
	if got := merged.ByResourceType.Types["Software"].RecordCount; got != 1 {
		t.Errorf("Software records = %d, want 1", got)
	}
}
