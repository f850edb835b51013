package stats

import (
	"testing"

	"metahealth/internal/schema"
)

func TestUpdate_ScalarAndListPresence(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	tree.Update(s, map[string]any{
		"identifier": "10.5072/example",
		"titles":     []any{map[string]any{"title": "A"}, map[string]any{"title": "B"}},
		"publisher":  "",
		"subjects":   []any{},
	})

	if tree.RecordCount != 1 {
		t.Fatalf("RecordCount = %d, want 1", tree.RecordCount)
	}
	if got := tree.Fields["identifier"]; got.Count != 1 || got.Instances != 1 {
		t.Errorf("identifier = %+v, want count=1 instances=1", got)
	}
	// Untracked list fields count instances per element.
	if got := tree.Fields["titles"]; got.Count != 1 || got.Instances != 2 {
		t.Errorf("titles = %+v, want count=1 instances=2", got)
	}
	// Empty string and empty list are absent.
	if got := tree.Fields["publisher"]; got.Count != 0 || got.Missing != 1 {
		t.Errorf("publisher = %+v, want count=0 missing=1", got)
	}
	if got := tree.Fields["subjects"]; got.Count != 0 {
		t.Errorf("subjects = %+v, want count=0", got)
	}
}

func TestUpdate_DerivedValuesAlwaysConsistent(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	tree.Update(s, map[string]any{"titles": []any{map[string]any{"title": "A"}}})
	tree.Update(s, map[string]any{"identifier": "10.5072/x"})
	tree.Update(s, map[string]any{})

	for name, fs := range tree.Fields {
		if fs.Count+fs.Missing != tree.RecordCount {
			t.Errorf("field %s: count %d + missing %d != records %d",
				name, fs.Count, fs.Missing, tree.RecordCount)
		}
		for sname, ss := range fs.Subfields {
			if ss.Count+ss.Missing != tree.RecordCount {
				t.Errorf("subfield %s.%s: count %d + missing %d != records %d",
					name, sname, ss.Count, ss.Missing, tree.RecordCount)
			}
		}
	}
	if got := tree.Fields["titles"].Completeness; got != 1.0/3.0 {
		t.Errorf("titles completeness = %f, want 1/3", got)
	}
}

func TestUpdate_CategoryRollup(t *testing.T) {
	// Synthetic two-field mandatory class: field A present in every record,
	// field B in half. Expected category completeness 0.75.
	s := schema.Schema{Fields: []schema.FieldSpec{
		{Name: "a", Status: schema.Mandatory},
		{Name: "b", Status: schema.Mandatory},
	}}
	tree := NewTree(s)

	tree.Update(s, map[string]any{"a": "x", "b": "y"})
	tree.Update(s, map[string]any{"a": "x"})
	tree.Update(s, map[string]any{"a": "x", "b": "y"})
	tree.Update(s, map[string]any{"a": "x"})

	if got := tree.Categories.Mandatory.Completeness; got != 0.75 {
		t.Errorf("mandatory completeness = %f, want 0.75", got)
	}
	if got := tree.Categories.Recommended.Completeness; got != 0.0 {
		t.Errorf("recommended completeness = %f, want 0.0 (no fields in class)", got)
	}
}

func TestUpdate_SubfieldCountOncePerRecord(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	// Three funding references, each exposing funderName: subfield count
	// advances by exactly 1, instances by 3.
	tree.Update(s, map[string]any{
		"fundingReferences": []any{
			map[string]any{"funderName": "DFG"},
			map[string]any{"funderName": "NSF"},
			map[string]any{"funderName": "ERC"},
		},
	})

	fr := tree.Fields["fundingReferences"]
	if fr.Count != 1 || fr.Instances != 3 {
		t.Errorf("fundingReferences = %+v, want count=1 instances=3", fr)
	}
	fn := fr.Subfields["funderName"]
	if fn.Count != 1 {
		t.Errorf("funderName count = %d, want 1", fn.Count)
	}
	if fn.Instances != 3 {
		t.Errorf("funderName instances = %d, want 3", fn.Instances)
	}
	if aw := fr.Subfields["awardNumber"]; aw.Count != 0 {
		t.Errorf("awardNumber count = %d, want 0", aw.Count)
	}
}

func TestUpdate_EnumClassification(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	tree.Update(s, map[string]any{
		"contributors": []any{
			map[string]any{"contributorType": "DataCurator"},
			map[string]any{"contributorType": "Janitor"}, // unrecognized -> Other
		},
		"relatedIdentifiers": []any{
			map[string]any{"relatedIdentifierType": "DOI"},
			map[string]any{"relatedIdentifierType": "FOO"}, // no Other bucket
		},
	})

	ct := tree.Fields["contributors"].Subfields["contributorType"]
	if ct.Count != 1 || ct.Instances != 2 {
		t.Errorf("contributorType = %+v, want count=1 instances=2", ct)
	}
	if ct.Values["DataCurator"] != 1 || ct.Values[schema.OtherValue] != 1 {
		t.Errorf("contributorType values = %v, want DataCurator=1 Other=1", ct.Values)
	}

	rit := tree.Fields["relatedIdentifiers"].Subfields["relatedIdentifierType"]
	if rit.Count != 1 || rit.Instances != 2 {
		t.Errorf("relatedIdentifierType = %+v, want count=1 instances=2", rit)
	}
	if _, ok := rit.Values["FOO"]; ok {
		t.Error("unrecognized value must not create a map entry")
	}
	if rit.Values["DOI"] != 1 {
		t.Errorf("DOI = %d, want 1", rit.Values["DOI"])
	}
}

func TestUpdate_IdentifierSchemeDecomposition(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	tree.Update(s, map[string]any{
		"creators": []any{
			map[string]any{
				"nameType": "Personal",
				"nameIdentifiers": []any{
					map[string]any{"nameIdentifier": "0000-0001", "nameIdentifierScheme": "ORCID"},
					map[string]any{"nameIdentifier": "0000-0002", "nameIdentifierScheme": "ORCID"},
				},
			},
			map[string]any{"nameType": "Organizational"},
		},
	})

	creators := tree.Fields["creators"]
	if creators.Count != 1 || creators.Instances != 2 {
		t.Errorf("creators = %+v, want count=1 instances=2", creators)
	}

	ni := creators.Subfields["nameIdentifier"]
	if ni.Count != 1 || ni.Instances != 2 {
		t.Errorf("nameIdentifier = %+v, want count=1 instances=2", ni)
	}

	scheme := creators.Subfields["nameIdentifierScheme"]
	if scheme.Count != 1 || scheme.Instances != 2 {
		t.Errorf("nameIdentifierScheme = %+v, want count=1 instances=2", scheme)
	}
	if scheme.Values["ORCID"] != 2 {
		t.Errorf("ORCID = %d, want 2", scheme.Values["ORCID"])
	}

	nt := creators.Subfields["nameType"]
	if nt.Count != 1 || nt.Instances != 2 {
		t.Errorf("nameType = %+v, want count=1 instances=2", nt)
	}
	if nt.Values["Personal"] != 1 || nt.Values["Organizational"] != 1 {
		t.Errorf("nameType values = %v", nt.Values)
	}
}

func TestUpdate_SingularComposite(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	tree.Update(s, map[string]any{
		"resourceType": map[string]any{"resourceTypeGeneral": "Dataset"},
	})
	tree.Update(s, map[string]any{
		"resourceType": map[string]any{"resourceTypeGeneral": "HolographicShard"},
	})

	rt := tree.Fields["resourceType"]
	if rt.Count != 2 || rt.Instances != 2 {
		t.Errorf("resourceType = %+v, want count=2 instances=2", rt)
	}
	rtg := rt.Subfields["resourceTypeGeneral"]
	if rtg.Values["Dataset"] != 1 {
		t.Errorf("Dataset = %d, want 1", rtg.Values["Dataset"])
	}
	if rtg.Values[schema.OtherValue] != 1 {
		t.Errorf("Other = %d, want 1 (unrecognized collapses)", rtg.Values[schema.OtherValue])
	}
}

func TestUpdate_UnexpectedShapeSkipsFieldOnly(t *testing.T) {
	s := schema.Default()
	tree := NewTree(s)

	// fundingReferences should be a list; a bare string still counts as
	// present but contributes no subfield stats, and the rest of the record
	// is processed normally.
	tree.Update(s, map[string]any{
		"fundingReferences": "oops",
		"identifier":        "10.5072/ok",
	})

	fr := tree.Fields["fundingReferences"]
	if fr.Count != 1 || fr.Instances != 0 {
		t.Errorf("fundingReferences = %+v, want count=1 instances=0", fr)
	}
	if fr.Subfields["funderName"].Count != 0 {
		t.Error("subfields must not advance for a malformed field")
	}
	if tree.Fields["identifier"].Count != 1 {
		t.Error("record processing should continue past the malformed field")
	}
}

func TestEntityUpdate_ResourceTypeRouting(t *testing.T) {
	s := schema.Default()
	e := NewEntityTree(s)

	e.Update(s, map[string]any{
		"identifier":   "10.5072/a",
		"resourceType": map[string]any{"resourceTypeGeneral": "Dataset"},
	}, "Dataset")
	e.Update(s, map[string]any{"identifier": "10.5072/b"}, "")

	if e.Summary.RecordCount != 2 {
		t.Errorf("summary records = %d, want 2", e.Summary.RecordCount)
	}
	if got := e.ByResourceType.Types["Dataset"].RecordCount; got != 1 {
		t.Errorf("Dataset records = %d, want 1", got)
	}
	if got := e.ByResourceType.Types["Software"].RecordCount; got != 0 {
		t.Errorf("Software records = %d, want 0", got)
	}
}
