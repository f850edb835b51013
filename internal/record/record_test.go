package record

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleLine = `{
	"id": "10.5072/example",
	"type": "dois",
	"attributes": {
		"doi": "10.5072/example",
		"state": "findable",
		"titles": [{"title": "Example"}],
		"publisher": "Example Press",
		"publicationYear": 2021,
		"types": {"resourceTypeGeneral": "Dataset"},
		"dates": [{"date": "2021-01-01", "dateType": "Issued"}],
		"descriptions": [{"description": "d"}],
		"rightsList": [{"rights": "CC0"}]
	},
	"relationships": {
		"client": {"data": {"id": "demo.repo", "type": "clients"}},
		"provider": {"data": {"id": "demo", "type": "providers"}}
	}
}`

func TestNormalize_CanonicalMapping(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(sampleLine), &raw); err != nil {
		t.Fatal(err)
	}

	r := Normalize(raw)

	if !r.Findable() {
		t.Error("record should be findable")
	}
	if r.ClientID != "demo.repo" || r.ProviderID != "demo" {
		t.Errorf("relationships = %q/%q, want demo.repo/demo", r.ClientID, r.ProviderID)
	}

	if got, _ := r.Fields["identifier"].(string); got != "10.5072/example" {
		t.Errorf("identifier = %q (mapped from doi)", got)
	}
	if _, ok := r.Fields["rights"]; !ok {
		t.Error("rightsList should map to rights")
	}
	if _, ok := r.Fields["date"]; !ok {
		t.Error("dates should map to date")
	}
	if _, ok := r.Fields["description"]; !ok {
		t.Error("descriptions should map to description")
	}
	if got := r.ResourceTypeGeneral(); got != "Dataset" {
		t.Errorf("ResourceTypeGeneral = %q, want Dataset", got)
	}
	if _, ok := r.Fields["creators"]; ok {
		t.Error("absent attributes must not appear in Fields")
	}
}

func TestNormalize_TopLevelAttributes(t *testing.T) {
	raw := map[string]any{
		"doi":   "10.5072/flat",
		"state": "registered",
		"types": "Software",
	}
	r := Normalize(raw)

	if r.Findable() {
		t.Error("registered record must not be findable")
	}
	if got, _ := r.Fields["identifier"].(string); got != "10.5072/flat" {
		t.Errorf("identifier = %q, want 10.5072/flat", got)
	}
	if got := r.ResourceTypeGeneral(); got != "Software" {
		t.Errorf("ResourceTypeGeneral = %q, want Software (bare string form)", got)
	}
}

func TestNormalize_MissingRelationships(t *testing.T) {
	r := Normalize(map[string]any{"attributes": map[string]any{"state": "findable"}})
	if r.ClientID != "" || r.ProviderID != "" {
		t.Errorf("expected empty relationship IDs, got %q/%q", r.ClientID, r.ProviderID)
	}
}

func TestNormalize_FieldSetIsStable(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(sampleLine), &raw); err != nil {
		t.Fatal(err)
	}
	a := Normalize(raw)
	b := Normalize(raw)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("normalization is not deterministic:\n%s", diff)
	}
}
