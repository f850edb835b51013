// Package record normalizes raw DataCite data-file values into the
// canonical field layout the statistics engine tracks.
package record

// Record is one normalized metadata record: its lifecycle state, owning
// client and provider IDs, and the tracked fields keyed by canonical name.
type Record struct {
	State      string
	ClientID   string
	ProviderID string
	Fields     map[string]any
}

// fieldSources maps canonical field names to their attribute keys in the
// raw record. Most are identical; the exceptions follow the data-file
// layout (doi, types, dates, descriptions, rightsList).
var fieldSources = []struct {
	canonical string
	source    string
}{
	{"identifier", "doi"},
	{"creators", "creators"},
	{"titles", "titles"},
	{"publisher", "publisher"},
	{"publicationYear", "publicationYear"},
	{"resourceType", "types"},
	{"subjects", "subjects"},
	{"contributors", "contributors"},
	{"date", "dates"},
	{"relatedIdentifiers", "relatedIdentifiers"},
	{"description", "descriptions"},
	{"geoLocations", "geoLocations"},
	{"language", "language"},
	{"alternateIdentifiers", "alternateIdentifiers"},
	{"sizes", "sizes"},
	{"formats", "formats"},
	{"version", "version"},
	{"rights", "rightsList"},
	{"fundingReferences", "fundingReferences"},
	{"relatedItems", "relatedItems"},
}

// Normalize maps one decoded JSON value into a Record. Records may carry
// their metadata under an "attributes" envelope or at the top level.
func Normalize(raw map[string]any) Record {
	attrs := raw
	if a, ok := raw["attributes"].(map[string]any); ok {
		attrs = a
	}

	fields := make(map[string]any, len(fieldSources))
	for _, m := range fieldSources {
		if v, ok := attrs[m.source]; ok {
			fields[m.canonical] = v
		}
	}

	state, _ := attrs["state"].(string)
	return Record{
		State:      state,
		ClientID:   relationshipID(raw, "client"),
		ProviderID: relationshipID(raw, "provider"),
		Fields:     fields,
	}
}

// Findable reports whether the record is eligible for statistics.
func (r Record) Findable() bool { return r.State == "findable" }

// ResourceTypeGeneral returns the record's general resource type. The
// resourceType field is normally an object carrying resourceTypeGeneral,
// but some records store the type as a bare string.
func (r Record) ResourceTypeGeneral() string {
	switch t := r.Fields["resourceType"].(type) {
	case map[string]any:
		s, _ := t["resourceTypeGeneral"].(string)
		return s
	case string:
		return t
	default:
		return ""
	}
}

// relationshipID digs relationships.<name>.data.id out of a raw record.
func relationshipID(raw map[string]any, name string) string {
	rels, _ := raw["relationships"].(map[string]any)
	rel, _ := rels[name].(map[string]any)
	data, _ := rel["data"].(map[string]any)
	id, _ := data["id"].(string)
	return id
}
