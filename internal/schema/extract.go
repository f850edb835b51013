package schema

// scalarValue extracts a plain string subfield from an occurrence.
func scalarValue(key string) Extractor {
	return func(occ map[string]any) Observation {
		v, _ := occ[key].(string)
		if v == "" {
			return Observation{}
		}
		return Observation{Present: true, Instances: 1, Values: []string{v}}
	}
}

// asList coerces a value that may be a single element or a list into a list.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{v}
	}
}

// nameIdentifiers reports presence of the nameIdentifiers block, one
// instance per identifier.
func nameIdentifiers(occ map[string]any) Observation {
	ids := asList(occ["nameIdentifiers"])
	if len(ids) == 0 {
		return Observation{}
	}
	return Observation{Present: true, Instances: len(ids)}
}

// nameIdentifierScheme reports the schemes attached to name identifiers.
// A scheme is only observed when its identifier entry exists.
func nameIdentifierScheme(occ map[string]any) Observation {
	var obs Observation
	for _, id := range asList(occ["nameIdentifiers"]) {
		m, ok := id.(map[string]any)
		if !ok {
			continue
		}
		scheme, _ := m["nameIdentifierScheme"].(string)
		if scheme == "" {
			continue
		}
		obs.Present = true
		obs.Instances++
		obs.Values = append(obs.Values, scheme)
	}
	return obs
}

// affiliations reports presence of the affiliation block, one instance per
// affiliation entry. Entries may be objects or plain strings.
func affiliations(occ map[string]any) Observation {
	affs := asList(occ["affiliation"])
	if len(affs) == 0 {
		return Observation{}
	}
	return Observation{Present: true, Instances: len(affs)}
}

// affiliationIdentifier reports affiliation entries that carry an
// identifier.
func affiliationIdentifier(occ map[string]any) Observation {
	var obs Observation
	for _, a := range asList(occ["affiliation"]) {
		m, ok := a.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["affiliationIdentifier"].(string)
		if id == "" {
			continue
		}
		obs.Present = true
		obs.Instances++
	}
	return obs
}

// affiliationIdentifierScheme reports the schemes of affiliation
// identifiers. The scheme is only observed when the identifier is present.
func affiliationIdentifierScheme(occ map[string]any) Observation {
	var obs Observation
	for _, a := range asList(occ["affiliation"]) {
		m, ok := a.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["affiliationIdentifier"].(string)
		if id == "" {
			continue
		}
		scheme, _ := m["affiliationIdentifierScheme"].(string)
		if scheme == "" {
			continue
		}
		obs.Present = true
		obs.Instances++
		obs.Values = append(obs.Values, scheme)
	}
	return obs
}
