package registry

// Entity is one provider or client from the registry: its ID, JSON:API
// type discriminator, static attributes, and (for clients) the owning
// provider. Entities are serialized into the cache store as-is.
type Entity struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
	ProviderID string         `json:"provider_id,omitempty"`
}

// page is one JSON:API response page from the registry.
type page struct {
	Data []resource `json:"data"`
	Meta pageMeta   `json:"meta"`
}

type pageMeta struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// resource is one JSON:API resource object.
type resource struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Attributes    map[string]any `json:"attributes"`
	Relationships struct {
		Provider struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"provider"`
	} `json:"relationships"`
}

func (r resource) entity() Entity {
	attrs := r.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return Entity{
		ID:         r.ID,
		Type:       r.Type,
		Attributes: attrs,
		ProviderID: r.Relationships.Provider.Data.ID,
	}
}
