// Package aggregate drives statistics aggregation: it holds the provider
// and client entities, folds per-file partial results into them, and
// synthesizes the all-providers and all-clients aggregate entries.
package aggregate

import (
	"log/slog"

	"metahealth/internal/registry"
	"metahealth/internal/schema"
	"metahealth/internal/stats"
)

// Relationships links an entity to its counterparts: a provider lists
// its client IDs, a client names its owning provider.
type Relationships struct {
	Clients  []string `json:"clients,omitempty"`
	Provider string   `json:"provider,omitempty"`
}

// Entity is one provider or client with its registry attributes and the
// statistics accumulated for it.
type Entity struct {
	ID            string
	Type          string
	Attributes    map[string]any
	Relationships Relationships
	Stats         *stats.EntityTree
}

// Collection holds every provider and client entity for a run.
type Collection struct {
	schema    schema.Schema
	Providers map[string]*Entity
	Clients   map[string]*Entity
	logger    *slog.Logger
}

// NewCollection returns an empty Collection for the given schema.
func NewCollection(s schema.Schema, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		schema:    s,
		Providers: make(map[string]*Entity),
		Clients:   make(map[string]*Entity),
		logger:    logger,
	}
}

// InitFromRegistry seeds the collection with one zeroed entity per
// registry provider and client, and wires the provider/client
// relationships in both directions.
func (c *Collection) InitFromRegistry(providers, clients []registry.Entity) {
	for _, p := range providers {
		c.Providers[p.ID] = &Entity{
			ID:         p.ID,
			Type:       "providers",
			Attributes: p.Attributes,
			Stats:      stats.NewEntityTree(c.schema),
		}
	}
	for _, cl := range clients {
		e := &Entity{
			ID:         cl.ID,
			Type:       "clients",
			Attributes: cl.Attributes,
			Stats:      stats.NewEntityTree(c.schema),
		}
		if cl.ProviderID != "" {
			e.Relationships.Provider = cl.ProviderID
			if p, ok := c.Providers[cl.ProviderID]; ok {
				p.Relationships.Clients = append(p.Relationships.Clients, cl.ID)
			}
		}
		c.Clients[cl.ID] = e
	}
	c.logger.Info("initialized entities",
		"providers", len(c.Providers), "clients", len(c.Clients))
}

// MergeProvider folds a partial tree into the named provider. Unknown
// provider IDs are skipped.
func (c *Collection) MergeProvider(id string, t *stats.EntityTree) {
	p, ok := c.Providers[id]
	if !ok {
		c.logger.Debug("skipping stats for unknown provider", "provider", id)
		return
	}
	p.Stats = stats.MergeEntity(p.Stats, t)
}

// MergeClient folds a partial tree into the named client. Unknown client
// IDs are skipped.
func (c *Collection) MergeClient(id string, t *stats.EntityTree) {
	cl, ok := c.Clients[id]
	if !ok {
		c.logger.Debug("skipping stats for unknown client", "client", id)
		return
	}
	cl.Stats = stats.MergeEntity(cl.Stats, t)
}

// FilterActive drops every provider and client whose summary saw no
// records.
func (c *Collection) FilterActive() {
	for id, p := range c.Providers {
		if p.Stats.Summary.RecordCount == 0 {
			delete(c.Providers, id)
		}
	}
	for id, cl := range c.Clients {
		if cl.Stats.Summary.RecordCount == 0 {
			delete(c.Clients, id)
		}
	}
	c.logger.Info("filtered inactive entities",
		"providers", len(c.Providers), "clients", len(c.Clients))
}

// AddAggregates synthesizes the all-providers provider and all-clients
// client from the entities currently in the collection. Call after
// FilterActive so the aggregates describe the surviving set.
func (c *Collection) AddAggregates() {
	allProviders := stats.NewEntityTree(c.schema)
	for _, p := range c.Providers {
		allProviders = stats.MergeEntity(allProviders, p.Stats)
	}
	allClients := stats.NewEntityTree(c.schema)
	for _, cl := range c.Clients {
		allClients = stats.MergeEntity(allClients, cl.Stats)
	}

	c.Providers["aggregate"] = &Entity{
		ID:   "aggregate",
		Type: "providers",
		Attributes: map[string]any{
			"symbol": "AGGREGATE",
			"name":   "All DataCite Organizations (All Providers Aggregated)",
		},
		Relationships: Relationships{Clients: []string{"aggregate.all"}},
		Stats:         allProviders,
	}
	c.Clients["aggregate.all"] = &Entity{
		ID:   "aggregate.all",
		Type: "clients",
		Attributes: map[string]any{
			"symbol": "AGGREGATE.ALL",
			"name":   "All DataCite Repositories (All Clients Aggregated)",
		},
		Stats: allClients,
	}
}

// Finalize prunes and rounds every entity tree for output.
func (c *Collection) Finalize() {
	for _, p := range c.Providers {
		p.Stats.Finalize()
	}
	for _, cl := range c.Clients {
		cl.Stats.Finalize()
	}
}
