// Package output writes the final snapshot: attributes and stats
// documents for providers and clients, each a JSON envelope with a data
// list and a meta block.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"metahealth/internal/aggregate"
	"metahealth/internal/stats"
)

// attributesEntry is one entity in an attributes document.
type attributesEntry struct {
	ID            string                   `json:"id"`
	Type          string                   `json:"type"`
	Attributes    map[string]any           `json:"attributes"`
	Relationships aggregate.Relationships  `json:"relationships"`
}

// statsEntry is one entity in a stats document.
type statsEntry struct {
	ID    string            `json:"id"`
	Stats *stats.EntityTree `json:"stats"`
}

type meta struct {
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	Data any  `json:"data"`
	Meta meta `json:"meta"`
}

// Write emits the four snapshot files into dir, creating it as needed:
// providers_attributes.json, providers_stats.json, clients_attributes.json
// and clients_stats.json. Entries are sorted by entity ID so output is
// deterministic.
func Write(col *aggregate.Collection, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	timestamp := time.Now().Format(time.RFC3339)

	providers := sorted(col.Providers)
	clients := sorted(col.Clients)

	files := []struct {
		name string
		data any
	}{
		{"providers_attributes.json", attributes(providers)},
		{"providers_stats.json", statsOf(providers)},
		{"clients_attributes.json", attributes(clients)},
		{"clients_stats.json", statsOf(clients)},
	}

	for _, f := range files {
		if err := validate(f.name, f.data); err != nil {
			return err
		}
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		n, err := writeEnvelope(path, f.data, timestamp)
		if err != nil {
			return err
		}
		logger.Info("wrote output file", "path", path, "entries", n)
	}
	return nil
}

func sorted(entities map[string]*aggregate.Entity) []*aggregate.Entity {
	out := make([]*aggregate.Entity, 0, len(entities))
	for _, e := range entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func attributes(entities []*aggregate.Entity) []attributesEntry {
	out := make([]attributesEntry, 0, len(entities))
	for _, e := range entities {
		attrs := e.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		out = append(out, attributesEntry{
			ID:            e.ID,
			Type:          e.Type,
			Attributes:    attrs,
			Relationships: e.Relationships,
		})
	}
	return out
}

func statsOf(entities []*aggregate.Entity) []statsEntry {
	out := make([]statsEntry, 0, len(entities))
	for _, e := range entities {
		out = append(out, statsEntry{ID: e.ID, Stats: e.Stats})
	}
	return out
}

// validate rejects entries missing the keys their document class
// requires.
func validate(name string, data any) error {
	switch entries := data.(type) {
	case []attributesEntry:
		for _, e := range entries {
			if e.ID == "" || e.Type == "" {
				return fmt.Errorf("%s: entry missing id or type", name)
			}
		}
	case []statsEntry:
		for _, e := range entries {
			if e.ID == "" || e.Stats == nil {
				return fmt.Errorf("%s: entry missing id or stats", name)
			}
		}
	}
	return nil
}

func writeEnvelope(path string, data any, timestamp string) (int, error) {
	n := 0
	switch d := data.(type) {
	case []attributesEntry:
		n = len(d)
	case []statsEntry:
		n = len(d)
	}

	body, err := json.MarshalIndent(envelope{
		Data: data,
		Meta: meta{Total: n, Timestamp: timestamp},
	}, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return n, nil
}
