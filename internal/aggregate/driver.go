package aggregate

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"metahealth/internal/reader"
	"metahealth/internal/record"
	"metahealth/internal/schema"
	"metahealth/internal/stats"
)

// fileResult holds one file's partial trees, keyed by entity ID.
type fileResult struct {
	clients   map[string]*stats.EntityTree
	providers map[string]*stats.EntityTree
	processed int
	skipped   int
}

// processFile reads one data file and accumulates partial trees per
// client and provider. Decode failures and unusable records are logged
// and skipped; only the read path itself can fail.
func processFile(path string, s schema.Schema, logger *slog.Logger) (fileResult, error) {
	res := fileResult{
		clients:   make(map[string]*stats.EntityTree),
		providers: make(map[string]*stats.EntityTree),
	}

	r := reader.New(path)
	err := r.Each(func(raw map[string]any) error {
		rec := record.Normalize(raw)
		if !rec.Findable() {
			res.skipped++
			return nil
		}
		if rec.ClientID == "" && rec.ProviderID == "" {
			logger.Warn("record has no client or provider relationship",
				"file", filepath.Base(path))
			res.skipped++
			return nil
		}

		rt := rec.ResourceTypeGeneral()
		if rec.ClientID != "" {
			t, ok := res.clients[rec.ClientID]
			if !ok {
				t = stats.NewEntityTree(s)
				res.clients[rec.ClientID] = t
			}
			t.Update(s, rec.Fields, rt)
		}
		if rec.ProviderID != "" {
			t, ok := res.providers[rec.ProviderID]
			if !ok {
				t = stats.NewEntityTree(s)
				res.providers[rec.ProviderID] = t
			}
			t.Update(s, rec.Fields, rt)
		}
		res.processed++
		return nil
	})
	if err != nil {
		return fileResult{}, err
	}
	return res, nil
}

// Run processes every file with up to workers concurrent readers and
// folds the partial trees into col. The reduce step is serialized; per
// file failures are logged and contribute nothing rather than aborting
// the run.
func Run(ctx context.Context, files []string, s schema.Schema, col *Collection, workers int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	completed := 0

	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := processFile(path, s, logger)
			if err != nil {
				logger.Error("failed to process file",
					"file", filepath.Base(path), "error", err)
				res = fileResult{}
			}

			mu.Lock()
			defer mu.Unlock()
			for id, t := range res.clients {
				col.MergeClient(id, t)
			}
			for id, t := range res.providers {
				col.MergeProvider(id, t)
			}
			completed++
			logger.Info("completed file",
				"file", filepath.Base(path),
				"completed", completed, "total", len(files),
				"findable", res.processed, "skipped", res.skipped)
			return nil
		})
	}
	return g.Wait()
}
