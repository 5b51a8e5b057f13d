// Package harvest drives the fetch/classify/download pipeline: discovery,
// grouping, even sampling, and concurrent image download.
package harvest

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"metharvest/internal/worker"
	"metharvest/pkg/classify"
	"metharvest/pkg/config"
	"metharvest/pkg/logger"
	"metharvest/pkg/met"
	"metharvest/pkg/metadata"
	"metharvest/pkg/metrics"
	"metharvest/pkg/ratelimit"
	"metharvest/pkg/sample"
	"metharvest/pkg/storage"
	"metharvest/pkg/ui"
)

// ErrNoImage marks objects without a primary image. Such objects are
// skipped, not reported as failures.
var ErrNoImage = errors.New("object has no primary image")

// Harvester orchestrates the full pipeline run.
type Harvester struct {
	cfg        *config.Config
	client     *met.Client
	classifier *classify.Classifier
	store      *storage.Manager
	writer     *metadata.Writer
	pacer      ratelimit.Limiter
	metrics    *metrics.Metrics
	logger     logger.Logger
	rng        *rand.Rand
}

// New creates a Harvester from configuration.
func New(cfg *config.Config) (*Harvester, error) {
	log := logger.GetLogger()
	m := metrics.New()

	store, err := storage.NewManager(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Harvester{
		cfg:        cfg,
		client:     met.NewClient(&cfg.HTTP, log, m),
		classifier: classify.New(cfg.Periods.PreIslamic, cfg.Periods.Islamic),
		store:      store,
		writer:     metadata.NewWriter(cfg.Dataset.Path, cfg.Dataset.JSONFile, cfg.Dataset.CSVFile),
		pacer:      ratelimit.NewTokenBucket(1, cfg.Harvest.QueryDelay),
		metrics:    m,
		logger:     log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetRand replaces the random source used for sampling. Tests supply a
// seeded source for deterministic selections.
func (h *Harvester) SetRand(rng *rand.Rand) {
	h.rng = rng
	h.client.SetRand(rng)
}

// Client returns the underlying API client.
func (h *Harvester) Client() *met.Client {
	return h.client
}

// Metrics returns the pipeline metrics registry.
func (h *Harvester) Metrics() *metrics.Metrics {
	return h.metrics
}

// Run executes the pipeline phases in strict sequence: discovery, grouping,
// sampling, download, write. Each phase's concurrent work completes before
// the next begins. Per-object failures never abort the run.
func (h *Harvester) Run() error {
	ui.PrintInfo("Dataset", h.cfg.Dataset.Path)

	ids := h.discover()
	h.logger.InfoWithFields("discovery completed", map[string]interface{}{
		"object_ids": len(ids),
		"queries":    len(h.cfg.Harvest.Queries),
	})

	groups := h.group(ids)
	h.logger.InfoWithFields("grouping completed", map[string]interface{}{
		"groups":  groups.Len(),
		"grouped": groups.Total(),
	})

	sampled := groups.Sample(h.cfg.Harvest.MaxImages, h.rng)
	ui.PrintInfo("Sampled", fmt.Sprintf("%d objects across %d periods", len(sampled), groups.Len()))

	records := h.download(sampled)

	if err := h.writer.Write(records); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	h.logger.InfoWithFields("harvest completed", map[string]interface{}{
		"downloaded": len(records),
		"sampled":    len(sampled),
	})
	h.logger.DebugWithFields("run counters", h.metrics.Snapshot())
	ui.PrintSuccess("Completed: downloaded %d images", len(records))

	return nil
}

// discover collects object IDs from every search query. Queries run
// sequentially with a polite delay; a failing query is skipped silently and
// the IDs are deduplicated across queries.
func (h *Harvester) discover() []int {
	ui.PrintInfo("Phase", "searching collection")

	seen := make(map[int]bool)
	var ids []int

	for _, query := range h.cfg.Harvest.Queries {
		h.pacer.Wait()

		result, err := h.client.SearchObjects(query)
		if err != nil {
			h.logger.DebugWithFields("search query failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
			h.metrics.IncError("search_failed")
			continue
		}

		for _, id := range result.ObjectIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return ids
}

type groupResult struct {
	objectID  int
	subPeriod string
	err       error
}

// group fetches every discovered object concurrently and buckets the IDs by
// sub-period. A single drain goroutine owns the Groups value; IDs whose
// fetch fails are dropped from all groups.
func (h *Harvester) group(ids []int) *sample.Groups {
	groups := sample.NewGroups()
	if len(ids) == 0 {
		return groups
	}

	progress := ui.NewProgress("Grouping", len(ids))

	pool := worker.NewPool(h.cfg.Harvest.Workers, func(objectID int) groupResult {
		obj, err := h.client.GetObject(objectID)
		if err != nil {
			return groupResult{objectID: objectID, err: err}
		}
		_, subPeriod := h.classifier.Classify(obj)
		return groupResult{objectID: objectID, subPeriod: subPeriod}
	}, h.logger)
	pool.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for res := range pool.Results() {
			if res.err != nil {
				h.metrics.IncError("group_fetch_failed")
				progress.Fail()
				continue
			}
			groups.Add(res.subPeriod, res.objectID)
			progress.Increment()
		}
	}()

	for _, id := range ids {
		pool.Submit(id)
	}
	pool.Stop()
	wg.Wait()
	progress.Done()

	return groups
}

type downloadResult struct {
	objectID int
	record   *metadata.Record
	err      error
}

// download processes the sampled IDs concurrently and collects the
// metadata records in worker completion order. Failures are logged with the
// offending ID and the object is omitted.
func (h *Harvester) download(ids []int) []*metadata.Record {
	if len(ids) == 0 {
		return nil
	}

	ui.PrintInfo("Phase", "downloading images")
	progress := ui.NewProgress("Downloading", len(ids))

	pool := worker.NewPool(h.cfg.Harvest.Workers, func(objectID int) downloadResult {
		record, err := h.processObject(objectID)
		return downloadResult{objectID: objectID, record: record, err: err}
	}, h.logger)
	pool.Start()

	var records []*metadata.Record
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for res := range pool.Results() {
			if res.err != nil {
				if errors.Is(res.err, ErrNoImage) {
					h.metrics.IncSkip("no_image")
					h.logger.DebugWithFields("object skipped", map[string]interface{}{
						"object_id": res.objectID,
						"reason":    "no primary image",
					})
				} else {
					h.metrics.IncSkip("download_failed")
					h.logger.WarnWithFields("object failed", map[string]interface{}{
						"object_id": res.objectID,
						"error":     res.err.Error(),
					})
					ui.PrintError("error processing %d: %v", res.objectID, res.err)
				}
				progress.Fail()
				continue
			}
			records = append(records, res.record)
			progress.Increment()
		}
	}()

	for _, id := range ids {
		pool.Submit(id)
	}
	pool.Stop()
	wg.Wait()
	progress.Done()

	return records
}

// processObject fetches one object, classifies it, downloads its primary
// image, and assembles the metadata record.
func (h *Harvester) processObject(objectID int) (*metadata.Record, error) {
	obj, err := h.client.GetObject(objectID)
	if err != nil {
		return nil, fmt.Errorf("fetch object %d: %w", objectID, err)
	}

	if !obj.HasImage() {
		return nil, ErrNoImage
	}

	era, subPeriod := h.classifier.Classify(obj)

	// Skip the download when a previous pass already saved this image.
	if h.store.IsDownloaded(string(era), subPeriod, objectID) {
		path := h.store.ImagePath(string(era), subPeriod, objectID)
		return metadata.FromObject(obj, era, subPeriod, path), nil
	}

	data, err := h.client.DownloadImage(obj.PrimaryImage)
	if err != nil {
		return nil, fmt.Errorf("download image for object %d: %w", objectID, err)
	}

	path, err := h.store.SaveImage(data, string(era), subPeriod, objectID)
	if err != nil {
		return nil, fmt.Errorf("save image for object %d: %w", objectID, err)
	}

	h.metrics.IncDownloads()
	return metadata.FromObject(obj, era, subPeriod, path), nil
}
