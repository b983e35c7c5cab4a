package scraper

import (
	"fmt"

	"imageharvest/pkg/config"
	"imageharvest/pkg/downloader"
	"imageharvest/pkg/errors"
	"imageharvest/pkg/harvester"
	"imageharvest/pkg/logger"
	"imageharvest/pkg/pacing"
	"imageharvest/pkg/retry"
	"imageharvest/pkg/storage"
	"imageharvest/pkg/surface"
)

// Outcome summarizes one run
type Outcome struct {
	// URLs discovered during the harvest phase, in discovery order
	URLs []string
	// Images successfully downloaded and stored
	Images []downloader.DownloadedImage
	// ErrorsByKind maps each failure kind to the URLs it occurred for,
	// accumulated across the whole batch
	ErrorsByKind map[errors.Kind][]string
}

// Scraper runs the harvest-then-download pipeline
type Scraper struct {
	cfg      *config.Config
	surfaces surface.Factory
	log      logger.Logger

	// overridable in tests; built per run when nil
	harvester  URLHarvester
	downloader ImageDownloader
}

// New creates a scraper with the given configuration and surface factory
func New(cfg *config.Config, surfaces surface.Factory, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{cfg: cfg, surfaces: surfaces, log: log}
}

// Run harvests image URLs for query and downloads them sequentially.
//
// Failure to acquire a browser surface is fatal. The surface is released as
// soon as harvesting finishes, before any download starts, and on every
// error path. Individual download failures are collected in the outcome
// rather than returned.
func (s *Scraper) Run(query string) (*Outcome, error) {
	store, err := storage.NewManager(s.cfg.Output.TargetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	urls, err := s.harvestURLs(query)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		URLs:         urls,
		ErrorsByKind: make(map[errors.Kind][]string),
	}

	dl := s.downloader
	if dl == nil {
		dl = downloader.New(downloader.Config{
			Timeout:   s.cfg.Download.Timeout,
			UserAgent: s.cfg.Download.UserAgent,
			Retry: &retry.Config{
				MaxAttempts: s.cfg.Retry.MaxAttempts,
				Backoff: &retry.ExponentialBackoff{
					InitialDelay: s.cfg.Retry.InitialDelay,
					MaxDelay:     s.cfg.Retry.MaxDelay,
					Multiplier:   s.cfg.Retry.Multiplier,
				},
				RetryIf: errors.IsRetryable,
				Logger:  s.log,
			},
		}, store, s.log)
	}

	for _, u := range urls {
		img, err := dl.Download(u)
		if err != nil {
			kind := errors.KindOf(err)
			outcome.ErrorsByKind[kind] = append(outcome.ErrorsByKind[kind], u)
			s.log.WithError(err).WarnWithFields("download failed", map[string]interface{}{
				"url":  u,
				"kind": string(kind),
			})
			continue
		}
		outcome.Images = append(outcome.Images, *img)
	}

	s.log.InfoWithFields("run complete", map[string]interface{}{
		"query":      query,
		"discovered": len(urls),
		"downloaded": len(outcome.Images),
		"failed":     len(urls) - len(outcome.Images),
		"target":     s.cfg.Harvest.TargetCount,
		"output_dir": store.OutputDir(),
	})

	return outcome, nil
}

// harvestURLs acquires a surface, harvests, and releases the surface before
// returning. The release happens on every path, success or failure.
func (s *Scraper) harvestURLs(query string) ([]string, error) {
	surf, err := s.surfaces.Acquire()
	if err != nil {
		return nil, errors.Wrap(errors.KindSurfaceAcquisition, err,
			"failed to acquire browser surface")
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := surf.Quit(); err != nil {
			s.log.WithError(err).Warn("failed to release browser surface")
		}
	}
	defer release()

	h := s.harvester
	if h == nil {
		h = harvester.New(surf, pacing.NewFuzzy(s.cfg.Harvest.MinInterval), harvesterConfig(&s.cfg.Surface), s.log)
	}

	urls, err := h.Harvest(query, s.cfg.Harvest.TargetCount)

	// Downloads run over plain HTTP. Holding a browser session open for
	// them wastes the heaviest resource in the pipeline.
	release()

	if err != nil {
		return nil, fmt.Errorf("harvest failed: %w", err)
	}
	return urls, nil
}

// harvesterConfig adapts the surface configuration section into the
// harvester's own config type.
func harvesterConfig(sc *config.SurfaceConfig) harvester.Config {
	priority := make([]harvester.ControlKind, 0, len(sc.ControlPriority))
	for _, kind := range sc.ControlPriority {
		priority = append(priority, harvester.ControlKind(kind))
	}
	return harvester.Config{
		SearchURLTemplate: sc.SearchURLTemplate,
		ThumbnailSelector: sc.ThumbnailSelector,
		ImageSelector:     sc.ImageSelector,
		ControlSelectors: map[harvester.ControlKind]string{
			harvester.ControlLoadMore:      sc.LoadMoreSelector,
			harvester.ControlSeeMoreAnyway: sc.SeeMoreAnywaySelector,
		},
		ControlPriority: priority,
	}
}
