package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"imageharvest/pkg/auth"
	"imageharvest/pkg/classify"
	"imageharvest/pkg/config"
	"imageharvest/pkg/logger"
	"imageharvest/pkg/scraper"
	"imageharvest/pkg/surface"
)

var (
	// Harvest command flags
	targetCount     int
	targetDir       string
	minInterval     time.Duration
	headless        bool
	downloadTimeout time.Duration
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest <query>",
	Short: "Discover and download images for a search term",
	Long: `Discover full-resolution image URLs for a search term and download them.

A headless browser navigates to the search results, clicks thumbnails to
reveal full-resolution sources, and pages through results until the target
count is reached or the surface runs out. The browser is released before
downloads start. Each image is validated, re-encoded as JPEG, and stored
under a name derived from its content hash, so re-running the same query
never duplicates files.`,
	Example: `  # Download 5 images (the default) for a term
  imageharvest harvest sunset

  # Download 50 images into a specific directory
  imageharvest harvest sunset --count 50 --output ./sunset

  # Slow down interactions to at least one second
  imageharvest harvest sunset --min-interval 1s

  # Watch the browser work
  imageharvest harvest sunset --headless=false`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().IntVarP(&targetCount, "count", "n", 0, "number of images to download (default 5)")
	harvestCmd.Flags().StringVarP(&targetDir, "output", "o", "", "output directory for downloads")
	harvestCmd.Flags().DurationVar(&minInterval, "min-interval", 0, "minimum pause between page interactions")
	harvestCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	harvestCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 0, "per-image download timeout")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	flags := make(map[string]interface{})
	if targetCount > 0 {
		flags["target-count"] = targetCount
	}
	if targetDir != "" {
		flags["target-dir"] = targetDir
	}
	if minInterval > 0 {
		flags["min-interval"] = minInterval
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if downloadTimeout > 0 {
		flags["download-timeout"] = downloadTimeout
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	factory := surface.NewRodFactory(surface.RodFactoryConfig{
		Headless:        cfg.Surface.Headless,
		NavigateTimeout: cfg.Surface.NavigateTimeout,
	})

	outcome, err := scraper.New(cfg, factory, log).Run(query)
	if err != nil {
		return err
	}

	fmt.Printf("Discovered %d URLs, downloaded %d of %d requested\n",
		len(outcome.URLs), len(outcome.Images), cfg.Harvest.TargetCount)

	if len(outcome.ErrorsByKind) > 0 {
		fmt.Fprintln(os.Stderr, "Failures by kind:")
		for kind, urls := range outcome.ErrorsByKind {
			fmt.Fprintf(os.Stderr, "  %s (%d):\n", kind, len(urls))
			for _, u := range urls {
				fmt.Fprintf(os.Stderr, "    %s\n", u)
			}
		}
	}

	if cfg.Classify.Enabled && len(outcome.Images) > 0 {
		if err := classifyImages(cmd.Context(), cfg, query, outcome, log); err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}
	}

	return nil
}

// classifyImages labels the downloaded images and writes the per-term records
func classifyImages(ctx context.Context, cfg *config.Config, query string, outcome *scraper.Outcome, log logger.Logger) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	cred, err := manager.Retrieve(cfg.Classify.CredentialName)
	if err != nil {
		return fmt.Errorf("no vision credential stored, run 'imageharvest auth set': %w", err)
	}
	if cred.APIKey == "" {
		return fmt.Errorf("stored credential has no API key")
	}

	uris := make([]string, 0, len(outcome.Images))
	for _, img := range outcome.Images {
		uris = append(uris, img.SourceURL)
	}

	results := classify.ClassifyBatch(ctx, classify.NewVisionAnnotator(cred.APIKey), uris, log)

	path, err := classify.WriteRecords(cfg.Output.ClassificationsDir, query, results, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Classified %d of %d images, records written to %s\n", len(results), len(uris), path)
	return nil
}
