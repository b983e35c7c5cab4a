package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"imageharvest/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage imageharvest configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IMAGEHARVEST_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'imageharvest.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields and URL template placeholders
  - Value types and ranges
  - Path accessibility`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "imageharvest.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	exampleConfig := `# imageharvest configuration file
#
# All options can also be set with environment variables prefixed with
# IMAGEHARVEST_, for example IMAGEHARVEST_TARGET_COUNT=50.

# Result surface: where to search and which selectors identify things.
# These encode assumptions about a third-party page's markup and will
# need updating when the page changes.
surface:
  # {query} is replaced with the URL-escaped search term
  search_url_template: "https://www.google.com/search?safe=off&site=&tbm=isch&source=hp&q={query}&oq={query}&gs_l=img"

  # Clickable thumbnail elements
  thumbnail_selector: "img.Q4LuWd"

  # Full-resolution image elements revealed by clicking a thumbnail
  image_selector: "img.n3VNCb"

  # Pagination controls
  load_more_selector: ".mye4qd"
  see_more_anyway_selector: ".r0zKGf"

  # Order the controls are tried in
  control_priority: ["see_more_anyway", "load_more"]

  # Run the browser headless
  headless: true

  # Navigation timeout
  navigate_timeout: 30s

# Harvest loop
harvest:
  # Number of images to collect
  target_count: 5

  # Minimum pause between page interactions. The actual pause is drawn
  # from [min_interval, 2*min_interval).
  min_interval: 400ms

# Image downloads
download:
  timeout: 30s
  user_agent: ""

# Retry behaviour for image fetches
retry:
  max_attempts: 3
  initial_delay: 1s
  max_delay: 30s
  multiplier: 2.0

# Output locations
output:
  target_dir: "./downloads"
  classifications_dir: "./image_classifications"

# Vision classification (requires a stored credential, see 'imageharvest auth')
classify:
  enabled: false
  credential_name: "vision"

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, empty logs to stderr only)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	fmt.Printf("Configuration file created: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust selectors and defaults as needed")
	fmt.Println("2. Run 'imageharvest config validate' to check the configuration")
	fmt.Println("3. Start harvesting with 'imageharvest harvest <query>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Println("Current configuration:")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (IMAGEHARVEST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		possiblePaths := []string{
			"imageharvest.yaml",
			"imageharvest.yml",
			".imageharvest.yaml",
			".imageharvest.yml",
			filepath.Join(os.Getenv("HOME"), ".imageharvest.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "imageharvest", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			return fmt.Errorf("no configuration file found, specify one with --config")
		}
	}

	fmt.Printf("Validating %s\n", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var problems []string

	if cfg.Output.TargetDir != "" {
		if err := os.MkdirAll(cfg.Output.TargetDir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
		}
	}
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration has errors:")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Target count: %d\n", cfg.Harvest.TargetCount)
	fmt.Printf("  Min interval: %s\n", cfg.Harvest.MinInterval)
	fmt.Printf("  Output directory: %s\n", cfg.Output.TargetDir)
	fmt.Printf("  Max retries: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
