package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"metharvest/pkg/config"
	"metharvest/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage metharvest configuration files.

Configuration is loaded from:
  - Command line flags (highest priority)
  - Environment variables (METHARVEST_*)
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with the common options.

The file is created in the current directory as '.metharvest.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after merging all sources.`,
	Run:   runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the configuration for syntax errors and invalid values.

This checks YAML syntax, required fields, and value ranges.`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# metharvest configuration file
#
# Every key is optional; omitted keys keep their defaults. Options can also
# be set through environment variables prefixed with METHARVEST_, for
# example METHARVEST_DATASET_PATH or METHARVEST_MAX_IMAGES.

dataset:
  # Output directory for images and metadata files
  path: "./iran_pottery_dataset"

harvest:
  # Global cap on downloaded images
  max_images: 200

  # Concurrent workers for object fetching and image downloads
  workers: 16

  # Search queries run against the collection API.
  # Uncomment to replace the built-in query list.
  # queries:
  #   - "Persian pottery"
  #   - "Safavid pottery"

http:
  # Image download attempts before giving up on an object
  retries: 4

  # Minimum image payload size in bytes; smaller responses are treated as
  # placeholder images and retried
  min_image_size: 10240

logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path; leave empty to log to stdout only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".metharvest.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("configuration file already exists: %s", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("failed to create configuration file: %v", err)
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: %s", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file")
	fmt.Println("2. Run 'metharvest config validate' to check it")
	fmt.Println("3. Start harvesting with 'metharvest harvest'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("failed to load configuration: %v", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("failed to format configuration: %v", err)
		os.Exit(1)
	}

	ui.PrintInfo("Configuration", "effective values after merging all sources")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (METHARVEST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (default locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("configuration validation failed: %v", err)
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Dataset directory: %s\n", cfg.Dataset.Path)
	fmt.Printf("  Max images: %d\n", cfg.Harvest.MaxImages)
	fmt.Printf("  Workers: %d\n", cfg.Harvest.Workers)
	fmt.Printf("  Search queries: %d\n", len(cfg.Harvest.Queries))
	fmt.Printf("  Download retries: %d\n", cfg.HTTP.Retries)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
