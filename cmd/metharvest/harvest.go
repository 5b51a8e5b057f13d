package main

import (
	"github.com/spf13/cobra"

	"metharvest/pkg/config"
	"metharvest/pkg/harvest"
	"metharvest/pkg/logger"
	"metharvest/pkg/ui"
)

var (
	datasetPath string
	maxImages   int
	workers     int
)

// harvestCmd runs the full pipeline with no further parameters.
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run the full search, classify, sample, and download pipeline",
	Long: `Run the complete harvesting pipeline:

  1. Search the collection API for the configured query list.
  2. Fetch and classify every discovered object by historical period.
  3. Sample evenly across periods up to the global image cap.
  4. Download images and write JSON + CSV metadata.`,
	Example: `  # Harvest with default settings
  metharvest harvest

  # Harvest into a custom directory with a smaller cap
  metharvest harvest --dataset ./pottery --max-images 50`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "dataset output directory")
	harvestCmd.Flags().IntVarP(&maxImages, "max-images", "m", 0, "maximum total number of images")
	harvestCmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker pool size")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if datasetPath != "" {
		flags["dataset"] = datasetPath
	}
	if maxImages > 0 {
		flags["max-images"] = maxImages
	}
	if workers > 0 {
		flags["workers"] = workers
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("failed to load configuration: %v", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("failed to initialize logger: %v", err)
		return err
	}

	logger.WithField("version", version).Info("metharvest starting")

	h, err := harvest.New(cfg)
	if err != nil {
		ui.PrintError("failed to initialize harvester: %v", err)
		return err
	}

	if err := h.Run(); err != nil {
		logger.WithError(err).Error("harvest failed")
		ui.PrintError("HARVEST FAILED: %v", err)
		return err
	}

	return nil
}
