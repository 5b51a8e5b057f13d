package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the harvester. It is constructed once
// at startup and passed explicitly to each component.
type Config struct {
	// Dataset output settings
	Dataset DatasetConfig `yaml:"dataset" json:"dataset"`

	// HTTP client and download settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Pipeline settings
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Period keyword tables
	Periods PeriodConfig `yaml:"periods" json:"periods"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DatasetConfig holds output locations.
type DatasetConfig struct {
	Path     string `yaml:"path" json:"path"`
	JSONFile string `yaml:"json_file" json:"json_file"`
	CSVFile  string `yaml:"csv_file" json:"csv_file"`
}

// HTTPConfig holds request, retry, and image-download settings.
type HTTPConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	Retries      int           `yaml:"retries" json:"retries"`
	RetryDelay   time.Duration `yaml:"retry_delay" json:"retry_delay"`
	MinImageSize int           `yaml:"min_image_size" json:"min_image_size"`
	UserAgents   []string      `yaml:"user_agents" json:"user_agents"`
}

// HarvestConfig holds pipeline-level settings.
type HarvestConfig struct {
	MaxImages  int           `yaml:"max_images" json:"max_images"`
	Workers    int           `yaml:"workers" json:"workers"`
	QueryDelay time.Duration `yaml:"query_delay" json:"query_delay"`
	Queries    []string      `yaml:"queries" json:"queries"`
}

// PeriodConfig holds the ordered keyword tables used for classification.
// Order matters: earlier entries take precedence on multiple matches.
type PeriodConfig struct {
	PreIslamic []string `yaml:"pre_islamic" json:"pre_islamic"`
	Islamic    []string `yaml:"islamic" json:"islamic"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with the standard Iranian-pottery dataset
// settings.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:     "./iran_pottery_dataset",
			JSONFile: "iran_pottery_metadata.json",
			CSVFile:  "iran_pottery_metadata.csv",
		},
		HTTP: HTTPConfig{
			BaseURL:      "https://collectionapi.metmuseum.org/public/collection/v1",
			Timeout:      25 * time.Second,
			Retries:      4,
			RetryDelay:   2 * time.Second,
			MinImageSize: 10 * 1024,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
			},
		},
		Harvest: HarvestConfig{
			MaxImages:  200,
			Workers:    16,
			QueryDelay: time.Second,
			Queries: []string{
				"Persian pottery", "Iranian ceramics", "Ancient Iranian pottery",
				"Islamic pottery Iran", "Pre-Islamic ceramics Iran",
				"Sialk pottery", "Elam pottery", "Achaemenid ceramics",
				"Parthian pottery", "Sasanian ceramics", "Chogha Zanbil pottery",
				"Haft Tepe ceramics", "Kuh-e Khwaja pottery", "Arg-e Bam ceramics",
				"Safavid pottery", "Qajar ceramics",
			},
		},
		Periods: PeriodConfig{
			PreIslamic: []string{
				"Silk", "Elam", "Achaemenid", "Parthian", "Sassanian",
				"Chogha Zanbil", "Tappeh Sialk", "Haft Tepe",
				"Kuh-e Khwaja", "Arg-e Bam", "Persepolis", "Ancient Iran",
				"Zagros", "Luristan",
			},
			Islamic: []string{
				"Islamic", "Ilkhanid", "Timurid", "Safavid", "Qajar",
				"Ottoman", "Seljuk", "Mongol", "Abbasid", "Umayyad",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. An empty path falls
// back to the default locations; a missing default file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".metharvest.yaml",
		".metharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "metharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "metharvest", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LoadFromEnv overrides configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("METHARVEST_DATASET_PATH"); path != "" {
		c.Dataset.Path = path
	}
	if baseURL := os.Getenv("METHARVEST_BASE_URL"); baseURL != "" {
		c.HTTP.BaseURL = baseURL
	}
	if maxImages := os.Getenv("METHARVEST_MAX_IMAGES"); maxImages != "" {
		var val int
		fmt.Sscanf(maxImages, "%d", &val)
		if val > 0 {
			c.Harvest.MaxImages = val
		}
	}
	if workers := os.Getenv("METHARVEST_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Harvest.Workers = val
		}
	}
	if logLevel := os.Getenv("METHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// MergeCommandLineFlags merges parsed command line flags into the
// configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dataset, ok := flags["dataset"].(string); ok && dataset != "" {
		c.Dataset.Path = dataset
	}
	if maxImages, ok := flags["max-images"].(int); ok && maxImages > 0 {
		c.Harvest.MaxImages = maxImages
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Harvest.Workers = workers
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset path is required"))
	}
	if c.Dataset.JSONFile == "" {
		errs = append(errs, errors.New("json output file is required"))
	}
	if c.Dataset.CSVFile == "" {
		errs = append(errs, errors.New("csv output file is required"))
	}
	if c.HTTP.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.HTTP.Retries <= 0 {
		errs = append(errs, errors.New("retries must be positive"))
	}
	if c.HTTP.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.HTTP.MinImageSize < 0 {
		errs = append(errs, errors.New("min image size cannot be negative"))
	}
	if len(c.HTTP.UserAgents) == 0 {
		errs = append(errs, errors.New("at least one user agent is required"))
	}
	if c.Harvest.MaxImages <= 0 {
		errs = append(errs, errors.New("max images must be positive"))
	}
	if c.Harvest.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}
	if len(c.Harvest.Queries) == 0 {
		errs = append(errs, errors.New("at least one search query is required"))
	}
	if len(c.Periods.PreIslamic) == 0 && len(c.Periods.Islamic) == 0 {
		errs = append(errs, errors.New("at least one period keyword table is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env file >
// config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".metharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
