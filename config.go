package lamina

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Strategy names for layout inference.
const (
	// StrategyRules selects the rule-based inferrer (default)
	StrategyRules = "rules"

	// StrategyDensity selects the density-clustering inferrer
	StrategyDensity = "density"
)

// Config is the engine configuration surface. The zero value is not usable;
// start from DefaultConfig and override fields, or load a YAML file.
type Config struct {
	// Strategy selects the layout inference strategy: "rules" or
	// "density" (default: "rules")
	Strategy string `yaml:"strategy"`

	// Workers bounds page-level concurrency; 0 means one worker per CPU
	Workers int `yaml:"workers"`

	// TargetChunkSize is the preferred chunk size in characters
	TargetChunkSize int `yaml:"target_chunk_size"`

	// MinChunkSize is the floor below which a trailing chunk merges into
	// its predecessor
	MinChunkSize int `yaml:"min_chunk_size"`

	// OverlapMin and OverlapMax bound the inter-chunk overlap
	OverlapMin int `yaml:"overlap_min"`
	OverlapMax int `yaml:"overlap_max"`

	// TableCeilingRatio relaxes the size ceiling for table-preserving
	// chunks
	TableCeilingRatio float64 `yaml:"table_ceiling_ratio"`

	// TableMinConfidence is the acceptance floor for table candidates
	TableMinConfidence float64 `yaml:"table_min_confidence"`

	// MultiColumnThreshold and PossiblyThreshold are the base layout
	// evidence thresholds
	MultiColumnThreshold float64 `yaml:"multi_column_threshold"`
	PossiblyThreshold    float64 `yaml:"possibly_threshold"`

	// RepeatTableHeader repeats the header row when a table group splits
	RepeatTableHeader bool `yaml:"repeat_table_header"`

	// MinChunksPerPage and MaxChunksPerPage guard how many chunks one
	// page may produce; 0 disables either guard
	MinChunksPerPage int `yaml:"min_chunks_per_page"`
	MaxChunksPerPage int `yaml:"max_chunks_per_page"`

	// Logger receives structured debug logging; nil disables logging
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:             StrategyRules,
		Workers:              0,
		TargetChunkSize:      1800,
		MinChunkSize:         200,
		OverlapMin:           100,
		OverlapMax:           300,
		TableCeilingRatio:    1.2,
		TableMinConfidence:   0.5,
		MultiColumnThreshold: 55,
		PossiblyThreshold:    35,
		RepeatTableHeader:    true,
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes over the defaults.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Strategy {
	case StrategyRules, StrategyDensity:
	case "":
		c.Strategy = StrategyRules
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}

	if c.TargetChunkSize <= 0 {
		return fmt.Errorf("target_chunk_size must be positive, got %d", c.TargetChunkSize)
	}
	if c.OverlapMax < c.OverlapMin {
		return fmt.Errorf("overlap_max %d below overlap_min %d", c.OverlapMax, c.OverlapMin)
	}
	if c.OverlapMax >= c.TargetChunkSize {
		return fmt.Errorf("overlap_max %d must be below target_chunk_size %d", c.OverlapMax, c.TargetChunkSize)
	}
	if c.MaxChunksPerPage > 0 && c.MinChunksPerPage > c.MaxChunksPerPage {
		return fmt.Errorf("min_chunks_per_page %d above max_chunks_per_page %d", c.MinChunksPerPage, c.MaxChunksPerPage)
	}
	return nil
}

// workerCount resolves the effective worker count.
func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
