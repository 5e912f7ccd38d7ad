package config

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/goliatone/go-config/cfgx"
	"github.com/goliatone/go-content-bridge/pkg/domain"
)

// Config captures bridge-level configuration knobs. The bridge facade and
// the change observer pull from these nested structs.
type Config struct {
	// ContentSourceType identifies the backing store flavor to the host.
	ContentSourceType string `mapstructure:"content_source_type" json:"content_source_type"`
	// ProjectID is the backing store's project identifier. Required.
	ProjectID string `mapstructure:"project_id" json:"project_id"`
	// Environment names the store environment (e.g. main, staging).
	Environment string `mapstructure:"environment" json:"environment"`
	// ManageURLBase prefixes editor-facing locator URLs. Required.
	ManageURLBase string `mapstructure:"manage_url_base" json:"manage_url_base"`
	// PublicBaseURL prefixes store-relative asset file paths.
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`

	Watch WatchConfig `mapstructure:"watch" json:"watch"`
}

// WatchConfig tunes the change observer.
type WatchConfig struct {
	// BatchBuffer bounds queued native batches before store delivery blocks.
	BatchBuffer int `mapstructure:"batch_buffer" json:"batch_buffer"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		ContentSourceType: "content-store",
		Environment:       "main",
		Watch: WatchConfig{
			BatchBuffer: 8,
		},
	}
}

// Validate ensures required fields are present and sane. Missing required
// construction parameters surface as MissingConfigurationError.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return &domain.MissingConfigurationError{Key: "project_id"}
	}
	if c.ManageURLBase == "" {
		return &domain.MissingConfigurationError{Key: "manage_url_base"}
	}
	if c.Watch.BatchBuffer < 0 {
		return fmt.Errorf("watch.batch_buffer must be >= 0")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers,
// falling back to a lightweight decoder for plain maps and structs.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.ContentSourceType == "" {
		c.ContentSourceType = defaults.ContentSourceType
	}
	if c.Environment == "" {
		c.Environment = defaults.Environment
	}
	if c.Watch.BatchBuffer == 0 {
		c.Watch.BatchBuffer = defaults.Watch.BatchBuffer
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
