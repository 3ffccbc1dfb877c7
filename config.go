package taskmgr

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON or YAML. The zero-value of nested fields
// inherits package defaults via DefaultConfig.
type Config struct {
	// RetentionMs is how long a terminal task stays queryable before it is
	// removed from the registry; zero or negative removes synchronously at
	// the terminal transition.
	RetentionMs int `json:"retentionMs" yaml:"retentionMs"`

	// QueueVendor selects the event transport: "memory" or "fs".
	QueueVendor string `json:"queueVendor" yaml:"queueVendor"`

	// LogLevel is a logrus level name; empty keeps the logger default.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig returns a Config populated with the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		RetentionMs: 60_000,
		QueueVendor: "memory",
	}
}

// Retention returns the retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionMs) * time.Millisecond
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.QueueVendor {
	case "", "memory", "fs":
	default:
		return fmt.Errorf("unsupported queue vendor: %s", c.QueueVendor)
	}
	return nil
}

// LoadConfig reads a YAML config from the given URL (file path, file:// or
// any scheme the afs service understands).
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
