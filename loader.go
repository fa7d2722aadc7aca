package lfg

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"gopkg.in/yaml.v3"
)

// configFile is the YAML schema of a configuration document. Durations are
// textual ("250ms", "3s") and parsed with time.ParseDuration; absent fields
// keep their package defaults.
type configFile struct {
	Pool struct {
		Instances       int    `yaml:"instances"`
		MinTaskDuration string `yaml:"minTaskDuration"`
		MaxTaskDuration string `yaml:"maxTaskDuration"`
		IdleDelay       string `yaml:"idleDelay"`
		RetryDelay      string `yaml:"retryDelay"`
	} `yaml:"pool"`
	Match struct {
		SeekTimeout string `yaml:"seekTimeout"`
	} `yaml:"match"`
}

// LoadConfig reads a YAML configuration from the given URL using any
// scheme afs understands (file://, embed://, mem://, ...). Missing fields
// inherit package defaults; the result is validated before returning.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	var document configFile
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse config from %s: %w", URL, err)
	}

	config := DefaultConfig()
	if document.Pool.Instances != 0 {
		config.Pool.Instances = document.Pool.Instances
	}
	if err := applyDuration(&config.Pool.MinTaskDuration, document.Pool.MinTaskDuration); err != nil {
		return nil, fmt.Errorf("pool.minTaskDuration: %w", err)
	}
	if err := applyDuration(&config.Pool.MaxTaskDuration, document.Pool.MaxTaskDuration); err != nil {
		return nil, fmt.Errorf("pool.maxTaskDuration: %w", err)
	}
	if err := applyDuration(&config.Pool.IdleDelay, document.Pool.IdleDelay); err != nil {
		return nil, fmt.Errorf("pool.idleDelay: %w", err)
	}
	if err := applyDuration(&config.Pool.RetryDelay, document.Pool.RetryDelay); err != nil {
		return nil, fmt.Errorf("pool.retryDelay: %w", err)
	}
	if err := applyDuration(&config.Match.SeekTimeout, document.Match.SeekTimeout); err != nil {
		return nil, fmt.Errorf("match.seekTimeout: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyDuration(dest *time.Duration, text string) error {
	if text == "" {
		return nil
	}
	d, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*dest = d
	return nil
}
