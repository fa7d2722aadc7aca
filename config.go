package lfg

import (
	"lfg/service/dispatcher"
	"lfg/service/matcher"
)

// Version identifies this library build for tracing resources.
const Version = "0.1.0"

// Config is the engine configuration. The zero value is not useful; start
// from DefaultConfig and override, or populate via LoadConfig. All nested
// fields inherit their package defaults.
type Config struct {
	Pool  dispatcher.Config
	Match matcher.Config
}

// DefaultConfig returns a Config populated with the package defaults of
// every sub-service. Callers may modify the returned struct before passing
// it to New.
func DefaultConfig() *Config {
	return &Config{
		Pool:  dispatcher.DefaultConfig(),
		Match: matcher.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if err := c.Match.Validate(); err != nil {
		return err
	}
	return nil
}
