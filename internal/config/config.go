// Package config loads the optional HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/hsklein/mtstates/internal/substream"
)

// DefaultPath is the file Load is pointed at when no --config flag is given.
const DefaultPath = "mtstates.hcl"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration with defaults applied.
type Config struct {
	Seed     uint32
	Distance uint64
	Workers  int
	LogLevel string
}

// file mirrors the HCL layout. Pointers tell absent values from zero.
type file struct {
	Generator *generatorBlock `hcl:"generator,block"`
	Logging   *loggingBlock   `hcl:"logging,block"`
}

type generatorBlock struct {
	Seed     *uint32 `hcl:"seed,optional"`
	Distance *uint64 `hcl:"distance,optional"`
	Workers  *int    `hcl:"workers,optional"`
}

type loggingBlock struct {
	Level *string `hcl:"level,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Seed:     substream.DefaultSeed,
		Distance: substream.DefaultDistance,
		Workers:  1,
		LogLevel: "info",
	}
}

// Load reads filename, falling back to defaults for the file or any value
// it leaves out.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if g := raw.Generator; g != nil {
		if g.Seed != nil {
			cfg.Seed = *g.Seed
		}
		if g.Distance != nil {
			cfg.Distance = *g.Distance
		}
		if g.Workers != nil {
			cfg.Workers = *g.Workers
		}
	}
	if l := raw.Logging; l != nil && l.Level != nil {
		cfg.LogLevel = *l.Level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot describe a usable run.
func (c *Config) Validate() error {
	if c.Distance == 0 {
		return fmt.Errorf("%w: distance must be positive", ErrInvalid)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Substream converts the configuration into a run of count substreams.
func (c *Config) Substream(count int) substream.Config {
	return substream.Config{
		Seed:     c.Seed,
		Distance: c.Distance,
		Count:    count,
		Workers:  c.Workers,
	}
}
