// SPDX-License-Identifier: MIT

// Package config holds the YAML configuration of the desing command: the
// input variety and the engine and provider settings. Files are read
// through viant/afs, so any afs URL (file, mem, cloud storage) works.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/desing/groebner"
	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/poly"
	"github.com/katalvlaran/desing/resolve"
	"github.com/katalvlaran/desing/singular"
)

// Sentinel errors of configuration validation.
var (
	// ErrNoVariables indicates an empty variable list.
	ErrNoVariables = errors.New("config: no variables")

	// ErrNoIdeal indicates an empty input ideal.
	ErrNoIdeal = errors.New("config: no ideal")

	// ErrUnknownProvider indicates a provider name other than native or singular.
	ErrUnknownProvider = errors.New("config: unknown provider")

	// ErrUnknownMode indicates a mode other than global or local.
	ErrUnknownMode = errors.New("config: unknown mode")
)

const (
	// ProviderNative selects the pure-Go groebner provider.
	ProviderNative = "native"
	// ProviderSingular selects the external Singular provider.
	ProviderSingular = "singular"
)

// Provider selects and configures the ideal-arithmetic kernel.
type Provider struct {
	Name        string        `yaml:"name"`
	Binary      string        `yaml:"binary,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	MaxPairs    int           `yaml:"maxPairs,omitempty"`
}

// Config is one run of the command.
type Config struct {
	Vars        []string `yaml:"vars"`
	Ideal       string   `yaml:"ideal"`
	Ambient     string   `yaml:"ambient,omitempty"`
	Divisors    []string `yaml:"divisors,omitempty"`
	Center      string   `yaml:"center,omitempty"`
	Mode        string   `yaml:"mode,omitempty"`
	Pruning     string   `yaml:"pruning,omitempty"`
	Checks      string   `yaml:"checks,omitempty"`
	Parallelism int      `yaml:"parallelism,omitempty"`
	Seed        int64    `yaml:"seed,omitempty"`
	MaxCharts   int      `yaml:"maxCharts,omitempty"`
	Out         string   `yaml:"out,omitempty"`
	Provider    Provider `yaml:"provider"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mode:        "global",
		Pruning:     "keep-pairs",
		Parallelism: resolve.DefaultParallelism,
		Seed:        resolve.DefaultSeed,
		Provider: Provider{
			Name:        ProviderNative,
			Binary:      singular.DefaultBinary,
			Timeout:     singular.DefaultTimeout,
			Concurrency: singular.DefaultConcurrency,
		},
	}
}

// Load reads a YAML configuration from URL on top of Default.
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("config: download %s: %w", URL, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", URL, err)
	}

	return cfg, nil
}

// Validate checks the fields that do not need a ring.
func (c *Config) Validate() error {
	if len(c.Vars) == 0 {
		return ErrNoVariables
	}
	if strings.TrimSpace(c.Ideal) == "" {
		return ErrNoIdeal
	}
	switch c.Provider.Name {
	case ProviderNative, ProviderSingular:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider.Name)
	}
	if _, err := c.mode(); err != nil {
		return err
	}
	if _, err := resolve.ParsePruning(c.Pruning); err != nil {
		return err
	}
	if _, err := resolve.ParseCheck(c.Checks); err != nil {
		return err
	}

	return nil
}

func (c *Config) mode() (resolve.Mode, error) {
	switch c.Mode {
	case "", "global":
		return resolve.ModeGlobal, nil
	case "local":
		return resolve.ModeLocal, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
}

// Input is the parsed variety of a configuration.
type Input struct {
	Ring   *poly.Ring
	Ideal  ideal.Ideal
	Center ideal.Ideal
	Object resolve.Config
}

// Parse builds the ring and parses every ideal of the configuration.
func (c *Config) Parse() (*Input, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r, err := poly.NewRing(c.Vars...)
	if err != nil {
		return nil, err
	}
	in := &Input{Ring: r}
	if in.Ideal, err = ideal.Parse(r, c.Ideal); err != nil {
		return nil, fmt.Errorf("config: ideal: %w", err)
	}
	if c.Center != "" {
		if in.Center, err = ideal.Parse(r, c.Center); err != nil {
			return nil, fmt.Errorf("config: center: %w", err)
		}
	}
	if c.Ambient != "" {
		if in.Object.Ambient, err = ideal.Parse(r, c.Ambient); err != nil {
			return nil, fmt.Errorf("config: ambient: %w", err)
		}
	}
	for i, s := range c.Divisors {
		E, err := ideal.Parse(r, s)
		if err != nil {
			return nil, fmt.Errorf("config: divisor %d: %w", i, err)
		}
		in.Object.Divisors = append(in.Object.Divisors, E)
	}

	return in, nil
}

// Options returns the engine options of the configuration.
func (c *Config) Options(logger *zap.Logger) ([]resolve.Option, error) {
	m, err := c.mode()
	if err != nil {
		return nil, err
	}
	p, err := resolve.ParsePruning(c.Pruning)
	if err != nil {
		return nil, err
	}
	checks, err := resolve.ParseCheck(c.Checks)
	if err != nil {
		return nil, err
	}
	opts := []resolve.Option{
		resolve.WithMode(m),
		resolve.WithPruning(p),
		resolve.WithChecks(checks),
		resolve.WithSeed(c.Seed),
		resolve.WithLogger(logger),
	}
	if c.Parallelism > 0 {
		opts = append(opts, resolve.WithParallelism(c.Parallelism))
	}
	if c.MaxCharts > 0 {
		opts = append(opts, resolve.WithMaxCharts(c.MaxCharts))
	}

	return opts, nil
}

// Kernel builds the configured provider.
func (c *Config) Kernel(logger *zap.Logger) (*ideal.Kernel, error) {
	var p ideal.Provider
	switch c.Provider.Name {
	case ProviderNative, "":
		opts := []groebner.Option{groebner.WithLogger(logger)}
		if c.Provider.MaxPairs > 0 {
			opts = append(opts, groebner.WithMaxPairs(c.Provider.MaxPairs))
		}
		p = groebner.New(opts...)
	case ProviderSingular:
		opts := []singular.Option{singular.WithLogger(logger)}
		if c.Provider.Binary != "" {
			opts = append(opts, singular.WithBinary(c.Provider.Binary))
		}
		if c.Provider.Timeout > 0 {
			opts = append(opts, singular.WithTimeout(c.Provider.Timeout))
		}
		if c.Provider.Concurrency > 0 {
			opts = append(opts, singular.WithConcurrency(c.Provider.Concurrency))
		}
		p = singular.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider.Name)
	}

	return ideal.NewKernel(p)
}
