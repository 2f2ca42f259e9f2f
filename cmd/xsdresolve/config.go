package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Options are the command line flags.
type Options struct {
	ConfigURL string `short:"c" long:"config" description:"YAML configuration file"`
	Output    string `short:"o" long:"out" description:"report directory (default .)"`
	Verbose   int    `short:"v" long:"verbose" description:"log verbosity, 0 to 5"`
	KeepGoing bool   `short:"k" long:"keep-going" description:"skip declarations that fail to resolve"`
	Cache     int    `long:"cache" description:"number of parsed schemas to keep"`
}

// Config holds the settings of a run.
type Config struct {
	Schema          string `yaml:"schema"`
	Output          string `yaml:"output"`
	LogLevel        int    `yaml:"logLevel"`
	ContinueOnError bool   `yaml:"continueOnError"`
	DocumentCache   int    `yaml:"documentCache"`
}

// loadConfig reads the YAML configuration at URL. An empty URL yields
// the defaults.
func loadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	cfg := &Config{}
	if URL != "" {
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", URL)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", URL)
		}
	}
	if cfg.Output == "" {
		cfg.Output = "."
	}
	return cfg, nil
}

// override applies the flags that were set on the command line.
func (c *Config) override(opts *Options, args []string) {
	if len(args) > 0 {
		c.Schema = args[0]
	}
	if opts.Output != "" {
		c.Output = opts.Output
	}
	if opts.Verbose > 0 {
		c.LogLevel = opts.Verbose
	}
	if opts.KeepGoing {
		c.ContinueOnError = true
	}
	if opts.Cache > 0 {
		c.DocumentCache = opts.Cache
	}
}
