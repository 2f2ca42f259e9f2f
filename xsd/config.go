package xsd

import (
	"context"

	"github.com/viant/afs"

	"github.com/CognitoIQ/xsdmodel/xmltree"
)

// A Config holds the settings shared by a root Resolver and the
// resolvers of every schema it includes.
type Config struct {
	logger          Logger
	loglevel        int
	continueOnError bool
	fs              afs.Service
	cacheSize       int
	loader          Loader
}

func (cfg *Config) errorf(format string, v ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}
func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Types implementing the Logger interface can receive
// debug information from the resolution process.
// The Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput specifies an optional Logger for warnings and debug
// information about the resolution process.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the error log
// configured with the LogOutput option. The level parameter should
// be a positive integer between 1 and 5, with 5 providing the greatest
// verbosity.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// ContinueOnError makes Parse and Select skip components that fail to
// resolve instead of returning the first error. Skipped failures are
// listed in Diagnostics().Errors.
func ContinueOnError(keepGoing bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.continueOnError
		cfg.continueOnError = keepGoing
		return ContinueOnError(prev)
	}
}

// Filesystem sets the storage service schema documents are read from.
// The default is afs.New(), which understands file paths and file://,
// mem:// and other afs URLs.
func Filesystem(fs afs.Service) Option {
	return func(cfg *Config) Option {
		prev := cfg.fs
		cfg.fs = fs
		return Filesystem(prev)
	}
}

// DocumentCache sets how many parsed documents the default loader keeps.
func DocumentCache(size int) Option {
	return func(cfg *Config) Option {
		prev := cfg.cacheSize
		cfg.cacheSize = size
		return DocumentCache(prev)
	}
}

// A Loader returns the parsed schema document stored at a location.
// Implementations may return the same tree for repeated calls; the
// resolver never modifies it.
type Loader interface {
	Load(ctx context.Context, location string) (*xmltree.Element, error)
}

// WithLoader makes the resolver read documents through l, so that
// several resolutions can share parsed documents. It takes precedence
// over Filesystem and DocumentCache.
func WithLoader(l Loader) Option {
	return func(cfg *Config) Option {
		prev := cfg.loader
		cfg.loader = l
		return WithLoader(prev)
	}
}
