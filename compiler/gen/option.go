package gen

import (
	"errors"
	"go/token"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/dtogen/compiler/dto"
)

const (
	// DefaultWorkers is the worker pool size used when none (or an invalid
	// one) is configured.
	DefaultWorkers = 3
	// DefaultHeader is the header comment of every generated Go file.
	DefaultHeader = "Code generated by dtogen. DO NOT EDIT."
	// DefaultPackage is the generated package name when Package is unset.
	DefaultPackage = "dto"
)

// Config holds the configuration of a generation run.
type Config struct {
	// Package is the import path of the generated package,
	// e.g. "github.com/org/project/dto".
	Package string
	// Target is the directory generated modules are written to.
	Target string
	// Header is the comment placed at the top of each generated Go file.
	Header string
	// Workers is the size of the synthesis worker pool. Values below 1
	// fall back to DefaultWorkers.
	Workers int
	// Synthesizer produces the DTO set of each entity. Defaults to dto.NewBuilder().
	Synthesizer dto.Synthesizer
	// QualifiedEnums prefixes enum DTO names with their entity name. It only
	// applies to the default synthesizer.
	QualifiedEnums bool
	// Hooks run around the CreateDTOs event.
	Hooks []Hook
	// Logger receives structured generation logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// PackageName returns the Go package name of the generated files.
func (c *Config) PackageName() string {
	if c.Package == "" {
		return DefaultPackage
	}
	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, path.Base(c.Package))
	if !token.IsIdentifier(name) {
		return DefaultPackage
	}
	return name
}

// HeaderComment returns the configured header or DefaultHeader.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// PoolSize returns the effective worker pool size.
func (c *Config) PoolSize() int {
	if c.Workers < 1 {
		return DefaultWorkers
	}
	return c.Workers
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Config) synthesizer() dto.Synthesizer {
	if c.Synthesizer == nil {
		if c.QualifiedEnums {
			return dto.NewBuilder(dto.WithQualifiedEnumNames())
		}
		return dto.NewBuilder()
	}
	return c.Synthesizer
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/dto".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of parallel synthesis workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithSynthesizer replaces the default DTO synthesis unit.
func WithSynthesizer(s dto.Synthesizer) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Synthesizer", nil, "synthesizer cannot be nil")
		}
		c.Synthesizer = s
		return nil
	}
}

// WithQualifiedEnums names enum DTOs after their entity and field, e.g.
// EnumOrderStatus instead of EnumStatus.
func WithQualifiedEnums() Option {
	return func(c *Config) error {
		c.QualifiedEnums = true
		return nil
	}
}

// WithHooks adds generation hooks.
// Hooks are called before/after the CreateDTOs event.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Workers: DefaultWorkers}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
