// Package compiler provides an API for generating DTOs from an entity model
// file.
package compiler

import (
	"context"

	"github.com/syssam/dtogen/compiler/gen"
	"github.com/syssam/dtogen/compiler/load"
)

// Option allows for managing the generation configuration using functional
// options.
type Option func(*gen.Config) error

// Extension describes an extension of the generation run. Extensions
// contribute hooks and configuration options.
type Extension interface {
	// Hooks holds an optional list of hooks to run around the CreateDTOs event.
	Hooks() []gen.Hook
	// Options holds the options to apply on the configuration.
	Options() []Option
}

// DefaultExtension is the default implementation of Extension. Embed it in
// an extension to implement only the methods it needs.
type DefaultExtension struct{}

// Hooks of the extension.
func (DefaultExtension) Hooks() []gen.Hook { return nil }

// Options of the extension.
func (DefaultExtension) Options() []Option { return nil }

var _ Extension = (*DefaultExtension)(nil)

// Extensions evaluates the list of Extensions on the configuration.
//
//	compiler.Generate(ctx, "./model.yaml", cfg, compiler.Extensions(ex))
func Extensions(extensions ...Extension) Option {
	return func(cfg *gen.Config) error {
		for _, ex := range extensions {
			cfg.Hooks = append(cfg.Hooks, ex.Hooks()...)
			for _, opt := range ex.Options() {
				if err := opt(cfg); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// LoadSchema loads and validates the entity model stored in path.
func LoadSchema(path string) (*load.Schema, error) {
	s, err := load.LoadFile(path)
	if err != nil {
		return nil, gen.NewSchemaError("", "", path, err)
	}
	return s, nil
}

// CreateDTOs loads the model and runs the CreateDTOs event without writing
// anything.
func CreateDTOs(ctx context.Context, modelPath string, cfg *gen.Config, options ...Option) (*gen.ModuleMap, error) {
	g, s, err := prepare(modelPath, cfg, options...)
	if err != nil {
		return nil, err
	}
	return g.CreateDTOs(ctx, s.Entities)
}

// Generate runs the generation over the model stored in modelPath and writes
// the result to cfg.Target.
func Generate(ctx context.Context, modelPath string, cfg *gen.Config, options ...Option) error {
	g, s, err := prepare(modelPath, cfg, options...)
	if err != nil {
		return err
	}
	_, err = g.Generate(ctx, s.Entities)
	return err
}

func prepare(modelPath string, cfg *gen.Config, options ...Option) (*gen.Generator, *load.Schema, error) {
	if cfg == nil {
		return nil, nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	for _, opt := range options {
		if err := opt(cfg); err != nil {
			return nil, nil, err
		}
	}
	s, err := LoadSchema(modelPath)
	if err != nil {
		return nil, nil, err
	}
	return gen.NewGenerator(cfg), s, nil
}
