package graphql

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/syssam/dtogen/compiler"
	"github.com/syssam/dtogen/compiler/gen"
)

// Extension implements the compiler.Extension interface. It adds the GraphQL
// schema of the DTOs and, when a gqlgen configuration is given, a gqlgen.yml
// binding the schema types to the generated Go package.
//
// Usage:
//
//	ex, err := graphql.NewExtension(
//	    graphql.WithConfigPath("./gqlgen.yml"),
//	    graphql.WithSchemaPath("graphql/schema.graphql"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./dto"),
//	    gen.WithPackage("example.com/app/dto"),
//	)
//	err = compiler.Generate(ctx, "./model.yaml", cfg, compiler.Extensions(ex))
type Extension struct {
	compiler.DefaultExtension

	// schemaPath is the module path of the schema, relative to the target.
	schemaPath string
	// schemaGenerator is false when only gqlgen.yml is wanted.
	schemaGenerator bool
	schemaFuncs     []SchemaFunc

	// gqlgenConfig is the base configuration bindings are added to. Nil
	// disables gqlgen.yml output.
	gqlgenConfig *GQLGenConfig
	gqlgenPath   string
	// configPath is the file loaded by WithConfigPath. With inPlace set, the
	// bound configuration is saved back to it instead of emitted as a module.
	configPath string
	inPlace    bool
	target     string

	// dtoPackage is the Go import path of the DTOs, taken from the generation
	// config unless set explicitly.
	dtoPackage string
}

// ExtensionOption is a function that configures the Extension.
type ExtensionOption func(*Extension) error

// NewExtension creates a new GraphQL extension with the given options.
func NewExtension(opts ...ExtensionOption) (*Extension, error) {
	ex := &Extension{
		schemaPath:      DefaultSchemaPath,
		schemaGenerator: true,
		gqlgenPath:      DefaultGQLGenPath,
	}
	for _, opt := range opts {
		if err := opt(ex); err != nil {
			return nil, err
		}
	}
	return ex, nil
}

// Hooks returns the hooks for code generation.
func (e *Extension) Hooks() []gen.Hook {
	var hooks []gen.Hook
	if e.schemaGenerator {
		hooks = append(hooks, SchemaHook(e.schemaPath, e.schemaFuncs...))
	}
	if e.gqlgenConfig != nil && e.inPlace {
		hooks = append(hooks, gen.Hook{
			Name:  "gqlgen-config-save",
			Event: gen.EventCreateDTOs,
			After: func(ctx context.Context, p *gen.CreateDTOsParams, m *gen.ModuleMap) error {
				schema, err := e.inPlaceSchemaPath()
				if err != nil {
					return err
				}
				return GQLGenSaveHook(e.gqlgenConfig, e.configPath, e.dtoPackage, schema).After(ctx, p, m)
			},
		})
	} else if e.gqlgenConfig != nil {
		hooks = append(hooks, gen.Hook{
			Name:  "gqlgen-config",
			Event: gen.EventCreateDTOs,
			// The package is resolved when the hook runs, after Options.
			After: func(ctx context.Context, p *gen.CreateDTOsParams, m *gen.ModuleMap) error {
				schema := ""
				if e.schemaGenerator {
					schema = e.schemaPath
				}
				return GQLGenHook(e.gqlgenConfig, e.gqlgenPath, e.dtoPackage, schema).After(ctx, p, m)
			},
		})
	}
	return hooks
}

// Options returns compiler options required by the extension: the DTO
// package is read from the generation config.
func (e *Extension) Options() []compiler.Option {
	return []compiler.Option{
		func(cfg *gen.Config) error {
			if e.dtoPackage == "" {
				e.dtoPackage = cfg.Package
			}
			e.target = cfg.Target
			return nil
		},
	}
}

// inPlaceSchemaPath returns the schema path as seen from the directory of the
// saved gqlgen.yml, or "" when no schema is generated.
func (e *Extension) inPlaceSchemaPath() (string, error) {
	if !e.schemaGenerator {
		return "", nil
	}
	base, err := filepath.Abs(filepath.Dir(e.configPath))
	if err != nil {
		return "", fmt.Errorf("graphql: resolve schema path: %w", err)
	}
	schema, err := filepath.Abs(filepath.Join(e.target, e.schemaPath))
	if err != nil {
		return "", fmt.Errorf("graphql: resolve schema path: %w", err)
	}
	rel, err := filepath.Rel(base, schema)
	if err != nil {
		return "", fmt.Errorf("graphql: resolve schema path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// GQLGenConfig returns the loaded gqlgen configuration, if any.
func (e *Extension) GQLGenConfig() *GQLGenConfig {
	return e.gqlgenConfig
}

// WithSchemaPath sets the module path of the schema, relative to the target
// directory. A path without the .graphql extension is treated as a directory.
func WithSchemaPath(schemaPath string) ExtensionOption {
	return func(e *Extension) error {
		if schemaPath == "" {
			return fmt.Errorf("graphql: schema path cannot be empty")
		}
		if filepath.Ext(schemaPath) != ".graphql" {
			schemaPath = filepath.ToSlash(filepath.Join(schemaPath, DefaultSchemaPath))
		}
		e.schemaPath = schemaPath
		return nil
	}
}

// WithoutSchema disables schema generation. Use it with WithConfigPath when
// the schema is maintained by hand.
func WithoutSchema() ExtensionOption {
	return func(e *Extension) error {
		e.schemaGenerator = false
		return nil
	}
}

// WithSchemaFunc adds functions that run after schema rendering, in order.
//
//	graphql.WithSchemaFunc(func(_ dto.Sets, schema string) (string, error) {
//	    return schema + "\ndirective @auth on FIELD_DEFINITION\n", nil
//	})
func WithSchemaFunc(funcs ...SchemaFunc) ExtensionOption {
	return func(e *Extension) error {
		e.schemaFuncs = append(e.schemaFuncs, funcs...)
		return nil
	}
}

// WithConfigPath loads the gqlgen.yml stored in path and enables gqlgen.yml
// output. A missing file starts from an empty configuration. The file itself
// is only modified with WithConfigInPlace; otherwise the updated copy is
// written as a module.
func WithConfigPath(path string) ExtensionOption {
	return func(e *Extension) error {
		cfg, err := LoadGQLGenConfig(path)
		if err != nil {
			return fmt.Errorf("load gqlgen config %q: %w", path, err)
		}
		e.gqlgenConfig = cfg
		e.configPath = path
		return nil
	}
}

// WithConfigInPlace saves the bound configuration back to the file given to
// WithConfigPath instead of writing a gqlgen.yml module to the target. Schema
// paths are made relative to that file.
func WithConfigInPlace() ExtensionOption {
	return func(e *Extension) error {
		if e.configPath == "" {
			return fmt.Errorf("graphql: in-place gqlgen config needs WithConfigPath")
		}
		e.inPlace = true
		return nil
	}
}

// WithGQLGenConfig sets the base gqlgen configuration directly and enables
// gqlgen.yml output.
func WithGQLGenConfig(cfg *GQLGenConfig) ExtensionOption {
	return func(e *Extension) error {
		if cfg == nil {
			return fmt.Errorf("graphql: gqlgen config cannot be nil")
		}
		e.gqlgenConfig = cfg
		return nil
	}
}

// WithGQLGenPath sets the module path of the generated gqlgen.yml.
func WithGQLGenPath(path string) ExtensionOption {
	return func(e *Extension) error {
		if path == "" {
			return fmt.Errorf("graphql: gqlgen path cannot be empty")
		}
		e.gqlgenPath = path
		return nil
	}
}

// WithDTOPackage sets the Go import path models are bound to. By default it
// is the package of the generation config.
func WithDTOPackage(pkg string) ExtensionOption {
	return func(e *Extension) error {
		e.dtoPackage = pkg
		return nil
	}
}
