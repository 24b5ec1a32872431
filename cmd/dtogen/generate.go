package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/dtogen/compiler"
	"github.com/syssam/dtogen/compiler/gen"
	"github.com/syssam/dtogen/contrib/graphql"
)

type generateOptions struct {
	target     string
	pkg        string
	header     string
	threads    int
	graphql    bool
	schemaPath string
	gqlgen     string
	inPlace    bool
	qualified  bool
	watch      bool
	dryRun     bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [flags] path/to/model.yaml",
		Short: "Generate DTOs from an entity model",
		Example: examples(
			"dtogen generate ./model.yaml --target ./dto --package example.com/app/dto",
			"THREADS=8 dtogen generate ./model.yaml -t ./dto --graphql",
			"dtogen generate ./model.yaml -t ./dto --gqlgen ./gqlgen.yml --watch",
			"dtogen generate ./model.yaml -t ./internal/dto --graphql --gqlgen ./gqlgen.yml --gqlgen-inplace",
		),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			model := args[0]
			run := func(ctx context.Context) error {
				return opts.run(ctx, cmd, root, model, log)
			}
			if err := run(cmd.Context()); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			w, err := newModelWatcher(model, log)
			if err != nil {
				return err
			}
			defer w.Close()
			log.Info("watching model", zap.String("path", model))
			return w.Run(cmd.Context(), run)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.target, "target", "t", "", "target directory for the generated files (env DTOGEN_TARGET)")
	f.StringVarP(&opts.pkg, "package", "p", "", "import path of the generated package (env DTOGEN_PACKAGE)")
	f.StringVar(&opts.header, "header", "", "header comment of the generated Go files")
	f.IntVarP(&opts.threads, "threads", "j", gen.DefaultWorkers, "number of synthesis workers (env THREADS)")
	f.BoolVar(&opts.graphql, "graphql", false, "also generate the GraphQL schema")
	f.StringVar(&opts.schemaPath, "schema-path", graphql.DefaultSchemaPath, "path of the GraphQL schema, relative to the target")
	f.StringVar(&opts.gqlgen, "gqlgen", "", "gqlgen.yml to bind the generated DTOs into")
	f.BoolVar(&opts.inPlace, "gqlgen-inplace", false, "update the --gqlgen file in place instead of writing a copy to the target")
	f.BoolVar(&opts.qualified, "qualified-enums", false, "prefix enum names with their entity, e.g. EnumOrderStatus")
	f.BoolVarP(&opts.watch, "watch", "w", false, "regenerate when the model file changes")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the module paths instead of writing them")
	return cmd
}

// run executes one generation. The configuration is rebuilt on every call,
// since extensions append their hooks to it.
func (o *generateOptions) run(ctx context.Context, cmd *cobra.Command, root *rootOptions, model string, log *zap.Logger) error {
	if o.inPlace && o.gqlgen == "" {
		return gen.NewConfigError("GQLGen", nil, "--gqlgen-inplace needs --gqlgen")
	}
	cfg, err := o.config(cmd, root, log)
	if err != nil {
		return err
	}
	var copts []compiler.Option
	if o.graphql || o.gqlgen != "" {
		ex, err := o.extension()
		if err != nil {
			return err
		}
		copts = append(copts, compiler.Extensions(ex))
	}
	if o.dryRun {
		modules, err := compiler.CreateDTOs(ctx, model, cfg, copts...)
		if err != nil {
			return err
		}
		for _, p := range modules.Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}
	if cfg.Target == "" {
		return gen.NewConfigError("Target", nil, "target directory is required (--target or DTOGEN_TARGET)")
	}
	return compiler.Generate(ctx, model, cfg, copts...)
}

// config merges the environment and the flags. Flags take precedence.
func (o *generateOptions) config(cmd *cobra.Command, root *rootOptions, log *zap.Logger) (*gen.Config, error) {
	var (
		env *gen.Env
		err error
	)
	if root.environ != nil {
		env, err = gen.LoadEnvFrom(root.environ)
	} else {
		env, err = gen.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{gen.WithEnv(env), gen.WithLogger(log)}
	if cmd.Flags().Changed("threads") {
		opts = append(opts, gen.WithWorkers(o.threads))
	}
	if o.target != "" {
		opts = append(opts, gen.WithTarget(o.target))
	}
	if o.pkg != "" {
		opts = append(opts, gen.WithPackage(o.pkg))
	}
	if o.header != "" {
		opts = append(opts, gen.WithHeader(o.header))
	}
	if o.qualified {
		opts = append(opts, gen.WithQualifiedEnums())
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (o *generateOptions) extension() (*graphql.Extension, error) {
	opts := []graphql.ExtensionOption{graphql.WithSchemaPath(o.schemaPath)}
	if !o.graphql {
		opts = append(opts, graphql.WithoutSchema())
	}
	if o.gqlgen != "" {
		opts = append(opts, graphql.WithConfigPath(o.gqlgen))
	}
	// A dry run never touches the gqlgen file.
	if o.inPlace && !o.dryRun {
		opts = append(opts, graphql.WithConfigInPlace())
	}
	return graphql.NewExtension(opts...)
}
