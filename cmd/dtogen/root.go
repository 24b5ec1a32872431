package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

type rootOptions struct {
	verbose bool
	// environ replaces the process environment when not nil.
	environ map[string]string
	// newLogger replaces the zap logger constructor when not nil.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	if opts == nil {
		opts = &rootOptions{}
	}
	cmd := &cobra.Command{
		Use:   "dtogen",
		Short: "Generate Go DTOs from an entity model",
		Long: `dtogen derives the data-transfer objects of every entity in a model file
(entity types, create/update/where inputs, resolver args and enums) and writes
them as one Go file per DTO.

The synthesis runs on a pool of THREADS workers (default 3).`,
		Version:      buildVersion(),
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "V", false, "enable debug logging")
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(
		newGenerateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.newLogger != nil {
		return o.newLogger(o.verbose)
	}
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dtogen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "dtogen", buildVersion())
		},
	}
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// examples formats cobra examples.
func examples(ex ...string) string {
	for i := range ex {
		ex[i] = "  " + ex[i]
	}
	return strings.Join(ex, "\n")
}
