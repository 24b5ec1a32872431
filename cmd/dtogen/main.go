// dtogen generates Go DTOs, and optionally a GraphQL schema, from an entity
// model file.
//
// Usage:
//
//	dtogen generate [flags] path/to/model.yaml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(nil).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
