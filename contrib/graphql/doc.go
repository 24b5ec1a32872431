// Package graphql adds GraphQL artifacts to a DTO generation run.
//
// It renders the synthesized DTOs as a GraphQL schema (SDL) and, optionally,
// updates a gqlgen configuration so that gqlgen binds every schema type to
// the generated Go package:
//
//   - entity DTOs become object types
//   - inputs become input types
//   - enums stay enums
//   - args DTOs become the arguments of the Query and Mutation fields
//
// # Usage
//
//	//go:build ignore
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/syssam/dtogen/compiler"
//	    "github.com/syssam/dtogen/compiler/gen"
//	    "github.com/syssam/dtogen/contrib/graphql"
//	)
//
//	func main() {
//	    ex, err := graphql.NewExtension(
//	        graphql.WithConfigPath("./gqlgen.yml"),
//	    )
//	    if err != nil {
//	        log.Fatalf("creating graphql extension: %v", err)
//	    }
//	    cfg, err := gen.NewConfig(
//	        gen.WithTarget("./dto"),
//	        gen.WithPackage("example.com/app/dto"),
//	    )
//	    if err != nil {
//	        log.Fatalf("creating config: %v", err)
//	    }
//	    if err := compiler.Generate(context.Background(), "./model.yaml", cfg,
//	        compiler.Extensions(ex),
//	    ); err != nil {
//	        log.Fatalf("running dtogen: %v", err)
//	    }
//	}
package graphql
