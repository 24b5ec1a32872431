// Package gen orchestrates DTO generation for an entity model.
//
// # Architecture
//
// A run follows this flow:
//
//	[]*load.Entity
//	        ↓
//	   Dispatcher (chunks on a bounded worker pool, one barrier, key union)
//	        ↓
//	   dto.Sets (entity name → DTO set)
//	        ↓
//	   Assembler (PathTable, then one module per DTO routed on dto.Kind)
//	        ↓
//	   ModuleMap → hooks → Writer
//
// # Key Types
//
//   - Dispatcher: runs the synthesis unit over all entities in parallel
//   - PathTable: DTO name to module path, built once before emission
//   - Assembler: routes definitions to the ClassEmitter or EnumEmitter
//   - ModuleMap: path to module, unique keys
//   - Generator: the CreateDTOs event with its hooks
//   - Config: configuration built from functional options
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: entity model errors
//   - ConfigError: configuration errors
//   - GenerationError: failures of a generation phase
//   - CollisionError: two artifacts claiming one key
//
// Example error handling:
//
//	modules, err := gen.NewGenerator(cfg).CreateDTOs(ctx, entities)
//	if errors.Is(err, gen.ErrCollision) {
//	    // two DTOs share a name or a path
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./dto"),
//	    gen.WithPackage("github.com/org/project/dto"),
//	    gen.WithWorkers(4),
//	)
package gen
