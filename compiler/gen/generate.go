package gen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syssam/dtogen/compiler/load"
)

// Generator runs the CreateDTOs event: synthesis on the worker pool, module
// assembly and the hooks around them.
type Generator struct {
	config     *Config
	dispatcher *Dispatcher
	assembler  *Assembler
}

// NewGenerator creates a Generator. A nil config uses the defaults.
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = &Config{Workers: DefaultWorkers}
	}
	return &Generator{
		config:     cfg,
		dispatcher: NewDispatcher(cfg),
		assembler:  NewAssembler(cfg),
	}
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config { return g.config }

// Assembler returns the assembler used by CreateDTOs.
func (g *Generator) Assembler() *Assembler { return g.assembler }

// CreateDTOs synthesizes the DTOs of the given entities and assembles them
// into a ModuleMap, running the hooks registered for EventCreateDTOs.
func (g *Generator) CreateDTOs(ctx context.Context, entities []*load.Entity) (*ModuleMap, error) {
	log := g.config.logger().With(zap.String("run_id", uuid.NewString()))
	start := time.Now()
	log.Info("creating DTOs", zap.Int("entities", len(entities)), zap.Int("workers", g.dispatcher.Workers()))

	hooks := g.config.hooksFor(EventCreateDTOs)
	params := &CreateDTOsParams{Entities: entities}
	if err := runBefore(ctx, hooks, params); err != nil {
		return nil, err
	}
	sets, err := g.dispatcher.SynthesizeAll(ctx, params.Entities)
	if err != nil {
		log.Error("synthesize DTOs", zap.Error(err))
		return nil, err
	}
	params.Sets = sets
	modules, err := g.assembler.Assemble(sets)
	if err != nil {
		log.Error("assemble modules", zap.Error(err))
		return nil, err
	}
	if err := runAfter(ctx, hooks, params, modules); err != nil {
		return nil, err
	}
	log.Info("created DTOs",
		zap.Int("dtos", sets.Len()),
		zap.Int("modules", modules.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return modules, nil
}

// Generate creates the DTOs of the given entities and writes them to the
// configured target directory.
func (g *Generator) Generate(ctx context.Context, entities []*load.Entity) (*WriterMetrics, error) {
	if g.config.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	modules, err := g.CreateDTOs(ctx, entities)
	if err != nil {
		return nil, err
	}
	w := NewWriter(g.config.Target).WithWorkers(g.config.PoolSize())
	if err := w.Write(ctx, modules); err != nil {
		return nil, err
	}
	g.config.logger().Info("wrote modules",
		zap.String("target", g.config.Target),
		zap.Int("files", w.Metrics().FilesWritten),
		zap.Int64("bytes", w.Metrics().TotalBytes),
	)
	return w.Metrics(), nil
}
