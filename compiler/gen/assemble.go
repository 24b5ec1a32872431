package gen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/syssam/dtogen/compiler/dto"
)

// Assembler turns the synthesized DTO sets of a run into a ModuleMap. It is
// the only writer of the map it returns.
type Assembler struct {
	class Emitter
	enum  Emitter
	log   *zap.Logger
}

// NewAssembler returns an Assembler using the default emitters.
func NewAssembler(cfg *Config) *Assembler {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Assembler{
		class: NewClassEmitter(cfg),
		enum:  NewEnumEmitter(cfg),
		log:   cfg.logger(),
	}
}

// WithEmitters replaces the class and enum emitters. Nil values keep the
// current ones.
func (a *Assembler) WithEmitters(class, enum Emitter) *Assembler {
	if class != nil {
		a.class = class
	}
	if enum != nil {
		a.enum = enum
	}
	return a
}

// Assemble resolves the path table of the sets and emits one module per
// definition. Definitions are routed on their declared Kind.
func (a *Assembler) Assemble(sets dto.Sets) (*ModuleMap, error) {
	table, err := NewPathTable(sets)
	if err != nil {
		return nil, err
	}
	modules := NewModuleMap()
	for _, entity := range sets.EntityNames() {
		for _, d := range sets[entity].DTOs {
			m, err := a.emit(d, table)
			if err != nil {
				return nil, err
			}
			if err := modules.Set(m); err != nil {
				return nil, &GenerationError{Phase: PhaseAssemble, Entity: entity, File: m.Path, Cause: err}
			}
		}
	}
	a.log.Debug("assembled modules",
		zap.Int("entities", len(sets)),
		zap.Int("modules", modules.Len()),
	)
	return modules, nil
}

func (a *Assembler) emit(d *dto.Definition, table *PathTable) (*Module, error) {
	var e Emitter
	switch d.Kind {
	case dto.KindEnum:
		e = a.enum
	case dto.KindClass:
		e = a.class
	default:
		return nil, &GenerationError{
			Phase:   PhaseAssemble,
			Entity:  d.Entity,
			Message: fmt.Sprintf("%s has invalid kind %s", d.Name, d.Kind),
		}
	}
	m, err := e.Emit(d, table)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, Message: fmt.Sprintf("no module emitted for %s", d.Name)}
	}
	return m, nil
}
