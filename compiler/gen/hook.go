package gen

import (
	"context"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/load"
)

// Event names a point of the generation run hooks can attach to.
type Event string

// EventCreateDTOs wraps DTO synthesis and module assembly.
const EventCreateDTOs Event = "createDTOs"

// CreateDTOsParams is shared by the hooks of one CreateDTOs event.
type CreateDTOsParams struct {
	// Entities is the input of the run. Before hooks may replace it.
	Entities []*load.Entity
	// Sets holds the synthesized DTO sets. It is nil in Before hooks.
	Sets dto.Sets
}

// Hook attaches behavior around an event. Either function may be nil.
type Hook struct {
	Name  string
	Event Event
	// Before runs before synthesis.
	Before func(context.Context, *CreateDTOsParams) error
	// After runs after assembly and may add or replace modules.
	After func(context.Context, *CreateDTOsParams, *ModuleMap) error
}

func (c *Config) hooksFor(ev Event) []Hook {
	var hooks []Hook
	for _, h := range c.Hooks {
		if h.Event == ev {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

func runBefore(ctx context.Context, hooks []Hook, params *CreateDTOsParams) error {
	for _, h := range hooks {
		if h.Before == nil {
			continue
		}
		if err := h.Before(ctx, params); err != nil {
			return &GenerationError{Phase: PhaseHook, Message: "before hook " + h.Name, Cause: err}
		}
	}
	return nil
}

func runAfter(ctx context.Context, hooks []Hook, params *CreateDTOsParams, modules *ModuleMap) error {
	for _, h := range hooks {
		if h.After == nil {
			continue
		}
		if err := h.After(ctx, params, modules); err != nil {
			return &GenerationError{Phase: PhaseHook, Message: "after hook " + h.Name, Cause: err}
		}
	}
	return nil
}
