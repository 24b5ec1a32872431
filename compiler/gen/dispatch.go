package gen

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/load"
)

// Dispatcher fans entities out to a bounded worker pool and merges the
// per-entity DTO sets the workers return.
type Dispatcher struct {
	synth   dto.Synthesizer
	workers int
	log     *zap.Logger
	newPool func(size int, synth dto.Synthesizer) pool
}

// NewDispatcher returns a Dispatcher configured by cfg. A nil cfg uses the
// defaults.
func NewDispatcher(cfg *Config) *Dispatcher {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Dispatcher{
		synth:   cfg.synthesizer(),
		workers: cfg.PoolSize(),
		log:     cfg.logger(),
		newPool: newWorkerPool,
	}
}

// Workers returns the configured pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// SynthesizeAll produces the DTO sets of all entities. The entities are split
// into at most Workers() contiguous chunks, each processed by one worker, and
// the call returns only after every chunk has settled. The result is the same
// for every pool size and completion order. A failing chunk fails the whole
// call and no partial result is returned.
//
// The context is checked before dispatch only; chunks in flight run to
// completion.
func (d *Dispatcher) SynthesizeAll(ctx context.Context, entities []*load.Entity) (dto.Sets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, e := range entities {
		if e == nil {
			return nil, &GenerationError{Phase: PhaseSynthesize, Message: "nil entity at index " + strconv.Itoa(i)}
		}
	}
	chunks := Chunk(entities, d.workers)
	if len(chunks) == 0 {
		return dto.Sets{}, nil
	}
	payloads := make([][]byte, len(chunks))
	for i, c := range chunks {
		b, err := encodeChunk(c)
		if err != nil {
			return nil, &GenerationError{Phase: PhaseSynthesize, Message: "chunk " + strconv.Itoa(i), Cause: err}
		}
		payloads[i] = b
	}
	d.log.Debug("dispatching entities",
		zap.Int("entities", len(entities)),
		zap.Int("chunks", len(chunks)),
		zap.Int("workers", d.workers),
	)

	p := d.newPool(len(chunks), d.synth)
	defer d.release(p)

	replies := make(chan reply, len(chunks))
	submitted := 0
	var submitErr error
	for i, b := range payloads {
		if err := p.submit(task{index: i, payload: b, reply: replies}); err != nil {
			submitErr = fmt.Errorf("chunk %d: %w", i, err)
			break
		}
		submitted++
	}

	// Barrier: every submitted chunk settles before anything is inspected.
	results := make([][]byte, len(chunks))
	failures := make([]error, len(chunks))
	for range submitted {
		r := <-replies
		if r.err != nil {
			failures[r.index] = fmt.Errorf("chunk %d: %w", r.index, r.err)
			continue
		}
		results[r.index] = r.payload
	}
	if err := errors.Join(append(failures, submitErr)...); err != nil {
		return nil, &GenerationError{Phase: PhaseSynthesize, Message: "worker pool failed", Cause: err}
	}

	parts := make([]dto.Sets, len(results))
	for i, b := range results {
		sets, err := decodeSets(b)
		if err != nil {
			return nil, &GenerationError{Phase: PhaseMerge, Message: "chunk " + strconv.Itoa(i), Cause: err}
		}
		parts[i] = sets
	}
	merged, err := MergeSets(parts...)
	if err != nil {
		return nil, err
	}
	d.log.Debug("synthesized DTO sets",
		zap.Int("entities", len(merged)),
		zap.Int("dtos", merged.Len()),
	)
	return merged, nil
}

// release closes the pool. The result of a successful dispatch does not
// depend on it, so a failure is logged and otherwise ignored.
func (d *Dispatcher) release(p pool) {
	if err := p.Close(); err != nil {
		d.log.Error("release worker pool", zap.Error(err))
	}
}

// MergeSets unions the given mappings by entity name. The result does not
// depend on the order of parts. An entity name present in more than one part
// is a CollisionError.
func MergeSets(parts ...dto.Sets) (dto.Sets, error) {
	merged := make(dto.Sets)
	owner := make(map[string]int)
	for i, part := range parts {
		for name, set := range part {
			if j, ok := owner[name]; ok {
				return nil, &GenerationError{
					Phase: PhaseMerge,
					Cause: NewCollisionError(CollisionEntity, name, "chunk "+strconv.Itoa(j), "chunk "+strconv.Itoa(i)),
				}
			}
			owner[name] = i
			merged[name] = set
		}
	}
	return merged, nil
}
