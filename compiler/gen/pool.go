package gen

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/dtogen/compiler/dto"
)

type (
	// task is one encoded chunk submitted to the pool.
	task struct {
		index   int
		payload []byte
		reply   chan<- reply
	}

	// reply is the encoded result of one task.
	reply struct {
		index   int
		payload []byte
		err     error
	}

	// pool is the execution resource behind a Dispatcher.
	pool interface {
		submit(task) error
		Close() error
	}
)

// workerPool runs a fixed number of workers, each consuming tasks from a
// shared queue. Workers share no state with the submitter: they receive and
// return encoded messages only.
type workerPool struct {
	synth  dto.Synthesizer
	tasks  chan task
	group  errgroup.Group
	closed atomic.Bool
}

func newWorkerPool(size int, synth dto.Synthesizer) pool {
	p := &workerPool{synth: synth, tasks: make(chan task)}
	for range size {
		p.group.Go(p.work)
	}
	return p
}

func (p *workerPool) work() error {
	for t := range p.tasks {
		payload, err := p.exec(t.payload)
		t.reply <- reply{index: t.index, payload: payload, err: err}
	}
	return nil
}

// submit blocks until a worker accepts the task. It must not be called
// concurrently with Close.
func (p *workerPool) submit(t task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.tasks <- t
	return nil
}

// exec synthesizes every entity of an encoded chunk and returns the encoded
// entityName -> Set mapping. A panicking synthesizer fails the chunk only.
func (p *workerPool) exec(payload []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("worker panic: %v", r)
		}
	}()
	entities, err := decodeChunk(payload)
	if err != nil {
		return nil, err
	}
	sets := make(dto.Sets, len(entities))
	for i, e := range entities {
		if e == nil {
			return nil, &GenerationError{Phase: PhaseSynthesize, Message: fmt.Sprintf("nil entity at chunk index %d", i)}
		}
		set, err := p.synth.Synthesize(e)
		if err != nil {
			return nil, &GenerationError{Phase: PhaseSynthesize, Entity: e.Name, Cause: err}
		}
		if set == nil {
			return nil, &GenerationError{Phase: PhaseSynthesize, Entity: e.Name, Message: "synthesizer returned no DTO set"}
		}
		if _, ok := sets[e.Name]; ok {
			return nil, NewCollisionError(CollisionEntity, e.Name, "chunk", "same chunk")
		}
		sets[e.Name] = set
	}
	return encodeSets(sets)
}

// Close stops the workers once their current task is done. It returns
// ErrPoolClosed when called more than once.
func (p *workerPool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrPoolClosed
	}
	close(p.tasks)
	return p.group.Wait()
}
