package gen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/load"
)

// testEntities returns n entities, each with an enum field of its own and a
// to-many relation to the next entity.
func testEntities(n int) []*load.Entity {
	entities := make([]*load.Entity, n)
	for i := range entities {
		entities[i] = &load.Entity{
			Name: fmt.Sprintf("Entity%d", i),
			Fields: []*load.Field{
				{Name: "id", Type: load.TypeID},
				{Name: "title", Type: load.TypeString, Required: true},
				{Name: fmt.Sprintf("state%d", i), Type: load.TypeEnum, Enums: []string{"ON", "OFF"}},
			},
			Relations: []*load.Relation{
				{Name: "next", Target: fmt.Sprintf("Entity%d", (i+1)%n), Many: i%2 == 0},
			},
		}
	}
	return entities
}

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	cfg, err := NewConfig(opts...)
	require.NoError(t, err)
	return NewDispatcher(cfg)
}

func TestDispatcher_WorkerCountIndependence(t *testing.T) {
	ctx := context.Background()
	entities := testEntities(10)

	want, err := newTestDispatcher(t, WithWorkers(1)).SynthesizeAll(ctx, entities)
	require.NoError(t, err)
	require.Len(t, want, 10)
	for _, e := range entities {
		set, err := dto.NewBuilder().Synthesize(e)
		require.NoError(t, err)
		assert.Equal(t, set, want[e.Name])
	}

	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("workers=%d", n), func(t *testing.T) {
			got, err := newTestDispatcher(t, WithWorkers(n)).SynthesizeAll(ctx, entities)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDispatcher_ReversedCompletion(t *testing.T) {
	// A cannot finish before B has.
	bDone := make(chan struct{})
	synth := dto.SynthesizerFunc(func(e *load.Entity) (*dto.Set, error) {
		switch e.Name {
		case "A":
			<-bDone
		case "B":
			defer close(bDone)
		}
		return dto.NewBuilder().Synthesize(e)
	})
	entities := []*load.Entity{{Name: "A"}, {Name: "B"}}

	got, err := newTestDispatcher(t, WithWorkers(2), WithSynthesizer(synth)).SynthesizeAll(context.Background(), entities)
	require.NoError(t, err)

	want, err := newTestDispatcher(t, WithWorkers(1)).SynthesizeAll(context.Background(), entities)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"A", "B"}, got.EntityNames())
}

func TestDispatcher_Empty(t *testing.T) {
	d := newTestDispatcher(t)
	var pools int
	d.newPool = func(size int, s dto.Synthesizer) pool {
		pools++
		return newWorkerPool(size, s)
	}
	got, err := d.SynthesizeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, pools)
}

func TestDispatcher_PoolSize(t *testing.T) {
	tests := []struct {
		entities, workers, want int
	}{
		{10, 3, 3},
		{4, 3, 2},
		{2, 8, 2},
		{1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.entities, tt.workers), func(t *testing.T) {
			d := newTestDispatcher(t, WithWorkers(tt.workers))
			var size int
			d.newPool = func(n int, s dto.Synthesizer) pool {
				size = n
				return newWorkerPool(n, s)
			}
			_, err := d.SynthesizeAll(context.Background(), testEntities(tt.entities))
			require.NoError(t, err)
			assert.Equal(t, tt.want, size)
		})
	}
}

func TestDispatcher_ChunkFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	synth := dto.SynthesizerFunc(func(e *load.Entity) (*dto.Set, error) {
		calls.Add(1)
		if e.Name == "Entity4" || e.Name == "Entity8" {
			return nil, fmt.Errorf("%s: %w", e.Name, boom)
		}
		return dto.NewBuilder().Synthesize(e)
	})

	got, err := newTestDispatcher(t, WithWorkers(3), WithSynthesizer(synth)).SynthesizeAll(context.Background(), testEntities(9))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, PhaseSynthesize, genErr.Phase)
	// Chunks [0-2] [3-5] [6-8]: the second and third fail, in chunk order.
	msg := err.Error()
	assert.Contains(t, msg, "chunk 1")
	assert.Contains(t, msg, "chunk 2")
	assert.Less(t, strings.Index(msg, "Entity4"), strings.Index(msg, "Entity8"))
	assert.NotContains(t, msg, "chunk 0")
	// Every chunk settled; a failing chunk stops at its failing entity.
	assert.Equal(t, int32(8), calls.Load())
}

func TestDispatcher_WorkerPanic(t *testing.T) {
	synth := dto.SynthesizerFunc(func(e *load.Entity) (*dto.Set, error) {
		if e.Name == "B" {
			panic("synthesizer bug")
		}
		return dto.NewBuilder().Synthesize(e)
	})
	_, err := newTestDispatcher(t, WithWorkers(2), WithSynthesizer(synth)).
		SynthesizeAll(context.Background(), []*load.Entity{{Name: "A"}, {Name: "B"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker panic: synthesizer bug")
}

func TestDispatcher_NilSet(t *testing.T) {
	synth := dto.SynthesizerFunc(func(*load.Entity) (*dto.Set, error) { return nil, nil })
	_, err := newTestDispatcher(t, WithSynthesizer(synth)).
		SynthesizeAll(context.Background(), []*load.Entity{{Name: "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no DTO set")
}

func TestDispatcher_NilEntity(t *testing.T) {
	tests := []struct {
		name     string
		entities []*load.Entity
		want     string
	}{
		{name: "first", entities: []*load.Entity{nil, {Name: "A"}}, want: "nil entity at index 0"},
		{name: "last", entities: []*load.Entity{{Name: "A"}, {Name: "B"}, nil}, want: "nil entity at index 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestDispatcher(t, WithWorkers(2)).SynthesizeAll(context.Background(), tt.entities)
			require.Error(t, err)
			assert.True(t, IsGenerationError(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "worker panic")
		})
	}

	t.Run("worker", func(t *testing.T) {
		payload, err := encodeChunk([]*load.Entity{{Name: "A"}, nil})
		require.NoError(t, err)
		p := &workerPool{synth: dto.NewBuilder()}
		_, err = p.exec(payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil entity at chunk index 1")
		assert.NotContains(t, err.Error(), "worker panic")
	})
}

func TestDispatcher_DuplicateEntity(t *testing.T) {
	entities := []*load.Entity{{Name: "A"}, {Name: "A"}}

	t.Run("across chunks", func(t *testing.T) {
		_, err := newTestDispatcher(t, WithWorkers(2)).SynthesizeAll(context.Background(), entities)
		require.Error(t, err)
		var coll *CollisionError
		require.ErrorAs(t, err, &coll)
		assert.Equal(t, CollisionEntity, coll.Kind)
		assert.Equal(t, "A", coll.Key)
	})

	t.Run("within a chunk", func(t *testing.T) {
		_, err := newTestDispatcher(t, WithWorkers(1)).SynthesizeAll(context.Background(), entities)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCollision)
	})
}

func TestDispatcher_Isolation(t *testing.T) {
	synth := dto.SynthesizerFunc(func(e *load.Entity) (*dto.Set, error) {
		e.Fields = append(e.Fields, &load.Field{Name: "injected", Type: load.TypeString})
		e.Comment = "touched"
		return dto.NewBuilder().Synthesize(e)
	})
	entities := testEntities(4)
	_, err := newTestDispatcher(t, WithWorkers(2), WithSynthesizer(synth)).SynthesizeAll(context.Background(), entities)
	require.NoError(t, err)
	assert.Equal(t, testEntities(4), entities)
}

func TestDispatcher_Canceled(t *testing.T) {
	var called bool
	synth := dto.SynthesizerFunc(func(*load.Entity) (*dto.Set, error) {
		called = true
		return nil, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDispatcher(t, WithSynthesizer(synth)).SynthesizeAll(ctx, testEntities(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// closeFailure wraps a pool whose release reports an error.
type closeFailure struct {
	pool
	closed int
}

func (c *closeFailure) Close() error {
	c.closed++
	if err := c.pool.Close(); err != nil {
		return err
	}
	return errors.New("teardown failed")
}

func TestDispatcher_ReleaseFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := newTestDispatcher(t, WithWorkers(2), WithLogger(zap.New(core)))
	var p *closeFailure
	d.newPool = func(size int, s dto.Synthesizer) pool {
		p = &closeFailure{pool: newWorkerPool(size, s)}
		return p
	}

	got, err := d.SynthesizeAll(context.Background(), testEntities(4))
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 1, p.closed)

	entries := logs.FilterMessage("release worker pool").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "teardown failed", entries[0].ContextMap()["error"])
}

func TestDispatcher_ReleasedOnFailure(t *testing.T) {
	d := newTestDispatcher(t, WithWorkers(2), WithSynthesizer(dto.SynthesizerFunc(func(*load.Entity) (*dto.Set, error) {
		return nil, errors.New("boom")
	})))
	var p *closeFailure
	d.newPool = func(size int, s dto.Synthesizer) pool {
		p = &closeFailure{pool: newWorkerPool(size, s)}
		return p
	}
	_, err := d.SynthesizeAll(context.Background(), testEntities(2))
	require.Error(t, err)
	assert.Equal(t, 1, p.closed)
}

func TestMergeSets(t *testing.T) {
	a := dto.Sets{"A": {Entity: "A"}, "C": {Entity: "C"}}
	b := dto.Sets{"B": {Entity: "B"}}

	ab, err := MergeSets(a, b)
	require.NoError(t, err)
	ba, err := MergeSets(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, []string{"A", "B", "C"}, ab.EntityNames())

	empty, err := MergeSets()
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = MergeSets(a, dto.Sets{"C": {Entity: "C"}})
	require.Error(t, err)
	var coll *CollisionError
	require.ErrorAs(t, err, &coll)
	assert.Equal(t, "C", coll.Key)
	assert.Equal(t, "chunk 0", coll.First)
	assert.Equal(t, "chunk 1", coll.Second)
}

func TestWorkerPool_DoubleClose(t *testing.T) {
	p := newWorkerPool(2, dto.NewBuilder())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Close(), ErrPoolClosed)
	assert.ErrorIs(t, p.submit(task{}), ErrPoolClosed)
}
