package gen

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/load"
)

// Workers exchange msgpack messages with the dispatcher: a worker decodes
// its own copy of the chunk and the dispatcher decodes its own copy of the
// result, so no memory is shared in either direction.

func encodeChunk(entities []*load.Entity) ([]byte, error) {
	b, err := msgpack.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("encode chunk: %w", err)
	}
	return b, nil
}

func decodeChunk(b []byte) ([]*load.Entity, error) {
	var entities []*load.Entity
	if err := msgpack.Unmarshal(b, &entities); err != nil {
		return nil, fmt.Errorf("decode chunk: %w", err)
	}
	return entities, nil
}

func encodeSets(sets dto.Sets) ([]byte, error) {
	b, err := msgpack.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return b, nil
}

func decodeSets(b []byte) (dto.Sets, error) {
	var sets dto.Sets
	if err := msgpack.Unmarshal(b, &sets); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return sets, nil
}
