package gen

// Chunk splits items into at most n contiguous chunks of ceil(len(items)/n)
// elements; only the last chunk may be smaller. Order is preserved and the
// result depends only on len(items) and n. An n below 1 is treated as 1.
// The chunks share the backing array of items but are capacity-limited, so
// appending to one never overwrites its neighbor.
func Chunk[T any](items []T, n int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := (len(items) + n - 1) / n
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		items, chunks = items[size:], append(chunks, items[:size:size])
	}
	return append(chunks, items)
}
