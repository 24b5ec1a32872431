package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		n     int
		want  [][]int
	}{
		{"empty", nil, 3, nil},
		{"single", []int{1}, 3, [][]int{{1}}},
		{"even", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"uneven", []int{1, 2, 3, 4, 5}, 3, [][]int{{1, 2}, {3, 4}, {5}}},
		{"fewer chunks than n", []int{1, 2, 3, 4}, 3, [][]int{{1, 2}, {3, 4}}},
		{"more workers than items", []int{1, 2}, 8, [][]int{{1}, {2}}},
		{"zero workers", []int{1, 2, 3}, 0, [][]int{{1, 2, 3}}},
		{"negative workers", []int{1, 2}, -1, [][]int{{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk(tt.items, tt.n))
		})
	}
}

func TestChunk_Shape(t *testing.T) {
	for size := 0; size <= 25; size++ {
		items := make([]int, size)
		for i := range items {
			items[i] = i
		}
		for n := 1; n <= 7; n++ {
			chunks := Chunk(items, n)
			assert.LessOrEqual(t, len(chunks), n, "len=%d n=%d", size, n)

			var flat []int
			want := (size + n - 1) / n
			for i, c := range chunks {
				require.NotEmpty(t, c, "len=%d n=%d", size, n)
				if i < len(chunks)-1 {
					assert.Len(t, c, want, "len=%d n=%d chunk=%d", size, n, i)
				} else {
					assert.LessOrEqual(t, len(c), want)
				}
				flat = append(flat, c...)
			}
			if size == 0 {
				assert.Empty(t, chunks)
				continue
			}
			assert.Equal(t, items, flat, "len=%d n=%d", size, n)
		}
	}
}

func TestChunk_CapacityLimited(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	chunks := Chunk(items, 2)
	require.Len(t, chunks, 2)

	_ = append(chunks[0], "x")
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
}
