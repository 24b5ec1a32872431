package gen

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dtogen/compiler/dto"
)

// spyEmitter records the definitions routed to it.
type spyEmitter struct {
	names []string
}

func (s *spyEmitter) Emit(d *dto.Definition, table *PathTable) (*Module, error) {
	s.names = append(s.names, d.Name)
	p, _ := table.Path(d.Name)
	return &Module{Path: p, Name: d.Name, Kind: d.Kind}, nil
}

func TestAssembler_Routing(t *testing.T) {
	sets, _ := testTable(t, userAndPost())
	class, enum := &spyEmitter{}, &spyEmitter{}

	modules, err := NewAssembler(nil).WithEmitters(class, enum).Assemble(sets)
	require.NoError(t, err)

	assert.Equal(t, []string{"EnumRole"}, enum.names)
	assert.Len(t, class.names, sets.Len()-1)
	assert.Equal(t, sets.Len(), modules.Len())
	// Post is assembled before User.
	assert.Equal(t, "Post", class.names[0])
}

func TestAssembler_RoutesOnKindOnly(t *testing.T) {
	// An enum-looking class stays a class and a property-less enum stays an enum.
	sets := dto.Sets{
		"User": {Entity: "User", DTOs: []*dto.Definition{
			{Name: "User", Kind: dto.KindClass, Entity: "User", Values: []string{"A"}},
			{Name: "EnumRole", Kind: dto.KindEnum, Entity: "User"},
		}},
	}
	class, enum := &spyEmitter{}, &spyEmitter{}
	_, err := NewAssembler(nil).WithEmitters(class, enum).Assemble(sets)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, class.names)
	assert.Equal(t, []string{"EnumRole"}, enum.names)
}

func TestAssembler_InvalidKind(t *testing.T) {
	sets := dto.Sets{
		"User": {Entity: "User", DTOs: []*dto.Definition{{Name: "User", Entity: "User"}}},
	}
	_, err := NewAssembler(nil).Assemble(sets)
	require.Error(t, err)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, PhaseAssemble, genErr.Phase)
	assert.Contains(t, err.Error(), "invalid kind")
}

func TestAssembler_EmitterErrors(t *testing.T) {
	sets, _ := testTable(t, userAndPost())

	t.Run("nil module", func(t *testing.T) {
		nilEmitter := EmitterFunc(func(*dto.Definition, *PathTable) (*Module, error) { return nil, nil })
		_, err := NewAssembler(nil).WithEmitters(nilEmitter, nil).Assemble(sets)
		assert.True(t, IsGenerationError(err))
	})

	t.Run("duplicate module path", func(t *testing.T) {
		same := EmitterFunc(func(d *dto.Definition, _ *PathTable) (*Module, error) {
			return &Module{Path: "same.go", Name: d.Name}, nil
		})
		_, err := NewAssembler(nil).WithEmitters(same, same).Assemble(sets)
		assert.ErrorIs(t, err, ErrCollision)
	})

	t.Run("unresolved entity reference", func(t *testing.T) {
		// Post references User, which is not part of this run.
		sets, _ := testTable(t, userAndPost()[1:])
		_, err := NewAssembler(nil).Assemble(sets)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown DTO "User"`)
	})
}

func TestAssembler_UserScenario(t *testing.T) {
	user := userAndPost()[0]
	user.Relations = nil
	user.Fields = user.Fields[:3]
	set, err := dto.NewBuilder().Synthesize(user)
	require.NoError(t, err)
	sets := dto.Sets{"User": set}

	modules, err := NewAssembler(MustNewConfig()).Assemble(sets)
	require.NoError(t, err)

	want := []string{
		"user.go",
		"user_count_args.go",
		"user_create_input.go",
		"user_delete_args.go",
		"user_enum_role.go",
		"user_find_many_args.go",
		"user_find_one_args.go",
		"user_list_relation_filter.go",
		"user_order_by_input.go",
		"user_update_input.go",
		"user_where_input.go",
		"user_where_unique_input.go",
	}
	sort.Strings(want)
	assert.Equal(t, want, modules.Paths())
	assert.False(t, modules.Has("user_create_args.go"))
	assert.False(t, modules.Has("user_update_args.go"))

	enum, ok := modules.Get("user_enum_role.go")
	require.True(t, ok)
	assert.Equal(t, dto.KindEnum, enum.Kind)
	for _, m := range modules.Modules() {
		assertParses(t, m)
		if m.Path != "user_enum_role.go" {
			assert.Equal(t, dto.KindClass, m.Kind, m.Path)
		}
	}
}
