package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/load"
)

func userAndPost() []*load.Entity {
	return []*load.Entity{
		{
			Name: "User",
			Fields: []*load.Field{
				{Name: "id", Type: load.TypeID},
				{Name: "name", Type: load.TypeString, Required: true},
				{Name: "role", Type: load.TypeEnum, Enums: []string{"ADMIN", "MEMBER", "IN_REVIEW"}},
				{Name: "settings", Type: load.TypeJSON},
			},
			Relations: []*load.Relation{{Name: "posts", Target: "Post", Many: true}},
		},
		{
			Name: "Post",
			Fields: []*load.Field{
				{Name: "id", Type: load.TypeID},
				{Name: "title", Type: load.TypeString, Required: true},
				{Name: "publishedAt", Type: load.TypeTime},
			},
			Relations: []*load.Relation{{Name: "author", Target: "User", Required: true}},
		},
	}
}

func testTable(t *testing.T, entities []*load.Entity) (dto.Sets, *PathTable) {
	t.Helper()
	sets, err := newTestDispatcher(t).SynthesizeAll(t.Context(), entities)
	require.NoError(t, err)
	table, err := NewPathTable(sets)
	require.NoError(t, err)
	return sets, table
}

func assertParses(t *testing.T, m *Module) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), m.Path, m.Content, parser.ParseComments)
	require.NoError(t, err, string(m.Content))
}

// typeCheck parses every Go module of the map as one package and runs the
// type checker over it.
func typeCheck(t *testing.T, modules *ModuleMap) {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for _, m := range modules.Modules() {
		if path.Ext(m.Path) != ".go" {
			continue
		}
		f, err := parser.ParseFile(fset, m.Path, m.Content, 0)
		require.NoError(t, err, string(m.Content))
		files = append(files, f)
	}
	require.NotEmpty(t, files)
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err := conf.Check("example.com/app/dto", fset, files, nil)
	require.NoError(t, err)
}

func TestClassEmitter_TypeChecks(t *testing.T) {
	tests := []struct {
		name     string
		entities []*load.Entity
		entity   string
		field    string
	}{
		{
			name: "required self relation",
			entities: []*load.Entity{
				{
					Name:   "Category",
					Fields: []*load.Field{{Name: "id", Type: load.TypeID}, {Name: "name", Type: load.TypeString, Required: true}},
					Relations: []*load.Relation{
						{Name: "parent", Target: "Category", Required: true},
						{Name: "children", Target: "Category", Many: true},
					},
				},
			},
			entity: "Category",
			field:  `Parent\s+\*Category\s+`,
		},
		{
			name: "mutual required relations",
			entities: []*load.Entity{
				{
					Name:      "Account",
					Fields:    []*load.Field{{Name: "id", Type: load.TypeID}},
					Relations: []*load.Relation{{Name: "profile", Target: "Profile", Required: true}},
				},
				{
					Name:      "Profile",
					Fields:    []*load.Field{{Name: "id", Type: load.TypeID}},
					Relations: []*load.Relation{{Name: "account", Target: "Account", Required: true}},
				},
			},
			entity: "Account",
			field:  `Profile\s+\*Profile\s+`,
		},
		{
			name:     "user and post",
			entities: userAndPost(),
			entity:   "Post",
			field:    `Author\s+\*User\s+`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(MustNewConfig(WithPackage("example.com/app/dto")))
			modules, err := g.CreateDTOs(t.Context(), tt.entities)
			require.NoError(t, err)
			typeCheck(t, modules)

			m, ok := modules.Get(ModulePath(tt.entity, dto.EntityName(tt.entity)))
			require.True(t, ok)
			assert.Regexp(t, tt.field, string(m.Content))
		})
	}
}

func TestClassEmitter(t *testing.T) {
	sets, table := testTable(t, userAndPost())
	e := NewClassEmitter(MustNewConfig(WithPackage("example.com/app/dto")))

	t.Run("create input", func(t *testing.T) {
		m, err := e.Emit(sets["User"].Get(dto.RoleCreateInput), table)
		require.NoError(t, err)
		assertParses(t, m)

		assert.Equal(t, "user_create_input.go", m.Path)
		assert.Equal(t, "UserCreateInput", m.Name)
		assert.Equal(t, dto.KindClass, m.Kind)
		code := string(m.Content)
		assert.Contains(t, code, "// Code generated by dtogen. DO NOT EDIT.")
		assert.Contains(t, code, "package dto")
		assert.Contains(t, code, "// UserCreateInput holds the data for creating a User.")
		assert.Contains(t, code, "type UserCreateInput struct")
		assert.Regexp(t, `Name\s+string\s+`+"`"+`json:"name" validate:"required"`+"`", code)
		assert.Regexp(t, `Role\s+\*EnumRole\s+`+"`"+`json:"role,omitempty"`+"`", code)
		assert.Regexp(t, `Settings\s+map\[string\]any\s+`+"`"+`json:"settings,omitempty"`+"`", code)
		assert.Regexp(t, `Posts\s+\*PostCreateNestedManyWithoutUsersInput`, code)
	})

	t.Run("entity", func(t *testing.T) {
		m, err := e.Emit(sets["Post"].Get(dto.RoleEntity), table)
		require.NoError(t, err)
		assertParses(t, m)

		assert.Equal(t, "post.go", m.Path)
		code := string(m.Content)
		assert.Regexp(t, `ID\s+string\s+`+"`"+`json:"id"`+"`", code)
		assert.Regexp(t, `PublishedAt\s+\*time\.Time`, code)
		assert.Regexp(t, `Author\s+\*User\s+`, code)
		assert.NotContains(t, code, "validate")
	})

	t.Run("args lists", func(t *testing.T) {
		m, err := e.Emit(sets["User"].Get(dto.RoleFindManyArgs), table)
		require.NoError(t, err)
		assertParses(t, m)
		assert.Regexp(t, `OrderBy\s+\[\]UserOrderByInput`, string(m.Content))
	})

	t.Run("unresolved reference", func(t *testing.T) {
		d := &dto.Definition{
			Name:       "UserCreateInput",
			Kind:       dto.KindClass,
			Entity:     "User",
			Properties: []*dto.Property{{Name: "team", Ref: "TeamWhereUniqueInput"}},
		}
		_, err := e.Emit(d, table)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), `unknown DTO "TeamWhereUniqueInput"`)
	})

	t.Run("unknown definition", func(t *testing.T) {
		_, err := e.Emit(&dto.Definition{Name: "Ghost", Kind: dto.KindClass}, table)
		assert.Error(t, err)
	})

	t.Run("wrong kind", func(t *testing.T) {
		_, err := e.Emit(sets["User"].Lookup("EnumRole"), table)
		assert.Error(t, err)
	})

	t.Run("field name clash", func(t *testing.T) {
		d := &dto.Definition{
			Name:   "User",
			Kind:   dto.KindClass,
			Entity: "User",
			Properties: []*dto.Property{
				{Name: "userId", Scalar: dto.ScalarID},
				{Name: "user_id", Scalar: dto.ScalarID},
			},
		}
		_, err := e.Emit(d, table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both map to field UserID")
	})
}

func TestEnumEmitter(t *testing.T) {
	sets, table := testTable(t, userAndPost())
	e := NewEnumEmitter(MustNewConfig())

	m, err := e.Emit(sets["User"].Lookup("EnumRole"), table)
	require.NoError(t, err)
	assertParses(t, m)

	assert.Equal(t, "user_enum_role.go", m.Path)
	assert.Equal(t, dto.KindEnum, m.Kind)
	code := string(m.Content)
	assert.Contains(t, code, "type EnumRole string")
	assert.Regexp(t, `EnumRoleAdmin\s+EnumRole = "ADMIN"`, code)
	assert.Regexp(t, `EnumRoleMember\s+EnumRole = "MEMBER"`, code)
	assert.Regexp(t, `EnumRoleInReview\s+EnumRole = "IN_REVIEW"`, code)
	assert.Contains(t, code, "func (e EnumRole) IsValid() bool")
	assert.Contains(t, code, "func EnumRoleValues() []EnumRole")
	assert.Contains(t, code, "func (e EnumRole) MarshalGQL(w io.Writer)")
	assert.Contains(t, code, "func (e *EnumRole) UnmarshalGQL(val any) error")

	t.Run("wrong kind", func(t *testing.T) {
		_, err := e.Emit(sets["User"].Get(dto.RoleEntity), table)
		assert.Error(t, err)
	})

	t.Run("no values", func(t *testing.T) {
		d := &dto.Definition{Name: "EnumRole", Kind: dto.KindEnum, Entity: "User"}
		_, err := e.Emit(d, table)
		assert.Error(t, err)
	})
}

func TestEnumConstNames(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []string
		wantErr bool
	}{
		{"upper", []string{"ADMIN", "MEMBER"}, []string{"EnumRoleAdmin", "EnumRoleMember"}, false},
		{"snake", []string{"IN_REVIEW", "on-hold"}, []string{"EnumRoleInReview", "EnumRoleOnHold"}, false},
		{"digits", []string{"V1", "V2_BETA"}, []string{"EnumRoleV1", "EnumRoleV2Beta"}, false},
		{"clash", []string{"on_hold", "ON-HOLD"}, nil, true},
		{"symbols only", []string{"--"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnumConstNames("EnumRole", tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
