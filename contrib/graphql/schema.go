package graphql

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/dtogen/compiler/dto"
	"github.com/syssam/dtogen/compiler/gen"
	"github.com/syssam/dtogen/compiler/load"
)

// DefaultSchemaPath is the module path of the generated schema.
const DefaultSchemaPath = "schema.graphql"

// SortOrder values.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SchemaFunc is called after the schema is rendered. It receives the DTO sets
// and the schema, and returns the schema to write.
type SchemaFunc func(sets dto.Sets, schema string) (string, error)

// SchemaHook returns a hook adding the GraphQL schema of the synthesized DTOs
// to the module map, on the given path.
func SchemaHook(path string, funcs ...SchemaFunc) gen.Hook {
	if path == "" {
		path = DefaultSchemaPath
	}
	return gen.Hook{
		Name:  "graphql-schema",
		Event: gen.EventCreateDTOs,
		After: func(_ context.Context, p *gen.CreateDTOsParams, m *gen.ModuleMap) error {
			if len(p.Sets) == 0 {
				return nil
			}
			schema, err := RenderSchema(p.Entities, p.Sets)
			if err != nil {
				return err
			}
			for _, fn := range funcs {
				if schema, err = fn(p.Sets, schema); err != nil {
					return fmt.Errorf("schema func: %w", err)
				}
			}
			return m.Set(&gen.Module{Path: path, Content: []byte(schema)})
		},
	}
}

// RenderSchema renders and validates the GraphQL schema of the given sets.
// Entities are only used for naming root fields and may be nil.
func RenderSchema(entities []*load.Entity, sets dto.Sets) (string, error) {
	doc, err := BuildSchema(entities, sets)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: DefaultSchemaPath, Input: buf.String()}); err != nil {
		return "", fmt.Errorf("invalid GraphQL schema: %w", err)
	}
	return buf.String(), nil
}

// BuildSchema returns the schema document of the given sets: entity DTOs
// become object types, inputs become input types, enums stay enums and args
// become the arguments of the Query and Mutation fields.
func BuildSchema(entities []*load.Entity, sets dto.Sets) (*ast.SchemaDocument, error) {
	b := &schemaBuilder{
		plurals: make(map[string]string, len(entities)),
		query:   &ast.Definition{Kind: ast.Object, Name: "Query"},
		mutate:  &ast.Definition{Kind: ast.Object, Name: "Mutation"},
		omitted: emptyInputs(sets),
	}
	for _, e := range entities {
		b.plurals[e.Name] = dto.Plural(e)
	}
	doc := &ast.SchemaDocument{}
	doc.Definitions = append(doc.Definitions,
		&ast.Definition{Kind: ast.Scalar, Name: string(dto.ScalarDateTime)},
		&ast.Definition{Kind: ast.Scalar, Name: string(dto.ScalarJSON)},
		&ast.Definition{
			Kind: ast.Enum,
			Name: string(dto.ScalarSortOrder),
			EnumValues: ast.EnumValueList{
				{Name: SortOrderAsc},
				{Name: SortOrderDesc},
			},
		},
	)
	for _, name := range sets.EntityNames() {
		set := sets[name]
		for _, d := range set.DTOs {
			def, err := b.definition(d)
			if err != nil {
				return nil, err
			}
			if def != nil {
				doc.Definitions = append(doc.Definitions, def)
			}
		}
		b.rootFields(set)
	}
	if len(b.query.Fields) > 0 {
		doc.Definitions = append(doc.Definitions, b.query)
	}
	if len(b.mutate.Fields) > 0 {
		doc.Definitions = append(doc.Definitions, b.mutate)
	}
	return doc, nil
}

type schemaBuilder struct {
	plurals map[string]string
	query   *ast.Definition
	mutate  *ast.Definition
	// omitted holds the input DTOs that have no GraphQL fields.
	omitted map[string]bool
}

// emptyInputs returns the names of the input DTOs without fields, including
// inputs whose every field refers to such a DTO. GraphQL has no empty input
// types, so these are left out of the schema together with the fields and
// arguments referring to them.
func emptyInputs(sets dto.Sets) map[string]bool {
	empty := make(map[string]bool)
	kept := func(p *dto.Property) bool { return !empty[p.Ref] }
	for changed := true; changed; {
		changed = false
		for _, name := range sets.EntityNames() {
			for _, d := range sets[name].DTOs {
				if empty[d.Name] || d.Kind != dto.KindClass || !d.Role.IsInput() {
					continue
				}
				if !slices.ContainsFunc(d.Properties, kept) {
					empty[d.Name] = true
					changed = true
				}
			}
		}
	}
	return empty
}

// definition returns the type definition of d, or nil for args DTOs.
func (b *schemaBuilder) definition(d *dto.Definition) (*ast.Definition, error) {
	switch {
	case d.Kind == dto.KindEnum:
		def := &ast.Definition{Kind: ast.Enum, Name: d.Name, Description: d.Comment}
		for _, v := range d.Values {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{Name: v})
		}
		return def, nil
	case d.Kind != dto.KindClass:
		return nil, fmt.Errorf("graphql: %s has invalid kind %s", d.Name, d.Kind)
	case d.Role.IsArgs(), b.omitted[d.Name]:
		return nil, nil
	}
	kind := ast.Object
	if d.Role.IsInput() {
		kind = ast.InputObject
	}
	if len(d.Properties) == 0 {
		return nil, fmt.Errorf("graphql: %s has no properties", d.Name)
	}
	def := &ast.Definition{Kind: kind, Name: d.Name, Description: d.Comment}
	for _, p := range d.Properties {
		if b.omitted[p.Ref] {
			continue
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        p.Name,
			Description: p.Comment,
			Type:        fieldType(p),
		})
	}
	return def, nil
}

// rootFields adds the Query and Mutation fields of an entity set.
func (b *schemaBuilder) rootFields(set *dto.Set) {
	entity := set.Get(dto.RoleEntity)
	if entity == nil {
		return
	}
	name := entity.Name
	plural, ok := b.plurals[name]
	if !ok {
		plural = inflect.Pluralize(name)
	}
	b.addField(b.query, set.Get(dto.RoleFindManyArgs), lowerFirst(plural),
		ast.NonNullListType(ast.NonNullNamedType(name, nil), nil))
	b.addField(b.query, set.Get(dto.RoleFindOneArgs), lowerFirst(name),
		ast.NamedType(name, nil))
	b.addField(b.query, set.Get(dto.RoleCountArgs), lowerFirst(plural)+"Count",
		ast.NonNullNamedType("Int", nil))
	b.addField(b.mutate, createArgs(set), "create"+name,
		ast.NonNullNamedType(name, nil))
	b.addField(b.mutate, updateArgs(set), "update"+name,
		ast.NamedType(name, nil))
	b.addField(b.mutate, set.Get(dto.RoleDeleteArgs), "delete"+name,
		ast.NamedType(name, nil))
}

func (b *schemaBuilder) addField(root *ast.Definition, args *dto.Definition, name string, typ *ast.Type) {
	if args == nil {
		return
	}
	f := &ast.FieldDefinition{Name: name, Description: args.Comment, Type: typ}
	for _, p := range args.Properties {
		if b.omitted[p.Ref] {
			continue
		}
		f.Arguments = append(f.Arguments, &ast.ArgumentDefinition{Name: p.Name, Type: fieldType(p)})
	}
	root.Fields = append(root.Fields, f)
}

// createArgs returns the create args of the set. Entities without a to-many
// relation have none, and take the create input directly.
func createArgs(set *dto.Set) *dto.Definition {
	if d := set.Get(dto.RoleCreateArgs); d != nil {
		return d
	}
	data := set.Get(dto.RoleCreateInput)
	if data == nil {
		return nil
	}
	return &dto.Definition{
		Kind:       dto.KindClass,
		Properties: []*dto.Property{{Name: "data", Ref: data.Name}},
	}
}

// updateArgs mirrors createArgs for updates.
func updateArgs(set *dto.Set) *dto.Definition {
	if d := set.Get(dto.RoleUpdateArgs); d != nil {
		return d
	}
	where, data := set.Get(dto.RoleWhereUniqueInput), set.Get(dto.RoleUpdateInput)
	if where == nil || data == nil {
		return nil
	}
	return &dto.Definition{
		Kind: dto.KindClass,
		Properties: []*dto.Property{
			{Name: "where", Ref: where.Name},
			{Name: "data", Ref: data.Name},
		},
	}
}

// fieldType returns the GraphQL type of a property.
func fieldType(p *dto.Property) *ast.Type {
	name := p.Ref
	if name == "" {
		name = string(p.Scalar)
	}
	switch {
	case p.List && p.Optional:
		return ast.ListType(ast.NonNullNamedType(name, nil), nil)
	case p.List:
		return ast.NonNullListType(ast.NonNullNamedType(name, nil), nil)
	case p.Optional:
		return ast.NamedType(name, nil)
	default:
		return ast.NonNullNamedType(name, nil)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
