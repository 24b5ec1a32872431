package dto

import (
	"fmt"

	"github.com/syssam/dtogen/compiler/load"
)

// Builder is the default Synthesizer. It derives the entity DTO, the
// create/update/where inputs, the resolver args, one enum per option-set
// field and the nested to-many inputs of an entity.
type Builder struct {
	enumName enumNamer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithQualifiedEnumNames names enum DTOs after their entity and field, e.g.
// EnumOrderStatus, so that two entities may declare the same enum field.
func WithQualifiedEnumNames() BuilderOption {
	return func(b *Builder) {
		b.enumName = QualifiedEnumName
	}
}

// NewBuilder returns the default synthesis unit.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// enumNamer names the enum DTO of an entity field.
type enumNamer func(entity, field string) string

func fieldEnumName(_, field string) string { return EnumName(field) }

func (b *Builder) names() enumNamer {
	if b.enumName == nil {
		return fieldEnumName
	}
	return b.enumName
}

var _ Synthesizer = (*Builder)(nil)

// Synthesize implements Synthesizer.
func (b *Builder) Synthesize(e *load.Entity) (*Set, error) {
	if e == nil {
		return nil, fmt.Errorf("dto: nil entity")
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("dto: %w", err)
	}
	enum := b.names()
	var (
		entity      = entityDTO(e, enum)
		createInput = createInput(e, enum)
		updateInput = updateInput(e, enum)
		whereInput  = whereInput(e, enum)
		whereUnique = whereUniqueInput(e)
		orderBy     = orderByInput(e)
	)
	set := &Set{
		Entity: e.Name,
		DTOs: []*Definition{
			entity,
			createInput,
			updateInput,
			whereInput,
			whereUnique,
			orderBy,
			deleteArgs(e, whereUnique),
			countArgs(e, whereInput),
			findManyArgs(e, whereInput, orderBy),
			findOneArgs(e, whereUnique),
			listRelationFilter(e, whereInput),
		},
	}
	if d := createArgs(e, createInput); d != nil {
		set.DTOs = append(set.DTOs, d)
	}
	if d := updateArgs(e, whereUnique, updateInput); d != nil {
		set.DTOs = append(set.DTOs, d)
	}
	set.DTOs = append(set.DTOs, enumDTOs(e, enum)...)
	set.DTOs = append(set.DTOs, toManyDTOs(e)...)
	return set, nil
}

func class(e *load.Entity, role Role, name, comment string, props ...*Property) *Definition {
	return &Definition{
		Name:       name,
		Kind:       KindClass,
		Role:       role,
		Entity:     e.Name,
		Comment:    comment,
		Properties: props,
	}
}

// scalarOf maps a non-enum field type to its scalar.
func scalarOf(t load.FieldType) Scalar {
	switch t {
	case load.TypeID:
		return ScalarID
	case load.TypeInt:
		return ScalarInt
	case load.TypeFloat:
		return ScalarFloat
	case load.TypeBool:
		return ScalarBoolean
	case load.TypeTime:
		return ScalarDateTime
	case load.TypeJSON:
		return ScalarJSON
	default:
		return ScalarString
	}
}

// fieldProp returns the property of a field of e, referencing the field enum
// DTO for option sets.
func fieldProp(e *load.Entity, f *load.Field, optional bool, enum enumNamer) *Property {
	p := &Property{Name: f.Name, Optional: optional, Comment: f.Comment}
	switch f.Type {
	case load.TypeEnum:
		p.Ref = enum(e.Name, f.Name)
	case load.TypeEnums:
		p.Ref, p.List = enum(e.Name, f.Name), true
	default:
		p.Scalar = scalarOf(f.Type)
	}
	return p
}

// idField returns the id field of e, or the implicit "id" field when the
// entity declares none.
func idField(e *load.Entity) *load.Field {
	if f := e.IDField(); f != nil {
		return f
	}
	return &load.Field{Name: "id", Type: load.TypeID, Required: true}
}

// dataFields returns the non-id fields of e.
func dataFields(e *load.Entity) []*load.Field {
	var fields []*load.Field
	for _, f := range e.Fields {
		if f.Type != load.TypeID {
			fields = append(fields, f)
		}
	}
	return fields
}
