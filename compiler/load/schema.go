// Package load reads and validates the entity model that drives DTO generation.
package load

import (
	"fmt"
	"go/token"
	"slices"
)

// FieldType is the data-type tag of an entity field.
type FieldType string

// Supported field types.
const (
	TypeID     FieldType = "id"
	TypeString FieldType = "string"
	TypeText   FieldType = "text"
	TypeInt    FieldType = "int"
	TypeFloat  FieldType = "float"
	TypeBool   FieldType = "bool"
	TypeTime   FieldType = "time"
	TypeJSON   FieldType = "json"
	// TypeEnum is a single-select option set.
	TypeEnum FieldType = "enum"
	// TypeEnums is a multi-select option set.
	TypeEnums FieldType = "enums"
)

var fieldTypes = []FieldType{
	TypeID, TypeString, TypeText, TypeInt, TypeFloat,
	TypeBool, TypeTime, TypeJSON, TypeEnum, TypeEnums,
}

// Valid reports if t is a known field type.
func (t FieldType) Valid() bool { return slices.Contains(fieldTypes, t) }

// IsEnum reports if the type is an option set (single or multi select).
func (t FieldType) IsEnum() bool { return t == TypeEnum || t == TypeEnums }

// String implements the fmt.Stringer interface.
func (t FieldType) String() string { return string(t) }

type (
	// Schema is the root of a model file.
	Schema struct {
		Entities []*Entity `json:"entities" yaml:"entities" msgpack:"entities"`
	}

	// Entity is the normalized description of one business object.
	// Entities are treated as read-only once loaded.
	Entity struct {
		// Name is the Go/GraphQL name of the entity, e.g. "User".
		Name string `json:"name" yaml:"name" msgpack:"name"`
		// PluralName overrides the plural used in nested input names.
		PluralName string      `json:"pluralName,omitempty" yaml:"pluralName,omitempty" msgpack:"plural_name,omitempty"`
		Comment    string      `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
		Fields     []*Field    `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
		Relations  []*Relation `json:"relations,omitempty" yaml:"relations,omitempty" msgpack:"relations,omitempty"`
	}

	// Field is a scalar or option-set attribute of an entity.
	Field struct {
		Name       string    `json:"name" yaml:"name" msgpack:"name"`
		Type       FieldType `json:"type" yaml:"type" msgpack:"type"`
		Required   bool      `json:"required,omitempty" yaml:"required,omitempty" msgpack:"required,omitempty"`
		Unique     bool      `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
		Searchable bool      `json:"searchable,omitempty" yaml:"searchable,omitempty" msgpack:"searchable,omitempty"`
		// Enums holds the ordered option values of enum fields.
		Enums   []string `json:"enums,omitempty" yaml:"enums,omitempty" msgpack:"enums,omitempty"`
		Comment string   `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	}

	// Relation links an entity to another entity of the model.
	Relation struct {
		Name string `json:"name" yaml:"name" msgpack:"name"`
		// Target is the name of the related entity.
		Target string `json:"target" yaml:"target" msgpack:"target"`
		// Many marks a to-many relation.
		Many bool `json:"many,omitempty" yaml:"many,omitempty" msgpack:"many,omitempty"`
		// Inverse is the name of the relation on the target pointing back.
		Inverse  string `json:"inverse,omitempty" yaml:"inverse,omitempty" msgpack:"inverse,omitempty"`
		Required bool   `json:"required,omitempty" yaml:"required,omitempty" msgpack:"required,omitempty"`
	}
)

// IDField returns the id field of the entity, or nil if it declares none.
func (e *Entity) IDField() *Field {
	for _, f := range e.Fields {
		if f.Type == TypeID {
			return f
		}
	}
	return nil
}

// EnumFields returns the option-set fields in declaration order.
func (e *Entity) EnumFields() []*Field {
	var fields []*Field
	for _, f := range e.Fields {
		if f.Type.IsEnum() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ToMany returns the to-many relations in declaration order.
func (e *Entity) ToMany() []*Relation {
	var rels []*Relation
	for _, r := range e.Relations {
		if r.Many {
			rels = append(rels, r)
		}
	}
	return rels
}

// HasToMany reports if the entity has at least one to-many relation.
func (e *Entity) HasToMany() bool {
	return slices.ContainsFunc(e.Relations, func(r *Relation) bool { return r.Many })
}

// Validate checks the internal consistency of a single entity.
func (e *Entity) Validate() error {
	if err := validName(e.Name); err != nil {
		return fmt.Errorf("entity %q: %w", e.Name, err)
	}
	seen := make(map[string]struct{}, len(e.Fields)+len(e.Relations))
	ids := 0
	for _, f := range e.Fields {
		if err := validName(f.Name); err != nil {
			return fmt.Errorf("entity %q field %q: %w", e.Name, f.Name, err)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("entity %q: duplicate field %q", e.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
		switch {
		case !f.Type.Valid():
			return fmt.Errorf("entity %q field %q: unknown type %q", e.Name, f.Name, f.Type)
		case f.Type.IsEnum() && len(f.Enums) == 0:
			return fmt.Errorf("entity %q field %q: enum field without values", e.Name, f.Name)
		case !f.Type.IsEnum() && len(f.Enums) > 0:
			return fmt.Errorf("entity %q field %q: values on non-enum field", e.Name, f.Name)
		case f.Type == TypeID:
			ids++
		}
	}
	if ids > 1 {
		return fmt.Errorf("entity %q: multiple id fields", e.Name)
	}
	for _, r := range e.Relations {
		if err := validName(r.Name); err != nil {
			return fmt.Errorf("entity %q relation %q: %w", e.Name, r.Name, err)
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("entity %q: relation %q conflicts with another field", e.Name, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// Validate checks the schema as a whole: every entity is valid, entity names
// are unique and every relation points to a declared entity.
func (s *Schema) Validate() error {
	names := make(map[string]struct{}, len(s.Entities))
	for _, e := range s.Entities {
		if e == nil {
			return fmt.Errorf("nil entity in schema")
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if _, ok := names[e.Name]; ok {
			return fmt.Errorf("duplicate entity %q", e.Name)
		}
		names[e.Name] = struct{}{}
	}
	for _, e := range s.Entities {
		for _, r := range e.Relations {
			if _, ok := names[r.Target]; !ok {
				return fmt.Errorf("entity %q relation %q: unknown target %q", e.Name, r.Name, r.Target)
			}
		}
	}
	return nil
}

func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("missing name")
	case token.Lookup(name).IsKeyword():
		return fmt.Errorf("name %q is a Go keyword", name)
	case !token.IsIdentifier(name):
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}
