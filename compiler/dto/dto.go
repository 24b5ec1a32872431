// Package dto defines the DTO definitions synthesized from an entity model
// and the default synthesis unit that produces them.
//
// A synthesis unit turns one entity into its closed set of DTO definitions.
// It must be pure: the dispatcher in package gen runs it on isolated copies of
// the entities, in parallel and in no particular order.
package dto

import (
	"slices"
	"sort"

	"github.com/syssam/dtogen/compiler/load"
)

// Kind discriminates the two shapes a DTO can take. It is assigned once, when
// a definition is created, and is the only thing emitters route on.
type Kind uint8

const (
	// KindInvalid is the zero Kind. Definitions carrying it are rejected.
	KindInvalid Kind = iota
	// KindClass is a struct-shaped DTO with properties.
	KindClass
	// KindEnum is an enum-shaped DTO with ordered symbolic values.
	KindEnum
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Role is the slot a definition fills inside its entity set.
type Role string

// Roles of the entity DTO set.
const (
	RoleEntity             Role = "entity"
	RoleCreateInput        Role = "createInput"
	RoleUpdateInput        Role = "updateInput"
	RoleWhereInput         Role = "whereInput"
	RoleWhereUniqueInput   Role = "whereUniqueInput"
	RoleOrderByInput       Role = "orderByInput"
	RoleDeleteArgs         Role = "deleteArgs"
	RoleCountArgs          Role = "countArgs"
	RoleFindManyArgs       Role = "findManyArgs"
	RoleFindOneArgs        Role = "findOneArgs"
	RoleListRelationFilter Role = "listRelationFilter"
	RoleCreateArgs         Role = "createArgs"
	RoleUpdateArgs         Role = "updateArgs"
	RoleEnum               Role = "enum"
	RoleCreateNested       Role = "createNested"
	RoleUpdateNested       Role = "updateNested"
)

// IsInput reports if the role is a GraphQL input type.
func (r Role) IsInput() bool {
	switch r {
	case RoleCreateInput, RoleUpdateInput, RoleWhereInput, RoleWhereUniqueInput,
		RoleOrderByInput, RoleListRelationFilter, RoleCreateNested, RoleUpdateNested:
		return true
	}
	return false
}

// IsArgs reports if the role is a resolver arguments type.
func (r Role) IsArgs() bool {
	switch r {
	case RoleDeleteArgs, RoleCountArgs, RoleFindManyArgs, RoleFindOneArgs,
		RoleCreateArgs, RoleUpdateArgs:
		return true
	}
	return false
}

// Scalar is a built-in (non-DTO) property type.
type Scalar string

// Scalars use their GraphQL names.
const (
	ScalarID        Scalar = "ID"
	ScalarString    Scalar = "String"
	ScalarInt       Scalar = "Int"
	ScalarFloat     Scalar = "Float"
	ScalarBoolean   Scalar = "Boolean"
	ScalarDateTime  Scalar = "DateTime"
	ScalarJSON      Scalar = "JSON"
	ScalarSortOrder Scalar = "SortOrder"
)

type (
	// Property is one member of a class-shaped DTO. Exactly one of Scalar
	// and Ref is set.
	Property struct {
		Name   string `msgpack:"name"`
		Scalar Scalar `msgpack:"scalar,omitempty"`
		// Ref is the name of another DTO of the same run.
		Ref      string `msgpack:"ref,omitempty"`
		List     bool   `msgpack:"list,omitempty"`
		Optional bool   `msgpack:"optional,omitempty"`
		Comment  string `msgpack:"comment,omitempty"`
	}

	// Definition is a named DTO declaration. Definitions are created by exactly
	// one synthesis call and never mutated afterward.
	Definition struct {
		Name    string `msgpack:"name"`
		Kind    Kind   `msgpack:"kind"`
		Role    Role   `msgpack:"role"`
		Entity  string `msgpack:"entity"`
		Comment string `msgpack:"comment,omitempty"`
		// Properties of class-shaped DTOs, in emission order.
		Properties []*Property `msgpack:"properties,omitempty"`
		// Values of enum-shaped DTOs, in declaration order.
		Values []string `msgpack:"values,omitempty"`
	}

	// Set is the closed set of definitions derived from one entity.
	Set struct {
		Entity string        `msgpack:"entity"`
		DTOs   []*Definition `msgpack:"dtos"`
	}

	// Sets maps entity names to their DTO sets.
	Sets map[string]*Set
)

// IsRef reports if the property references another DTO.
func (p *Property) IsRef() bool { return p.Ref != "" }

// IsEnum reports if the definition is enum-shaped.
func (d *Definition) IsEnum() bool { return d.Kind == KindEnum }

// Refs returns the sorted, de-duplicated names of the DTOs d refers to.
func (d *Definition) Refs() []string {
	var refs []string
	for _, p := range d.Properties {
		if p.IsRef() && !slices.Contains(refs, p.Ref) {
			refs = append(refs, p.Ref)
		}
	}
	sort.Strings(refs)
	return refs
}

// Get returns the first definition with the given role, or nil.
func (s *Set) Get(r Role) *Definition {
	for _, d := range s.DTOs {
		if d.Role == r {
			return d
		}
	}
	return nil
}

// Has reports if the set contains a definition with the given role.
func (s *Set) Has(r Role) bool { return s.Get(r) != nil }

// Lookup returns the definition with the given name, or nil.
func (s *Set) Lookup(name string) *Definition {
	for _, d := range s.DTOs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Names returns the definition names in set order.
func (s *Set) Names() []string {
	names := make([]string, len(s.DTOs))
	for i, d := range s.DTOs {
		names[i] = d.Name
	}
	return names
}

// Enums returns the enum-shaped definitions in set order.
func (s *Set) Enums() []*Definition {
	var enums []*Definition
	for _, d := range s.DTOs {
		if d.IsEnum() {
			enums = append(enums, d)
		}
	}
	return enums
}

// EntityNames returns the entity names of the sets in sorted order.
func (s Sets) EntityNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of definitions across all sets.
func (s Sets) Len() int {
	n := 0
	for _, set := range s {
		n += len(set.DTOs)
	}
	return n
}

// Synthesizer produces the DTO set of one entity.
// Implementations must be safe for concurrent use and must not depend on
// shared mutable state or on the order entities are presented in.
type Synthesizer interface {
	Synthesize(e *load.Entity) (*Set, error)
}

// The SynthesizerFunc type is an adapter to allow the use of ordinary
// functions as Synthesizer.
type SynthesizerFunc func(*load.Entity) (*Set, error)

// Synthesize calls f(e).
func (f SynthesizerFunc) Synthesize(e *load.Entity) (*Set, error) { return f(e) }
