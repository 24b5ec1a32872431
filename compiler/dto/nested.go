package dto

import (
	"fmt"
	"slices"

	"github.com/syssam/dtogen/compiler/load"
)

// enumDTOs returns one enum definition per option-set field.
func enumDTOs(e *load.Entity, enum enumNamer) []*Definition {
	var defs []*Definition
	for _, f := range e.EnumFields() {
		name := enum(e.Name, f.Name)
		defs = append(defs, &Definition{
			Name:    name,
			Kind:    KindEnum,
			Role:    RoleEnum,
			Entity:  e.Name,
			Comment: fmt.Sprintf("%s lists the values of the %s %s field.", name, e.Name, f.Name),
			Values:  slices.Clone(f.Enums),
		})
	}
	return defs
}

// toManyDTOs returns the nested create inputs followed by the nested update
// inputs of every to-many relation. Two relations to the same target share
// their nested inputs.
func toManyDTOs(e *load.Entity) []*Definition {
	var creates, updates []*Definition
	seen := make(map[string]bool)
	for _, r := range e.ToMany() {
		name := CreateNestedManyName(r.Target, Plural(e))
		if seen[name] {
			continue
		}
		seen[name] = true
		unique := WhereUniqueInputName(r.Target)
		creates = append(creates, class(e, RoleCreateNested, name,
			fmt.Sprintf("%s connects %s to a new %s.", name, targetPlural(r), e.Name),
			&Property{Name: "connect", Ref: unique, List: true, Optional: true},
		))
		update := UpdateManyName(r.Target, Plural(e))
		updates = append(updates, class(e, RoleUpdateNested, update,
			fmt.Sprintf("%s changes the %s connected to a %s.", update, targetPlural(r), e.Name),
			&Property{Name: "connect", Ref: unique, List: true, Optional: true},
			&Property{Name: "disconnect", Ref: unique, List: true, Optional: true},
			&Property{Name: "set", Ref: unique, List: true, Optional: true},
		))
	}
	return append(creates, updates...)
}

func targetPlural(r *load.Relation) string {
	return Plural(&load.Entity{Name: r.Target})
}
