package dto

import (
	"fmt"

	"github.com/syssam/dtogen/compiler/load"
)

func entityDTO(e *load.Entity, enum enumNamer) *Definition {
	id := idField(e)
	props := []*Property{{Name: id.Name, Scalar: ScalarID, Comment: id.Comment}}
	for _, f := range dataFields(e) {
		props = append(props, fieldProp(e, f, !f.Required, enum))
	}
	for _, r := range e.Relations {
		props = append(props, &Property{
			Name:     r.Name,
			Ref:      EntityName(r.Target),
			List:     r.Many,
			Optional: r.Many || !r.Required,
		})
	}
	comment := e.Comment
	if comment == "" {
		comment = fmt.Sprintf("%s is the %s entity.", e.Name, e.Name)
	}
	return class(e, RoleEntity, EntityName(e.Name), comment, props...)
}

func createInput(e *load.Entity, enum enumNamer) *Definition {
	var props []*Property
	for _, f := range dataFields(e) {
		props = append(props, fieldProp(e, f, !f.Required, enum))
	}
	for _, r := range e.Relations {
		if r.Many {
			props = append(props, &Property{
				Name:     r.Name,
				Ref:      CreateNestedManyName(r.Target, Plural(e)),
				Optional: true,
			})
			continue
		}
		props = append(props, &Property{
			Name:     r.Name,
			Ref:      WhereUniqueInputName(r.Target),
			Optional: !r.Required,
		})
	}
	return class(e, RoleCreateInput, CreateInputName(e.Name),
		fmt.Sprintf("%s holds the data for creating a %s.", CreateInputName(e.Name), e.Name), props...)
}

func updateInput(e *load.Entity, enum enumNamer) *Definition {
	var props []*Property
	for _, f := range dataFields(e) {
		props = append(props, fieldProp(e, f, true, enum))
	}
	for _, r := range e.Relations {
		ref := WhereUniqueInputName(r.Target)
		if r.Many {
			ref = UpdateManyName(r.Target, Plural(e))
		}
		props = append(props, &Property{Name: r.Name, Ref: ref, Optional: true})
	}
	return class(e, RoleUpdateInput, UpdateInputName(e.Name),
		fmt.Sprintf("%s holds the data for updating a %s.", UpdateInputName(e.Name), e.Name), props...)
}

func whereInput(e *load.Entity, enum enumNamer) *Definition {
	id := idField(e)
	props := []*Property{{Name: id.Name, Scalar: ScalarID, Optional: true}}
	for _, f := range dataFields(e) {
		if f.Type == load.TypeJSON {
			continue
		}
		props = append(props, fieldProp(e, f, true, enum))
	}
	for _, r := range e.Relations {
		ref := WhereUniqueInputName(r.Target)
		if r.Many {
			ref = ListRelationFilterName(r.Target)
		}
		props = append(props, &Property{Name: r.Name, Ref: ref, Optional: true})
	}
	return class(e, RoleWhereInput, WhereInputName(e.Name),
		fmt.Sprintf("%s filters %s entities.", WhereInputName(e.Name), Plural(e)), props...)
}

func whereUniqueInput(e *load.Entity) *Definition {
	id := idField(e)
	props := []*Property{{Name: id.Name, Scalar: ScalarID}}
	for _, f := range dataFields(e) {
		if f.Unique && !f.Type.IsEnum() {
			props = append(props, &Property{Name: f.Name, Scalar: scalarOf(f.Type), Optional: true})
		}
	}
	// Any unique key identifies the entity, so the id is only mandatory
	// when it is the single key.
	props[0].Optional = len(props) > 1
	return class(e, RoleWhereUniqueInput, WhereUniqueInputName(e.Name),
		fmt.Sprintf("%s identifies a single %s.", WhereUniqueInputName(e.Name), e.Name), props...)
}

func orderByInput(e *load.Entity) *Definition {
	id := idField(e)
	props := []*Property{{Name: id.Name, Scalar: ScalarSortOrder, Optional: true}}
	for _, f := range dataFields(e) {
		if f.Type == load.TypeJSON || f.Type == load.TypeEnums {
			continue
		}
		props = append(props, &Property{Name: f.Name, Scalar: ScalarSortOrder, Optional: true})
	}
	return class(e, RoleOrderByInput, OrderByInputName(e.Name),
		fmt.Sprintf("%s sorts %s entities.", OrderByInputName(e.Name), Plural(e)), props...)
}
