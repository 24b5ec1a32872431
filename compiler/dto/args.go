package dto

import (
	"fmt"

	"github.com/syssam/dtogen/compiler/load"
)

func deleteArgs(e *load.Entity, whereUnique *Definition) *Definition {
	return class(e, RoleDeleteArgs, DeleteArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the delete%s mutation.", DeleteArgsName(e.Name), e.Name),
		&Property{Name: "where", Ref: whereUnique.Name},
	)
}

func countArgs(e *load.Entity, where *Definition) *Definition {
	return class(e, RoleCountArgs, CountArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the %s count query.", CountArgsName(e.Name), e.Name),
		&Property{Name: "where", Ref: where.Name, Optional: true},
	)
}

func findManyArgs(e *load.Entity, where, orderBy *Definition) *Definition {
	return class(e, RoleFindManyArgs, FindManyArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the %s list query.", FindManyArgsName(e.Name), Plural(e)),
		&Property{Name: "where", Ref: where.Name, Optional: true},
		&Property{Name: "orderBy", Ref: orderBy.Name, List: true, Optional: true},
		&Property{Name: "skip", Scalar: ScalarInt, Optional: true},
		&Property{Name: "take", Scalar: ScalarInt, Optional: true},
	)
}

func findOneArgs(e *load.Entity, whereUnique *Definition) *Definition {
	return class(e, RoleFindOneArgs, FindOneArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the %s query.", FindOneArgsName(e.Name), e.Name),
		&Property{Name: "where", Ref: whereUnique.Name},
	)
}

func listRelationFilter(e *load.Entity, where *Definition) *Definition {
	return class(e, RoleListRelationFilter, ListRelationFilterName(e.Name),
		fmt.Sprintf("%s filters a to-many relation pointing to %s.", ListRelationFilterName(e.Name), e.Name),
		&Property{Name: "every", Ref: where.Name, Optional: true},
		&Property{Name: "some", Ref: where.Name, Optional: true},
		&Property{Name: "none", Ref: where.Name, Optional: true},
	)
}

// createArgs returns nil unless the entity has a to-many relation, whose
// nested inputs need a dedicated args type to be addressed by resolvers.
func createArgs(e *load.Entity, data *Definition) *Definition {
	if !e.HasToMany() {
		return nil
	}
	return class(e, RoleCreateArgs, CreateArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the create%s mutation.", CreateArgsName(e.Name), e.Name),
		&Property{Name: "data", Ref: data.Name},
	)
}

// updateArgs follows the same inclusion rule as createArgs.
func updateArgs(e *load.Entity, whereUnique, data *Definition) *Definition {
	if !e.HasToMany() {
		return nil
	}
	return class(e, RoleUpdateArgs, UpdateArgsName(e.Name),
		fmt.Sprintf("%s are the arguments of the update%s mutation.", UpdateArgsName(e.Name), e.Name),
		&Property{Name: "where", Ref: whereUnique.Name},
		&Property{Name: "data", Ref: data.Name},
	)
}
