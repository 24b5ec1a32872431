package dto

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/dtogen/compiler/load"
)

// acronyms are kept upper-cased when building Go/GraphQL identifiers.
var acronyms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"ip":   "IP",
	"json": "JSON",
	"sql":  "SQL",
	"url":  "URL",
	"uuid": "UUID",
}

// Pascal converts a field or entity name to PascalCase, keeping common
// acronyms upper-cased (e.g. "userId" -> "UserID").
func Pascal(s string) string {
	words := strings.Split(inflect.Underscore(s), "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		if a, ok := acronyms[w]; ok {
			b.WriteString(a)
			continue
		}
		b.WriteString(inflect.Capitalize(w))
	}
	return b.String()
}

// Plural returns the plural form of the entity name used by nested inputs.
func Plural(e *load.Entity) string {
	if e.PluralName != "" {
		return Pascal(e.PluralName)
	}
	return inflect.Pluralize(e.Name)
}

// Names of the definitions in an entity set.
func EntityName(entity string) string             { return entity }
func CreateInputName(entity string) string        { return entity + "CreateInput" }
func UpdateInputName(entity string) string        { return entity + "UpdateInput" }
func WhereInputName(entity string) string         { return entity + "WhereInput" }
func WhereUniqueInputName(entity string) string   { return entity + "WhereUniqueInput" }
func OrderByInputName(entity string) string       { return entity + "OrderByInput" }
func DeleteArgsName(entity string) string         { return entity + "DeleteArgs" }
func CountArgsName(entity string) string          { return entity + "CountArgs" }
func FindManyArgsName(entity string) string       { return entity + "FindManyArgs" }
func FindOneArgsName(entity string) string        { return entity + "FindOneArgs" }
func ListRelationFilterName(entity string) string { return entity + "ListRelationFilter" }
func CreateArgsName(entity string) string         { return entity + "CreateArgs" }
func UpdateArgsName(entity string) string         { return entity + "UpdateArgs" }

// EnumName returns the name of the enum DTO of an option-set field.
func EnumName(field string) string { return "Enum" + Pascal(field) }

// QualifiedEnumName returns the entity-qualified name of the enum DTO of an
// option-set field, e.g. EnumOrderStatus.
func QualifiedEnumName(entity, field string) string {
	return "Enum" + Pascal(entity) + Pascal(field)
}

// CreateNestedManyName returns the name of the nested create input used by
// owner to connect many target entities, e.g. PostCreateNestedManyWithoutUsersInput.
func CreateNestedManyName(target, ownerPlural string) string {
	return target + "CreateNestedManyWithout" + Pascal(ownerPlural) + "Input"
}

// UpdateManyName returns the name of the nested update input used by owner
// to update its to-many relation, e.g. PostUpdateManyWithoutUsersInput.
func UpdateManyName(target, ownerPlural string) string {
	return target + "UpdateManyWithout" + Pascal(ownerPlural) + "Input"
}
