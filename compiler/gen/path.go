package gen

import (
	"sort"
	"strings"
	"unicode"

	"github.com/syssam/dtogen/compiler/dto"
)

// snake converts the given name to snake_case, keeping acronyms together
// (e.g. "UserIDs" -> "user_ids", "HTTPCode" -> "http_code").
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is
		// uppercase, and previous is lowercase or a digit (cases like:
		// "UserInfo", "Entity0Input"), or next letter is also a lowercase and
		// previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) || unicode.IsDigit(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// EntitySegment returns the path segment of an entity (e.g. "OrderItem" -> "order_item").
func EntitySegment(entity string) string {
	return snake(entity)
}

// ModulePath returns the output path of the DTO called name owned by entity.
// The entity DTO maps to "<segment>.go"; DTOs whose name already starts with
// the entity name keep their stem ("user_create_input.go"); any other DTO is
// prefixed with the segment ("user_enum_role.go").
func ModulePath(entity, name string) string {
	seg, stem := EntitySegment(entity), snake(name)
	switch {
	case stem == seg:
		return seg + ".go"
	case strings.HasPrefix(stem, seg+"_"):
		return stem + ".go"
	default:
		return seg + "_" + stem + ".go"
	}
}

// PathTable maps every DTO name of a run to its module path. It is built once,
// before emission, and is read-only afterward.
type PathTable struct {
	paths    map[string]string // name -> path
	owners   map[string]string // path -> name
	entities map[string]string // name -> declaring entity
}

// NewPathTable builds the table in one pass over the sets, in sorted entity
// order. A DTO name declared twice, or two names resolving to the same path,
// fails the build.
func NewPathTable(sets dto.Sets) (*PathTable, error) {
	t := &PathTable{
		paths:    make(map[string]string, sets.Len()),
		owners:   make(map[string]string, sets.Len()),
		entities: make(map[string]string, sets.Len()),
	}
	for _, entity := range sets.EntityNames() {
		set := sets[entity]
		if set == nil {
			return nil, &GenerationError{Phase: PhaseAssemble, Entity: entity, Message: "missing DTO set"}
		}
		for _, d := range set.DTOs {
			if err := t.add(entity, d.Name); err != nil {
				return nil, &GenerationError{Phase: PhaseAssemble, Entity: entity, Cause: err}
			}
		}
	}
	return t, nil
}

func (t *PathTable) add(entity, name string) error {
	p := ModulePath(entity, name)
	if prev, ok := t.paths[name]; ok {
		return NewCollisionError(CollisionName, name, declaredBy(t.entities[name], prev), declaredBy(entity, p))
	}
	if prev, ok := t.owners[p]; ok {
		return NewCollisionError(CollisionPath, p, prev, name)
	}
	t.paths[name] = p
	t.owners[p] = name
	t.entities[name] = entity
	return nil
}

func declaredBy(entity, path string) string {
	return entity + " (" + path + ")"
}

// Path returns the module path of the named DTO.
func (t *PathTable) Path(name string) (string, bool) {
	p, ok := t.paths[name]
	return p, ok
}

// Names returns the DTO names of the table in sorted order.
func (t *PathTable) Names() []string {
	names := make([]string, 0, len(t.paths))
	for name := range t.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (t *PathTable) Len() int { return len(t.paths) }
