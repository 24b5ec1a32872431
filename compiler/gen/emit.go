package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/dtogen/compiler/dto"
)

// Emitter renders one DTO definition into one module.
type Emitter interface {
	Emit(d *dto.Definition, table *PathTable) (*Module, error)
}

// The EmitterFunc type is an adapter to allow the use of ordinary
// functions as Emitter.
type EmitterFunc func(*dto.Definition, *PathTable) (*Module, error)

// Emit calls f(d, table).
func (f EmitterFunc) Emit(d *dto.Definition, table *PathTable) (*Module, error) {
	return f(d, table)
}

// emitter holds what both emitters need to start a file.
type emitter struct {
	pkg    string
	header string
}

func newEmitter(cfg *Config) emitter {
	if cfg == nil {
		cfg = &Config{}
	}
	return emitter{pkg: cfg.PackageName(), header: cfg.HeaderComment()}
}

func (e emitter) newFile() *jen.File {
	f := jen.NewFile(e.pkg)
	f.HeaderComment(e.header)
	return f
}

func (e emitter) module(d *dto.Definition, table *PathTable, render func(*jen.File) error) (*Module, error) {
	path, ok := table.Path(d.Name)
	if !ok {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, Message: fmt.Sprintf("no path for %q", d.Name)}
	}
	f := e.newFile()
	if err := render(f); err != nil {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, File: path, Cause: err}
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, File: path, Message: "render", Cause: err}
	}
	return &Module{Path: path, Name: d.Name, Kind: d.Kind, Content: buf.Bytes()}, nil
}

// ClassEmitter renders class-shaped DTOs as Go structs.
type ClassEmitter struct {
	emitter
}

// NewClassEmitter returns a ClassEmitter configured by cfg.
func NewClassEmitter(cfg *Config) *ClassEmitter {
	return &ClassEmitter{emitter: newEmitter(cfg)}
}

// Emit implements the Emitter interface.
func (e *ClassEmitter) Emit(d *dto.Definition, table *PathTable) (*Module, error) {
	if d.Kind != dto.KindClass {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, Message: fmt.Sprintf("%s is not a class DTO", d.Name)}
	}
	return e.module(d, table, func(f *jen.File) error {
		fields := make([]jen.Code, 0, len(d.Properties))
		seen := make(map[string]string, len(d.Properties))
		for _, p := range d.Properties {
			name := dto.Pascal(p.Name)
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("properties %q and %q both map to field %s", prev, p.Name, name)
			}
			seen[name] = p.Name
			typ, err := propertyType(d, p, table)
			if err != nil {
				return err
			}
			if p.Comment != "" {
				fields = append(fields, jen.Comment(p.Comment))
			}
			fields = append(fields, jen.Id(name).Add(typ).Tag(structTags(d, p)))
		}
		if d.Comment != "" {
			f.Comment(d.Comment)
		}
		f.Type().Id(d.Name).Struct(fields...)
		return nil
	})
}

// structTags returns the tags of a property field. Mandatory members of
// inputs and args carry a validation tag.
func structTags(d *dto.Definition, p *dto.Property) map[string]string {
	if p.Optional {
		return map[string]string{"json": p.Name + ",omitempty"}
	}
	tags := map[string]string{"json": p.Name}
	if d.Role.IsInput() || d.Role.IsArgs() {
		tags["validate"] = "required"
	}
	return tags
}

// propertyType returns the Go type of a property. References must resolve
// through the table. Relations of an entity DTO are always pointers, since
// required relations may form cycles between entities.
func propertyType(d *dto.Definition, p *dto.Property, table *PathTable) (*jen.Statement, error) {
	var base *jen.Statement
	switch {
	case p.IsRef():
		if _, ok := table.Path(p.Ref); !ok {
			return nil, fmt.Errorf("property %q references unknown DTO %q", p.Name, p.Ref)
		}
		base = jen.Id(p.Ref)
	case p.Scalar == dto.ScalarID, p.Scalar == dto.ScalarString, p.Scalar == dto.ScalarSortOrder:
		base = jen.String()
	case p.Scalar == dto.ScalarInt:
		base = jen.Int()
	case p.Scalar == dto.ScalarFloat:
		base = jen.Float64()
	case p.Scalar == dto.ScalarBoolean:
		base = jen.Bool()
	case p.Scalar == dto.ScalarDateTime:
		base = jen.Qual("time", "Time")
	case p.Scalar == dto.ScalarJSON:
		base = jen.Map(jen.String()).Any()
	default:
		return nil, fmt.Errorf("property %q has unknown scalar %q", p.Name, p.Scalar)
	}
	switch {
	case p.List:
		return jen.Index().Add(base), nil
	case p.IsRef() && d.Role == dto.RoleEntity:
		return jen.Op("*").Add(base), nil
	case p.Optional && p.Scalar != dto.ScalarJSON:
		return jen.Op("*").Add(base), nil
	default:
		return base, nil
	}
}

// EnumEmitter renders enum-shaped DTOs as Go string types with one constant
// per value.
type EnumEmitter struct {
	emitter
}

// NewEnumEmitter returns an EnumEmitter configured by cfg.
func NewEnumEmitter(cfg *Config) *EnumEmitter {
	return &EnumEmitter{emitter: newEmitter(cfg)}
}

// Emit implements the Emitter interface.
func (e *EnumEmitter) Emit(d *dto.Definition, table *PathTable) (*Module, error) {
	if d.Kind != dto.KindEnum {
		return nil, &GenerationError{Phase: PhaseEmit, Entity: d.Entity, Message: fmt.Sprintf("%s is not an enum DTO", d.Name)}
	}
	return e.module(d, table, func(f *jen.File) error {
		if len(d.Values) == 0 {
			return fmt.Errorf("enum %s has no values", d.Name)
		}
		consts, err := EnumConstNames(d.Name, d.Values)
		if err != nil {
			return err
		}
		genEnumType(f, d, consts)
		return nil
	})
}

// EnumConstNames returns the Go constant names of the values of an enum,
// e.g. EnumRole + "IN_REVIEW" -> "EnumRoleInReview".
func EnumConstNames(enum string, values []string) ([]string, error) {
	title := cases.Title(language.Und)
	names := make([]string, len(values))
	seen := make(map[string]string, len(values))
	for i, v := range values {
		var b strings.Builder
		b.WriteString(enum)
		for _, w := range strings.FieldsFunc(v, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			b.WriteString(title.String(strings.ToLower(w)))
		}
		name := b.String()
		if name == enum || !token.IsIdentifier(name) {
			return nil, fmt.Errorf("enum %s: value %q cannot be named", enum, v)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("enum %s: values %q and %q both map to %s", enum, prev, v, name)
		}
		seen[name] = v
		names[i] = name
	}
	return names, nil
}

func genEnumType(f *jen.File, d *dto.Definition, consts []string) {
	enumName := d.Name
	if d.Comment != "" {
		f.Comment(d.Comment)
	}
	f.Type().Id(enumName).String()

	f.Commentf("Values of %s.", enumName)
	f.Const().DefsFunc(func(defs *jen.Group) {
		for i, v := range d.Values {
			defs.Id(consts[i]).Id(enumName).Op("=").Lit(v)
		}
	})

	f.Func().Params(jen.Id("e").Id(enumName)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id("e"))),
	)

	f.Commentf("IsValid reports if e is one of the declared %s values.", enumName)
	f.Func().Params(jen.Id("e").Id(enumName)).Id("IsValid").Params().Bool().BlockFunc(func(body *jen.Group) {
		body.Switch(jen.Id("e")).BlockFunc(func(sw *jen.Group) {
			matches := make([]jen.Code, 0, len(consts))
			for _, c := range consts {
				matches = append(matches, jen.Id(c))
			}
			sw.Case(matches...).Block(jen.Return(jen.True()))
			sw.Default().Block(jen.Return(jen.False()))
		})
	})

	f.Commentf("%sValues returns all valid values for %s.", enumName, enumName)
	f.Func().Id(enumName + "Values").Params().Index().Id(enumName).Block(
		jen.Return(jen.Index().Id(enumName).ValuesFunc(func(vals *jen.Group) {
			for _, c := range consts {
				vals.Id(c)
			}
		})),
	)

	f.Comment("MarshalGQL implements graphql.Marshaler interface.")
	f.Func().Params(jen.Id("e").Id(enumName)).Id("MarshalGQL").Params(
		jen.Id("w").Qual("io", "Writer"),
	).Block(
		jen.Qual("io", "WriteString").Call(
			jen.Id("w"),
			jen.Qual("strconv", "Quote").Call(jen.Id("e").Dot("String").Call()),
		),
	)

	f.Comment("UnmarshalGQL implements graphql.Unmarshaler interface.")
	f.Func().Params(jen.Id("e").Op("*").Id(enumName)).Id("UnmarshalGQL").Params(
		jen.Id("val").Any(),
	).Error().Block(
		jen.List(jen.Id("str"), jen.Id("ok")).Op(":=").Id("val").Assert(jen.String()),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("enum %T must be a string"), jen.Id("val"))),
		),
		jen.Op("*").Id("e").Op("=").Id(enumName).Call(jen.Id("str")),
		jen.If(jen.Op("!").Id("e").Dot("IsValid").Call()).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("%s is not a valid "+enumName), jen.Id("str"))),
		),
		jen.Return(jen.Nil()),
	)
}
