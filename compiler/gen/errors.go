package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates an entity model error.
	ErrInvalidSchema = errors.New("dtogen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("dtogen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("dtogen: code generation failed")
	// ErrCollision indicates two artifacts claimed the same key.
	ErrCollision = errors.New("dtogen: collision")
	// ErrPoolClosed is returned when a worker pool is released twice.
	ErrPoolClosed = errors.New("dtogen: worker pool already closed")
)

// SchemaError represents an entity model error.
type SchemaError struct {
	Entity  string // Entity name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("dtogen: schema error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Entity:  entity,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dtogen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("dtogen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// Generation phases reported by GenerationError.
const (
	PhaseSynthesize = "synthesize"
	PhaseMerge      = "merge"
	PhaseAssemble   = "assemble"
	PhaseEmit       = "emit"
	PhaseHook       = "hook"
	PhaseWrite      = "write"
)

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "synthesize", "assemble", "emit", etc.
	Entity  string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("dtogen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// CollisionKind names the key space in which a collision happened.
type CollisionKind string

// Collision kinds.
const (
	// CollisionEntity is an entity name produced by more than one worker.
	CollisionEntity CollisionKind = "entity"
	// CollisionName is a DTO name declared more than once.
	CollisionName CollisionKind = "name"
	// CollisionPath is an output path claimed by two distinct DTOs.
	CollisionPath CollisionKind = "path"
	// CollisionModule is a module registered twice in a ModuleMap.
	CollisionModule CollisionKind = "module"
)

// CollisionError reports two artifacts claiming the same key. It always
// indicates an internal-consistency defect and is never resolved by
// overwriting.
type CollisionError struct {
	Kind   CollisionKind
	Key    string
	First  string // owner of the key
	Second string // artifact that tried to claim it again
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dtogen: %s collision on %q", e.Kind, e.Key)
	if e.First != "" && e.Second != "" {
		fmt.Fprintf(&b, " (%s vs %s)", e.First, e.Second)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for CollisionError.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// NewCollisionError creates a new CollisionError.
func NewCollisionError(kind CollisionKind, key, first, second string) *CollisionError {
	return &CollisionError{
		Kind:   kind,
		Key:    key,
		First:  first,
		Second: second,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsCollisionError reports whether the error is a CollisionError.
func IsCollisionError(err error) bool {
	var collErr *CollisionError
	return errors.As(err, &collErr)
}
