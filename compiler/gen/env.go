package gen

import (
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings read from the process environment.
type Env struct {
	// Threads is kept raw so that an invalid value falls back to
	// DefaultWorkers instead of failing the run.
	Threads string `env:"THREADS"`
	Target  string `env:"DTOGEN_TARGET"`
	Package string `env:"DTOGEN_PACKAGE"`
}

// LoadEnv parses the process environment.
func LoadEnv() (*Env, error) {
	e := &Env{}
	if err := env.Parse(e); err != nil {
		return nil, NewConfigError("Env", nil, err.Error())
	}
	return e, nil
}

// LoadEnvFrom parses the given environment instead of the process one.
func LoadEnvFrom(environ map[string]string) (*Env, error) {
	e := &Env{}
	if err := env.ParseWithOptions(e, env.Options{Environment: environ}); err != nil {
		return nil, NewConfigError("Env", nil, err.Error())
	}
	return e, nil
}

// Workers returns the pool size requested by THREADS, or DefaultWorkers
// when it is unset, not a number or not positive.
func (e *Env) Workers() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Threads))
	if err != nil || n < 1 {
		return DefaultWorkers
	}
	return n
}

// WithEnv applies environment settings. Target and Package are only set when
// present, so options applied later still take precedence.
func WithEnv(e *Env) Option {
	return func(c *Config) error {
		if e == nil {
			return NewConfigError("Env", nil, "env cannot be nil")
		}
		c.Workers = e.Workers()
		if e.Target != "" {
			c.Target = e.Target
		}
		if e.Package != "" {
			c.Package = e.Package
		}
		return nil
	}
}
