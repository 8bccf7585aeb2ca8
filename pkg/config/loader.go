package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadOption adjusts how Load sources the environment.
type LoadOption func(*loadOptions)

type loadOptions struct {
	envFiles []string
}

// WithEnvFiles loads the named .env files into the process environment
// before parsing. Unlike the implicit default .env, a named file that is
// missing is an error.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, files...)
	}
}

// Load populates v from environment variables using env tags. A .env file
// in the working directory is sourced first when present; additional files
// can be required with WithEnvFiles. Load carries no cache: parse once at
// startup and pass the struct down.
//
//	type Settings struct {
//		Path string `env:"SNAPSHOT_PATH,required"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil { ... }
func Load[T any](v *T, opts ...LoadOption) error {
	if v == nil {
		return ErrNilPointer
	}

	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	// The default .env is best effort; named files are not.
	_ = godotenv.Load()
	if len(o.envFiles) > 0 {
		if err := godotenv.Load(o.envFiles...); err != nil {
			return errors.Join(ErrEnvFileNotLoaded, err)
		}
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load that panics on failure, for settings the process cannot
// start without.
func MustLoad[T any](v *T, opts ...LoadOption) {
	if err := Load(v, opts...); err != nil {
		panic(err)
	}
}
