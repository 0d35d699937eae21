// Package config loads typed configuration structs from the environment.
//
// Each package declares its own Config struct with `env` tags; Load fills it
// from the process environment after a one-time .env bootstrap. Missing
// required variables surface as errors at startup, not at request time.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config.nil_pointer")
	ErrParsingFailed = errors.New("config.parsing_failed")
)

// The .env file is optional; a missing one is not an error.
var loadDotEnv = sync.OnceFunc(func() { _ = godotenv.Load() })

// Load parses environment variables into the provided struct.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingFailed, err)
	}
	return nil
}

// MustLoad panics when required configuration is missing, so a broken
// deployment refuses to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
