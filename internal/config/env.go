package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// LookupFunc resolves a named external configuration value.
type LookupFunc func(name string) (string, bool)

// RequireEnv checks the process environment. See RequireEnvWith.
func RequireEnv(names []string) *failure.Error {
	return RequireEnvWith(os.LookupEnv, names)
}

// RequireEnvWith checks, in order, that every named value is present and
// non-empty. The first missing one yields a ConfigurationError carrying
// details {"missing": name}. Nothing is logged here; the calling boundary
// does that.
func RequireEnvWith(lookup LookupFunc, names []string) *failure.Error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range names {
		if v, ok := lookup(name); ok && v != "" {
			continue
		}
		return failure.New(
			failure.KindConfiguration,
			failure.CodeConfigurationError,
			fmt.Sprintf("Required environment variable %s is missing", name),
			failure.Details{metadata.AttrMissing: name},
		)
	}
	return nil
}

// LoadDotEnv loads the given .env files (".env" when none are given) into
// the process environment without overriding values already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return configError(ErrConfigParsingFail, "", "%s: %v", p, err)
		}
	}
	return nil
}
