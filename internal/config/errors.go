package config

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

var ErrFileDoesNotExist = errors.New("config file does not exist")
var ErrReadConfigFail = errors.New("failed to read config file")
var ErrConfigParsingFail = errors.New("failed to parse config file")
var ErrInvalidConfig = errors.New("invalid config")

// configError classifies a configuration problem. The sentinel stays
// reachable through errors.Is.
func configError(sentinel error, field string, format string, args ...any) *failure.Error {
	var details failure.Details
	if field != "" {
		details = failure.Details{"field": field}
	}
	return failure.Wrap(
		failure.KindConfiguration,
		failure.CodeConfigurationError,
		fmt.Sprintf("%v: %s", sentinel, fmt.Sprintf(format, args...)),
		sentinel,
		details,
	)
}
