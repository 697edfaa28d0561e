package guard

import (
	"errors"
	"io/fs"
	"net"
	"strconv"
	"syscall"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// Match classifies errors matching target (errors.Is) as kind/code.
func Match(target error, kind failure.Kind, code failure.Code) Rule {
	return func(err error) (failure.Kind, failure.Code, bool) {
		if errors.Is(err, target) {
			return kind, code, true
		}
		return 0, "", false
	}
}

// NetworkRule classifies transport failures as vector-store connectivity
// faults.
func NetworkRule() Rule {
	return func(err error) (failure.Kind, failure.Code, bool) {
		var netErr net.Error
		if errors.As(err, &netErr) ||
			errors.Is(err, syscall.ECONNREFUSED) ||
			errors.Is(err, syscall.ECONNRESET) {
			return failure.KindDatabase, failure.CodeDBConnectionError, true
		}
		return 0, "", false
	}
}

// OSRules maps common operating-system failures onto the taxonomy:
// missing files, permission problems and network faults.
func OSRules() []Rule {
	return []Rule{
		Match(fs.ErrNotExist, failure.KindFile, failure.CodeFileNotFound),
		Match(fs.ErrPermission, failure.KindFile, failure.CodeFileUploadError),
		NetworkRule(),
	}
}

// ValueRules classifies malformed or out-of-range values as caller input
// failures.
func ValueRules() []Rule {
	return []Rule{
		Match(strconv.ErrSyntax, failure.KindValidation, failure.CodeValidationError),
		Match(strconv.ErrRange, failure.KindValidation, failure.CodeValidationError),
	}
}

// DefaultRules is OSRules followed by ValueRules.
func DefaultRules() []Rule {
	return append(OSRules(), ValueRules()...)
}
