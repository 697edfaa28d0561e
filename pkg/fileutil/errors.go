package fileutil

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// classifyPathError maps a filesystem error for path to the file kind of
// the taxonomy. Missing files keep their own code; everything else is an
// upload/storage fault.
func classifyPathError(action string, path string, err error) *failure.Error {
	code := failure.CodeFileUploadError
	if errors.Is(err, fs.ErrNotExist) {
		code = failure.CodeFileNotFound
	}
	return failure.Wrap(
		failure.KindFile,
		code,
		fmt.Sprintf("%s %s: %v", action, path, err),
		err,
		failure.Details{"path": path},
	)
}
