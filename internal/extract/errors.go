package extract

import (
	"errors"
	"io/fs"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// processingError classifies a document that was found but could not be
// turned into text.
func processingError(path, message string, cause error) *failure.Error {
	return failure.Wrap(
		failure.KindFile,
		failure.CodePDFProcessingError,
		message,
		cause,
		failure.Details{metadata.AttrPath: path},
	)
}

// openError separates missing files from unreadable ones.
func openError(path string, cause error) *failure.Error {
	code := failure.CodePDFProcessingError
	if errors.Is(cause, fs.ErrNotExist) {
		code = failure.CodeFileNotFound
	}
	return failure.Wrap(
		failure.KindFile,
		code,
		cause.Error(),
		cause,
		failure.Details{metadata.AttrPath: path},
	)
}
