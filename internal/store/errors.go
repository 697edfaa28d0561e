package store

import (
	"fmt"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

func connectionError(path string, cause error) *failure.Error {
	return failure.Wrap(
		failure.KindDatabase,
		failure.CodeDBConnectionError,
		fmt.Sprintf("cannot open chunk store at %s: %v", path, cause),
		cause,
		failure.Details{metadata.AttrPath: path},
	)
}

func operationError(operation string, cause error) *failure.Error {
	return failure.Wrap(
		failure.KindDatabase,
		failure.CodeDBOperationError,
		fmt.Sprintf("%s failed: %v", operation, cause),
		cause,
		failure.Details{metadata.AttrOperation: operation},
	)
}
