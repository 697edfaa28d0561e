package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

const bytesPerMB = 1024 * 1024

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) *failure.Error {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return classifyPathError("create directory", target, err)
	}
	return nil
}

// ValidateFileType checks filename's extension (case-insensitive) against
// allowed, where entries may be given with or without the leading dot.
func ValidateFileType(filename string, allowed []string) *failure.Error {
	if filename == "" {
		return failure.New(failure.KindValidation, failure.CodeValidationError, "Filename cannot be empty", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	normalized := make([]string, 0, len(allowed))
	for _, a := range allowed {
		a = strings.ToLower(a)
		if a != "" && !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		normalized = append(normalized, a)
		if ext != "" && ext == a {
			return nil
		}
	}

	return failure.New(
		failure.KindValidation,
		failure.CodeInvalidFileFormat,
		fmt.Sprintf("File type %s not allowed. Allowed types: %v", ext, normalized),
		failure.Details{"filename": filename, "extension": ext},
	)
}

// ValidateFileSize rejects files larger than maxSizeMB megabytes.
func ValidateFileSize(size int64, maxSizeMB int) *failure.Error {
	maxBytes := int64(maxSizeMB) * bytesPerMB
	if size <= maxBytes {
		return nil
	}
	sizeMB := float64(size) / bytesPerMB
	return failure.New(
		failure.KindValidation,
		failure.CodeFileSizeExceeded,
		fmt.Sprintf("File size %.2fMB exceeds maximum allowed size of %dMB", sizeMB, maxSizeMB),
		failure.Details{"file_size_mb": sizeMB, "max_size_mb": maxSizeMB},
	)
}

// Stat returns the size of a regular file, classifying a missing file as
// FILE_NOT_FOUND.
func Stat(path string) (int64, *failure.Error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, classifyPathError("stat", path, err)
	}
	if info.IsDir() {
		return 0, failure.New(
			failure.KindValidation,
			failure.CodeInvalidFileFormat,
			fmt.Sprintf("%s is a directory", path),
			failure.Details{"path": path},
		)
	}
	return info.Size(), nil
}

// SaveUpload copies src into dir under the base name of filename and
// returns the written path. Existing files are overwritten.
func SaveUpload(dir string, filename string, src io.Reader) (string, *failure.Error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	target := filepath.Join(dir, filepath.Base(filename))
	out, err := os.Create(target)
	if err != nil {
		return "", classifyPathError("create", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", classifyPathError("write", target, err)
	}
	if err := out.Close(); err != nil {
		return "", classifyPathError("close", target, err)
	}
	return target, nil
}
