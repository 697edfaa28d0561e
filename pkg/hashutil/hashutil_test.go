package hashutil_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohmanhakim/askpdf/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"
)

func TestHashBytes_SHA256(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple string",
			data:     []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hashutil.HashBytes(tt.data, hashutil.HashAlgoSHA256)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHashBytes_BLAKE3MatchesLibrary(t *testing.T) {
	data := []byte("chunk text extracted from page 3")
	sum := blake3.Sum256(data)

	got, err := hashutil.HashBytes(data, hashutil.HashAlgoBLAKE3)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestHashBytes_UnsupportedAlgo(t *testing.T) {
	_, err := hashutil.HashBytes([]byte("x"), "md5")
	assert.Error(t, err)
}

func TestHashReaderAndFileAgree(t *testing.T) {
	content := strings.Repeat("page text ", 10000)
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	fromBytes, err := hashutil.HashBytes([]byte(content), hashutil.DefaultAlgo)
	require.NoError(t, err)
	fromReader, err := hashutil.HashReader(strings.NewReader(content), hashutil.DefaultAlgo)
	require.NoError(t, err)
	fromFile, err := hashutil.HashFile(path, hashutil.DefaultAlgo)
	require.NoError(t, err)

	assert.Equal(t, fromBytes, fromReader)
	assert.Equal(t, fromBytes, fromFile)
}

func TestHashFile_Missing(t *testing.T) {
	_, err := hashutil.HashFile(filepath.Join(t.TempDir(), "nope"), hashutil.HashAlgoSHA256)
	assert.Error(t, err)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef", hashutil.Short("abcdef123456", 6))
	assert.Equal(t, "abc", hashutil.Short("abc", 12))
	assert.Equal(t, "abc", hashutil.Short("abc", 0))
}
