package failure_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEnvelope(t *testing.T) {
	se := failure.New(failure.KindValidation, failure.CodeInvalidFileFormat, "File type .txt not allowed", failure.Details{"extension": ".txt"})

	env := failure.ToEnvelope(se)

	assert.True(t, env.Error)
	assert.False(t, env.Success)
	assert.Equal(t, failure.CodeInvalidFileFormat, env.ErrorCode)
	assert.Equal(t, "File type .txt not allowed", env.Message)
	assert.Equal(t, failure.Details{"extension": ".txt"}, env.Details)

	ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(se.OccurredAt()))
}

func TestToEnvelope_JSONShape(t *testing.T) {
	t.Run("details present", func(t *testing.T) {
		se := failure.New(failure.KindConfiguration, "", "GOOGLE_API_KEY is not set", failure.Details{"missing": "GOOGLE_API_KEY"})

		raw, err := json.Marshal(failure.ToEnvelope(se))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, true, got["error"])
		assert.Equal(t, false, got["success"])
		assert.Equal(t, "CONFIGURATION_ERROR", got["error_code"])
		assert.Equal(t, map[string]any{"missing": "GOOGLE_API_KEY"}, got["details"])
		assert.Contains(t, got, "timestamp")
	})

	t.Run("details omitted when empty", func(t *testing.T) {
		se := failure.New(failure.KindQuery, "", "chain failed", nil)

		raw, err := json.Marshal(failure.ToEnvelope(se))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.NotContains(t, got, "details")
	})
}

func TestToSuccessEnvelope(t *testing.T) {
	payload := map[string]any{"answer": "42", "sources": []string{"a.pdf_chunk_0"}, "error": "ignored"}

	env := failure.ToSuccessEnvelope(payload)
	assert.True(t, env.Success)
	assert.False(t, env.Error)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, false, got["error"])
	assert.Equal(t, "42", got["answer"])
	assert.NotContains(t, got, "error_code")
	assert.NotContains(t, got, "message")
	assert.NotContains(t, got, "details")
	assert.NotContains(t, got, "timestamp")
}

func TestEnvelope_RoundTrip(t *testing.T) {
	t.Run("valid code survives", func(t *testing.T) {
		se := failure.New(failure.KindDatabase, failure.CodeDBConnectionError, "refused", nil)

		raw, err := json.Marshal(failure.ToEnvelope(se))
		require.NoError(t, err)

		var env failure.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))

		kind, code := failure.FromEnvelope(env)
		assert.Equal(t, failure.KindDatabase, kind)
		assert.Equal(t, failure.CodeDBConnectionError, code)
	})

	t.Run("invalid code is deterministically replaced", func(t *testing.T) {
		se := failure.New(failure.KindModel, failure.CodeDBConnectionError, "bad code", nil)

		raw, err := json.Marshal(failure.ToEnvelope(se))
		require.NoError(t, err)

		var env failure.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))

		kind, code := failure.FromEnvelope(env)
		assert.Equal(t, failure.KindModel, kind)
		assert.Equal(t, failure.CodeLLMError, code)
	})

	t.Run("success envelope", func(t *testing.T) {
		raw, err := json.Marshal(failure.ToSuccessEnvelope(map[string]any{"count": 3}))
		require.NoError(t, err)

		var env failure.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.True(t, env.Success)
		assert.Equal(t, map[string]any{"count": float64(3)}, env.Payload)

		kind, code := failure.FromEnvelope(env)
		assert.Equal(t, failure.KindUnknown, kind)
		assert.Empty(t, code)
	})
}
