package failure

import (
	"encoding/json"
	"time"
)

// Envelope is the wire-level response shape for a single operation outcome.
// Error and Success are always complementary.
type Envelope struct {
	Error     bool
	Success   bool
	ErrorCode Code
	Message   string
	Details   Details
	Timestamp string
	// Payload is merged into the top level of a success envelope.
	Payload map[string]any
}

type errorEnvelopeDTO struct {
	Error     bool    `json:"error"`
	ErrorCode Code    `json:"error_code"`
	Message   string  `json:"message"`
	Details   Details `json:"details,omitempty"`
	Timestamp string  `json:"timestamp"`
	Success   bool    `json:"success"`
}

// ToEnvelope converts a classified error into a failure envelope.
func ToEnvelope(err *Error) Envelope {
	return Envelope{
		Error:     true,
		Success:   false,
		ErrorCode: err.code,
		Message:   err.message,
		Details:   err.details.clone(),
		Timestamp: err.occurredAt.Format(time.RFC3339Nano),
	}
}

// ToSuccessEnvelope wraps a payload whose fields are emitted at the top
// level of the response. The payload is copied, not inspected.
func ToSuccessEnvelope(payload map[string]any) Envelope {
	var copied map[string]any
	if len(payload) > 0 {
		copied = make(map[string]any, len(payload))
		for k, v := range payload {
			copied[k] = v
		}
	}
	return Envelope{
		Error:   false,
		Success: true,
		Payload: copied,
	}
}

// FromEnvelope recovers the classification carried by a failure envelope.
// Success envelopes resolve to KindUnknown and an empty code.
func FromEnvelope(env Envelope) (Kind, Code) {
	if !env.Error {
		return KindUnknown, ""
	}
	return KindOf(env.ErrorCode), env.ErrorCode
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Error {
		return json.Marshal(errorEnvelopeDTO{
			Error:     true,
			ErrorCode: e.ErrorCode,
			Message:   e.Message,
			Details:   e.Details,
			Timestamp: e.Timestamp,
			Success:   false,
		})
	}

	out := make(map[string]any, len(e.Payload)+2)
	for k, v := range e.Payload {
		out[k] = v
	}
	// reserved keys cannot be shadowed by the payload
	out["success"] = true
	out["error"] = false
	return json.Marshal(out)
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var isError bool
	if v, ok := raw["error"]; ok {
		if err := json.Unmarshal(v, &isError); err != nil {
			return err
		}
	}

	if isError {
		var dto errorEnvelopeDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}
		*e = Envelope{
			Error:     true,
			Success:   false,
			ErrorCode: dto.ErrorCode,
			Message:   dto.Message,
			Details:   dto.Details,
			Timestamp: dto.Timestamp,
		}
		return nil
	}

	payload := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "error" || k == "success" {
			continue
		}
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return err
		}
		payload[k] = value
	}
	if len(payload) == 0 {
		payload = nil
	}
	*e = Envelope{Error: false, Success: true, Payload: payload}
	return nil
}
