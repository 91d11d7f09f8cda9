package gateway

import (
	"encoding/json"
	"fmt"
)

// envelope is the outer JSON wrapper the fulfillment API puts on every
// response: {"success": bool, "data": ..., "message": ..., "code": ...}.
// It is decoded exactly once, here; nothing downstream re-checks the flag.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// decodeEnvelope unwraps a 2xx response body. A success envelope has its
// data decoded into out (which may be nil when no payload is expected); a
// failure envelope becomes a request_failed error carrying the server's
// message and code, retryable only if the server declares the code transient.
func decodeEnvelope(body []byte, status int, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &Error{
			Kind:       KindRequestFailed,
			Message:    "malformed response envelope",
			HTTPStatus: status,
			Retryable:  false,
			Cause:      err,
		}
	}

	if !env.Success {
		message := env.Message
		if message == "" {
			message = "request rejected by server"
		}
		return &Error{
			Kind:       KindRequestFailed,
			Message:    message,
			HTTPStatus: status,
			Retryable:  retryableServerCodes[env.Code],
			Code:       env.Code,
		}
	}

	if out == nil {
		return nil
	}

	if len(env.Data) == 0 {
		return &Error{
			Kind:       KindRequestFailed,
			Message:    "success envelope is missing its data payload",
			HTTPStatus: status,
			Retryable:  false,
		}
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{
			Kind:       KindRequestFailed,
			Message:    fmt.Sprintf("failed to decode %T payload", out),
			HTTPStatus: status,
			Retryable:  false,
			Cause:      err,
		}
	}

	return nil
}
