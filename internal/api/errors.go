package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrAuthRequired indicates the backend returned 401 for a request.
// Callers drop to the login flow; the request is never retried.
var ErrAuthRequired = errors.New("api: authentication required")

// RequestError is a non-2xx backend response with a user-facing message.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return e.Detail
}

// errorBody is the FastAPI error envelope. Detail may be a string,
// an array of validation errors, or an arbitrary object.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// validationError is one entry of a FastAPI 422 detail array.
type validationError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// normalizeDetail flattens the backend's detail payload into a single
// human-readable string suitable for a toast.
func normalizeDetail(raw json.RawMessage, statusCode int) string {
	fallback := fmt.Sprintf("Request failed with status %d", statusCode)
	if len(raw) == 0 {
		return fallback
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}

	var vs []validationError
	if err := json.Unmarshal(raw, &vs); err == nil && len(vs) > 0 {
		msgs := make([]string, 0, len(vs))
		for _, v := range vs {
			if v.Msg == "" {
				continue
			}
			if loc := locSuffix(v.Loc); loc != "" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", loc, v.Msg))
			} else {
				msgs = append(msgs, v.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if msg, ok := obj["msg"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
		return fallback
	}

	return fallback
}

// locSuffix returns the last location segment of a validation error,
// skipping the leading "body" element FastAPI prepends.
func locSuffix(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" {
			return s
		}
	}
	return ""
}
