package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Envelope is the wrapper every backend response uses
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Total   *int            `json:"total,omitempty"`
}

// Payload returns the raw payload stored under key
func (e *Envelope) Payload(key PayloadKey) json.RawMessage {
	switch key {
	case KeyResult:
		return e.Result
	default:
		return e.Data
	}
}

// Result is the typed outcome of one endpoint call. Success=false carries
// the backend's message and a zero Payload.
type Result[T any] struct {
	Success  bool
	Payload  T
	Message  string
	Total    int
	HasTotal bool
}

// Err returns a *RejectedError when the backend answered success=false
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &RejectedError{Message: r.Message}
}

// Invoke calls ep and decodes the payload under the endpoint's key into T
func Invoke[T any](ctx context.Context, c Caller, ep Endpoint, body any, args ...Arg) (Result[T], error) {
	env, err := c.Call(ctx, ep, body, args...)
	if err != nil {
		return Result[T]{}, err
	}

	res := Result[T]{Success: env.Success, Message: env.Message}
	if env.Total != nil {
		res.Total = *env.Total
		res.HasTotal = true
	}
	if !env.Success {
		return res, nil
	}

	raw := env.Payload(ep.Key)
	if len(raw) == 0 || string(raw) == "null" {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res.Payload); err != nil {
		return res, fmt.Errorf("failed to decode %s of %s: %w", ep.Key, ep.Name, err)
	}

	return res, nil
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code    int
	Message string
	Body    string
}

func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code, Body: strings.TrimSpace(string(body))}
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil {
		se.Message = env.Message
	}
	return se
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

// RejectedError is a 2xx response with success=false
type RejectedError struct {
	Message string
}

// Error implements the error interface
func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "request rejected by backend"
	}
	return e.Message
}

// UserMessage turns err into the text shown to an operator: the backend's
// message when it sent one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	var status *StatusError
	if errors.As(err, &status) && status.Message != "" {
		return status.Message
	}
	return fallback
}
