package notion

import (
	"errors"
	"fmt"
)

// ErrInvalidCredential is returned when a client cannot be built from the
// configured API key.
var ErrInvalidCredential = errors.New("invalid Notion API key")

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("notion API error: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// RequestError ties a failed remote call to the operation and identifier
// it was made for, so an interrupted import can be resumed with --skip.
type RequestError struct {
	Op  string
	ID  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
