package controller

import (
	"errors"
	"fmt"
)

var ErrUnexpectedResponse = errors.New("unexpected controller response")

// APIError is a non-success answer from the controller.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("controller: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("controller: %d: %s", e.Status, e.Message)
}

// UserMessage is the controller's own message, shown to the agent as is.
func (e *APIError) UserMessage() string { return e.Message }
