// Package registry talks to the external complaint registry that issues
// citizen ids and ticket ids.
package registry

import (
	"context"
	"errors"
)

// ErrNotConfigured is reported when no registry client is wired in.
var ErrNotConfigured = errors.New("registry client not configured")

// Result carries either the value returned by the registry or the reason the
// call failed. Callers decide whether a failure matters.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps a successful call.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps a failed call.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("registry call failed")
	}
	return Result[T]{Err: err}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Reason returns the failure text, or "" on success.
func (r Result[T]) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// ComplaintPayload is what the registry needs to open a ticket.
type ComplaintPayload struct {
	MobileNumber string
	CategoryID   int
	Latitude     float64
	Longitude    float64
	Address      string
	Landmark     string
	ImageURL     string
	Description  string
}

// Client is the registry contract.
type Client interface {
	RegisterUser(ctx context.Context, fullName, mobileNumber string) Result[int64]
	PostComplaint(ctx context.Context, payload ComplaintPayload) Result[string]
}
