package domain

import (
	"errors"
	"fmt"
)

// ErrAllProvidersFailed is wrapped by UpstreamError when no provider answered.
var ErrAllProvidersFailed = errors.New("all providers failed")

// ValidationError rejects a request before it reaches the cache or database.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// UpstreamError reports a failed provider query.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e UpstreamError) Error() string {
	switch {
	case e.Provider != "" && e.Err != nil:
		return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Provider != "":
		return fmt.Sprintf("provider %s failed", e.Provider)
	default:
		return "upstream error"
	}
}

func (e UpstreamError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}
