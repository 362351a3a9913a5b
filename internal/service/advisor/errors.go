package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

// Kind categorizes advisory failures. The set is closed: every failed call
// maps to exactly one of these.
type Kind string

const (
	KindConfig       Kind = "CONFIG_ERROR"
	KindConnection   Kind = "API_CONN_ERROR"
	KindRateLimit    Kind = "API_LIMIT_EXCEEDED"
	KindInvalidModel Kind = "INVALID_MODEL"
	KindAPIStatus    Kind = "API_ERROR"
	KindProvider     Kind = "PROVIDER_ERROR"
	KindInternal     Kind = "INTERNAL_ERR"
)

// User-facing failure texts. Deliberately generic: status payloads, model
// names and exception detail stay in the log.
const (
	msgConfig       = "AI service is not available due to a configuration error. Please contact support."
	msgConnection   = "Could not retrieve AI-powered advice at this moment due to a network issue reaching the provider."
	msgRateLimit    = "AI service is temporarily unavailable due to high demand (rate limit). Please try again later."
	msgInvalidModel = "Could not retrieve AI-powered advice at this moment due to an internal issue."
	msgAPIStatus    = "Could not retrieve AI-powered advice at this moment due to an API error."
	msgProvider     = "Could not retrieve AI-powered advice at this moment due to a provider error."
	msgInternal     = "An unexpected error occurred while trying to get AI-powered tax advice."
)

// Error is a classified advisory failure. Message is safe to show the caller;
// the wrapped cause is not.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the failure kind, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var advErr *Error
	if errors.As(err, &advErr) {
		return advErr.Kind
	}
	return KindInternal
}

// classify maps a provider-call error onto the closed taxonomy.
func classify(err error) *Error {
	var apiErr *arkmodel.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *arkmodel.RequestError
	if errors.As(err, &reqErr) {
		if k := classifyStatus(reqErr.HTTPStatusCode, err); k.Kind != KindAPIStatus {
			return k
		}
		return newError(KindProvider, msgProvider, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newError(KindConnection, msgConnection, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return newError(KindConnection, msgConnection, err)
	}

	return newError(KindProvider, msgProvider, err)
}

func classifyStatus(status int, cause error) *Error {
	switch status {
	case http.StatusTooManyRequests:
		return newError(KindRateLimit, msgRateLimit, cause)
	case http.StatusNotFound:
		return newError(KindInvalidModel, msgInvalidModel, cause)
	default:
		return newError(KindAPIStatus, msgAPIStatus, cause)
	}
}
