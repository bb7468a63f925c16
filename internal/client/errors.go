package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a generation failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConfiguration
	KindTransport
	KindModelLoading
	KindInvalidCredential
	KindForbidden
	KindModelUnavailable
	KindRateLimited
	KindBadRequest
	KindGenerationFailed
	KindConversion
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindModelLoading:
		return "model_loading"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindForbidden:
		return "forbidden"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindBadRequest:
		return "bad_request"
	case KindGenerationFailed:
		return "generation_failed"
	case KindConversion:
		return "conversion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client operation. Message is meant to be shown
// to the user as is.
type Error struct {
	Kind    Kind
	Status  int    // proxy status code, 0 when no response was received
	Detail  string // detail text supplied by the proxy, if any
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindTransport {
		return e.Message + " Error: " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the user may reasonably try the same request
// again. Nothing is retried automatically.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindModelLoading, KindRateLimited, KindTransport:
		return true
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// NewValidationError reports a rejected prompt.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// classifyStatus maps a non-2xx proxy status to an Error.
func classifyStatus(status int, detail string) *Error {
	e := &Error{Status: status, Detail: detail}
	switch status {
	case http.StatusServiceUnavailable:
		e.Kind = KindModelLoading
		e.Message = "Model is loading. Please wait 20-30 seconds and retry. (This is normal for the first request!)"
	case http.StatusUnauthorized:
		e.Kind = KindInvalidCredential
		e.Message = "Invalid API token. Please check the credential configured in HUGGINGFACE_API_TOKEN."
	case http.StatusForbidden:
		e.Kind = KindForbidden
		e.Message = "Access forbidden. Your API token may not have the required permissions. Make sure the token was created with \"Read\" permission."
	case http.StatusNotFound:
		e.Kind = KindModelUnavailable
		e.Message = "Model not found. The model may be temporarily unavailable. Please try again in a few moments."
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.Message = "Rate limit exceeded. Please wait a few minutes and try again."
	case http.StatusBadRequest:
		e.Kind = KindBadRequest
		e.Message = "Bad request: " + detail
	default:
		e.Kind = KindGenerationFailed
		e.Message = fmt.Sprintf("Failed to generate image (%d): %s", status, detail)
	}
	return e
}
