package feed

import (
	"errors"
	"fmt"
)

// Failure kinds, matched with errors.Is. Every error leaving this package
// carries exactly one of them in its chain alongside the original cause.
var (
	ErrConfiguration     = errors.New("configuration missing")
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrRemoteAPI         = errors.New("provider error")
	ErrUnknownFeed       = errors.New("unknown feed")
	ErrPersistence       = errors.New("persistence failure")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// kindError ties a failure kind to its cause so callers can classify with
// errors.Is while still seeing the underlying error.
type kindError struct {
	kind error
	err  error
	msg  string
}

func (e *kindError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.err != nil {
		return []error{e.kind, e.err}
	}
	return []error{e.kind}
}

// wrapKind builds a classified error. err may be nil when there is no
// underlying cause.
func wrapKind(kind error, err error, format string, args ...any) error {
	return &kindError{kind: kind, err: err, msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an ErrInvalidArgument error. Exported for callers
// that validate request input before it reaches the store.
func InvalidArgumentf(format string, args ...any) error {
	return wrapKind(ErrInvalidArgument, nil, format, args...)
}

// RemoteAPIError is a business-level failure reported inside an otherwise
// well-formed provider response.
type RemoteAPIError struct {
	Code    string
	Message string
}

func (e *RemoteAPIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("feed: provider returned result code %q", e.Code)
	}
	return fmt.Sprintf("feed: provider returned result code %q: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrRemoteAPI) match without losing the code and
// message carried by the concrete type.
func (e *RemoteAPIError) Is(target error) bool {
	return target == ErrRemoteAPI
}
