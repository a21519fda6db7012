package idgen

import (
	"errors"
	"fmt"
)

// UnknownCause is reported as TransportFailure.CauseName when the failure
// wraps no underlying error.
const UnknownCause = "unknown"

// Sentinels for errors.Is matching against a ClientError.
var (
	ErrServiceRejected  = errors.New("idgen: service rejected request")
	ErrTransportFailure = errors.New("idgen: transport failure")

	// ErrNegativeCount is returned before any I/O when count < 0.
	ErrNegativeCount = errors.New("idgen: count must be >= 0")
)

// ClientError is the outcome of a failed RequestIDs call. It is always one of
// *ServiceRejected or *TransportFailure.
//
//	var rejected *idgen.ServiceRejected
//	var failure *idgen.TransportFailure
//	switch {
//	case errors.As(err, &rejected):
//	    log.Printf("rejected: %s", rejected.Body)
//	case errors.As(err, &failure):
//	    log.Printf("%s: %s", failure.CauseName, failure.Message)
//	}
type ClientError interface {
	error
	clientError()
}

// ServiceRejected means the service answered with a 4xx status.
// Body is the raw response body.
type ServiceRejected struct {
	StatusCode int
	Body       string
}

func (e *ServiceRejected) Error() string {
	return fmt.Sprintf("idgen: service rejected request (status %d): %s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrServiceRejected.
func (e *ServiceRejected) Is(target error) bool { return target == ErrServiceRejected }

func (*ServiceRejected) clientError() {}

// TransportFailure covers everything that is not a 4xx answer: connection
// errors, timeouts, undecodable bodies, 5xx statuses.
type TransportFailure struct {
	CauseName string // type name of the wrapped cause, or UnknownCause
	Message   string
	Err       error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("idgen: transport failure (%s): %s", e.CauseName, e.Message)
}

// Is reports whether target is ErrTransportFailure.
func (e *TransportFailure) Is(target error) bool { return target == ErrTransportFailure }

func (e *TransportFailure) Unwrap() error { return e.Err }

func (*TransportFailure) clientError() {}

// StatusError is returned by HTTPSender for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// Classify maps any error from a Sender into a ClientError. 4xx status errors
// become *ServiceRejected; every other error becomes *TransportFailure.
func Classify(err error) ClientError {
	if err == nil {
		return nil
	}
	var ce ClientError
	if errors.As(err, &ce) {
		return ce
	}
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode <= 499 {
		return &ServiceRejected{StatusCode: se.StatusCode, Body: se.Body}
	}
	return &TransportFailure{CauseName: causeName(err), Message: err.Error(), Err: err}
}

func causeName(err error) string {
	cause := errors.Unwrap(err)
	if cause == nil {
		return UnknownCause
	}
	return fmt.Sprintf("%T", cause)
}
