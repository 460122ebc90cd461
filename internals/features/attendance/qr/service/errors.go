package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind is the stable machine-readable error code sent as "error_code".
type ErrorKind string

const (
	KindRequestFormat    ErrorKind = "REQUEST_FORMAT"
	KindMalformedToken   ErrorKind = "MALFORMED_TOKEN"
	KindExpiredToken     ErrorKind = "EXPIRED_TOKEN"
	KindLocationRejected ErrorKind = "LOCATION_REJECTED"
	KindUnknownToken     ErrorKind = "UNKNOWN_TOKEN"
	KindDuplicateClaim   ErrorKind = "DUPLICATE_CLAIM"
	KindInternal         ErrorKind = "INTERNAL_ERROR"
)

// AttendanceError carries the kind, the HTTP status and the user-facing message.
// Messages are shown to users as-is and must stay stable.
type AttendanceError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AttendanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AttendanceError) Unwrap() error { return e.Err }

// Is matches on kind so wrapped copies still satisfy errors.Is against the sentinels.
func (e *AttendanceError) Is(target error) bool {
	var t *AttendanceError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrRequestFormat    = &AttendanceError{Kind: KindRequestFormat, Status: fiber.StatusBadRequest, Message: "Invalid request format"}
	ErrMalformedToken   = &AttendanceError{Kind: KindMalformedToken, Status: fiber.StatusBadRequest, Message: "Invalid QR code format"}
	ErrExpiredToken     = &AttendanceError{Kind: KindExpiredToken, Status: fiber.StatusBadRequest, Message: "QR code has expired"}
	ErrLocationRejected = &AttendanceError{Kind: KindLocationRejected, Status: fiber.StatusBadRequest, Message: "You must be in the classroom to mark attendance"}
	ErrUnknownToken     = &AttendanceError{Kind: KindUnknownToken, Status: fiber.StatusBadRequest, Message: "QR code is not recognized"}
	ErrDuplicateClaim   = &AttendanceError{Kind: KindDuplicateClaim, Status: fiber.StatusConflict, Message: "Attendance already marked for this session"}
)

// withCause returns a copy of sentinel that remembers why it fired.
func withCause(sentinel *AttendanceError, cause error) *AttendanceError {
	cp := *sentinel
	cp.Err = cause
	return &cp
}

func internalError(message string, cause error) *AttendanceError {
	return &AttendanceError{Kind: KindInternal, Status: fiber.StatusInternalServerError, Message: message, Err: cause}
}

// AsAttendanceError unwraps err into an *AttendanceError; anything else becomes an internal error.
func AsAttendanceError(err error, fallback string) *AttendanceError {
	var ae *AttendanceError
	if errors.As(err, &ae) {
		return ae
	}
	return internalError(fallback, err)
}
