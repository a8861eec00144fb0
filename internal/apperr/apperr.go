// Package apperr defines the closed error taxonomy shared by the REST
// surface and the signaling endpoint, per spec §7.
package apperr

import "net/http"

// Kind is one of the closed set of error kinds in spec §7.
type Kind string

const (
	Validation   Kind = "validation"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	NotFound     Kind = "not-found"
	Conflict     Kind = "conflict"
	RoomFull     Kind = "room-full"
	NotInRoom    Kind = "not-in-room"
	RateLimited  Kind = "rate-limited"
	Internal     Kind = "internal"
)

// Stable code strings consumed by clients, per the §7 table.
const (
	CodeInvalidMessage  = "INVALID_MESSAGE"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTenantMismatch  = "TENANT_MISMATCH"
	CodeAlreadyInRoom   = "ALREADY_IN_ROOM"
	CodeRoomFull        = "ROOM_FULL"
	CodeNotInRoom       = "NOT_IN_ROOM"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// Error is the error type passed across component boundaries. It is
// never wrapped with additional context past the boundary that raised
// it; callers either act on Kind or surface Code+Message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with an explicit stable code.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// HTTPStatus maps a Kind to the REST status code in the §7 table.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case RateLimited:
		return http.StatusTooManyRequests
	case RoomFull, NotInRoom:
		// These kinds have no REST status in the §7 table (they arise
		// only on the signaling plane); 400 is the closest REST analogue
		// if one ever surfaces there.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fatal reports whether this Kind is unconditionally fatal on the
// signaling plane, regardless of connection state: a credential or
// capacity problem (INVALID_TOKEN, TOKEN_EXPIRED, TENANT_MISMATCH,
// ROOM_FULL) always closes the transport after the error frame.
//
// Validation (INVALID_MESSAGE) is deliberately excluded here: §7 lists
// it as fatal in its propagation-policy sentence but then gives "a
// malformed single frame on an admitted connection" as its example of
// a *non*-fatal error. The signaling endpoint resolves this the way
// §4.D's state machine implies: a malformed `join` in Opened has no
// admitted session to fall back to, so it closes; a malformed relay
// frame once Admitted does not. See internal/signaling for the
// state-dependent check.
func (k Kind) Fatal() bool {
	switch k {
	case Unauthorized, RoomFull, Forbidden:
		return true
	default:
		return false
	}
}

// As extracts an *Error from err, or synthesizes an internal one.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(Internal, CodeInternal, err.Error())
}
