package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names a class of domain failure. It is what clients see in the "name"
// field of an error payload.
type Kind string

const (
	KindValidation                 Kind = "ValidationError"
	KindRoomNotFound               Kind = "RoomNotFound"
	KindRoomAlreadyExists          Kind = "RoomAlreadyExists"
	KindRoomAlreadyFull            Kind = "RoomAlreadyFull"
	KindUserAlreadyInRoom          Kind = "UserAlreadyInRoom"
	KindUserNotInRoom              Kind = "UserNotInRoom"
	KindConnectionNotInSession     Kind = "ConnectionNotInSession"
	KindConnectionAlreadyInSession Kind = "ConnectionAlreadyInSession"
	KindUserNotPermitted           Kind = "UserNotPermitted"
	KindIllegalOperation           Kind = "IllegalOperation"
	KindGameAlreadyStarted         Kind = "GameAlreadyStarted"
	KindGameNotStarted             Kind = "GameNotStarted"
	KindSchedulerAlreadyRunning    Kind = "SchedulerAlreadyRunning"
	KindEmptyQueue                 Kind = "EmptyQueue"
	KindUnknownTool                Kind = "UnknownTool"
	KindWrongState                 Kind = "WrongState"
	KindUnknownShape               Kind = "UnknownShape"
	KindRateLimited                Kind = "RateLimited"
	KindInternal                   Kind = "InternalError"
)

// Error is a domain error. Two errors match under errors.Is when their kinds
// are equal, so the sentinels below can be used regardless of message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    Kind   `json:"name"`
		Message string `json:"message"`
	}{
		Name:    e.Kind,
		Message: e.Error(),
	})
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds a domain error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *Error
	return errors.As(err, &domainErr) && domainErr.Kind == kind
}

var (
	ErrValidation                 = &Error{Kind: KindValidation}
	ErrRoomNotFound               = &Error{Kind: KindRoomNotFound}
	ErrRoomAlreadyExists          = &Error{Kind: KindRoomAlreadyExists}
	ErrRoomAlreadyFull            = &Error{Kind: KindRoomAlreadyFull}
	ErrUserAlreadyInRoom          = &Error{Kind: KindUserAlreadyInRoom}
	ErrUserNotInRoom              = &Error{Kind: KindUserNotInRoom}
	ErrConnectionNotInSession     = &Error{Kind: KindConnectionNotInSession}
	ErrConnectionAlreadyInSession = &Error{Kind: KindConnectionAlreadyInSession}
	ErrUserNotPermitted           = &Error{Kind: KindUserNotPermitted}
	ErrIllegalOperation           = &Error{Kind: KindIllegalOperation}
	ErrGameAlreadyStarted         = &Error{Kind: KindGameAlreadyStarted}
	ErrGameNotStarted             = &Error{Kind: KindGameNotStarted}
	ErrSchedulerAlreadyRunning    = &Error{Kind: KindSchedulerAlreadyRunning}
	ErrEmptyQueue                 = &Error{Kind: KindEmptyQueue}
	ErrUnknownTool                = &Error{Kind: KindUnknownTool}
	ErrWrongState                 = &Error{Kind: KindWrongState}
	ErrUnknownShape               = &Error{Kind: KindUnknownShape}
	ErrRateLimited                = &Error{Kind: KindRateLimited}
	ErrInternal                   = &Error{Kind: KindInternal}
)
