package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure for the handler boundary. Every error that
// reaches a handler carries one of these so the response body and the
// audit record can be derived without inspecting error strings.
type Code int

const (
	CodeValidation Code = iota + 1
	CodeMissingToken
	CodeInvalidToken
	CodeAuthorization
	CodeNotOwner
	CodeNotFound
	CodeAlreadyConsumed
	CodeAlreadyDeleted
	CodeEmailInUse
	CodeExamBlocked
	CodeInvalidCredentials
	CodeConflict
	CodeStore
)

// FieldError is one entry of a structured validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func MissingToken() *Error {
	return &Error{Code: CodeMissingToken, Message: "Please authenticate using a valid token"}
}

func InvalidToken(err error) *Error {
	return &Error{Code: CodeInvalidToken, Message: "Please authenticate using a valid token", Err: err}
}

func AuthorizationFailed() *Error {
	return &Error{Code: CodeAuthorization, Message: "Authorization Failed"}
}

func NotOwner(message string) *Error {
	return &Error{Code: CodeNotOwner, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func AlreadyConsumed(message string) *Error {
	return &Error{Code: CodeAlreadyConsumed, Message: message}
}

func AlreadyDeleted(message string) *Error {
	return &Error{Code: CodeAlreadyDeleted, Message: message}
}

func EmailInUse() *Error {
	return &Error{Code: CodeEmailInUse, Message: "The Email you provided is already in use"}
}

func ExamBlocked(message string) *Error {
	return &Error{Code: CodeExamBlocked, Message: message}
}

func InvalidCredentials(message string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Store(err error) *Error {
	return &Error{Code: CodeStore, Message: "Database Error", Err: err}
}

// CodeOf returns the classification of err, or CodeStore when err is not
// an *Error. Unclassified errors are treated as backing-store failures.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
