package loans

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyBorrowed Code = "ALREADY_BORROWED"
	CodeBookUnavailable Code = "BOOK_UNAVAILABLE"
	CodeAlreadyReturned Code = "ALREADY_RETURNED"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
	// Borrower names who currently holds the book. Only set for
	// BOOK_UNAVAILABLE so the caller can render "rented by X".
	Borrower string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func ErrAlreadyBorrowed() *APIError {
	return &APIError{Code: CodeAlreadyBorrowed, Message: "borrower already holds this book"}
}

func ErrBookUnavailable(borrowerID string) *APIError {
	return &APIError{
		Code:     CodeBookUnavailable,
		Message:  fmt.Sprintf("book is currently rented by %s", borrowerID),
		Borrower: borrowerID,
	}
}

func ErrAlreadyReturned() *APIError {
	return &APIError{Code: CodeAlreadyReturned, Message: "loan is already returned"}
}

// ToHTTPStatus maps the error taxonomy onto HTTP. Business-rule rejections
// are conflicts; they are never retried here, surfacing them is the
// caller's job.
func ToHTTPStatus(err error) int {
	var api *APIError
	if !errors.As(err, &api) {
		return http.StatusInternalServerError
	}
	switch api.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyBorrowed, CodeBookUnavailable, CodeAlreadyReturned:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
