package loans

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{ErrInvalid("bad"), http.StatusBadRequest},
		{ErrNotFound("missing"), http.StatusNotFound},
		{ErrAlreadyBorrowed(), http.StatusConflict},
		{ErrBookUnavailable("alice"), http.StatusConflict},
		{ErrAlreadyReturned(), http.StatusConflict},
		{ErrInternal("boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range testCases {
		assert.Equal(t, tt.expected, ToHTTPStatus(tt.err))
	}
}

func TestBookUnavailableCarriesBorrower(t *testing.T) {
	err := ErrBookUnavailable("alice")
	assert.Equal(t, "alice", err.Borrower)
	assert.Equal(t, "BOOK_UNAVAILABLE: book is currently rented by alice", err.Error())
}
