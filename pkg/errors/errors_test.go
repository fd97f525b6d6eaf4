package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeEmailInUse, CodeOf(EmailInUse()))
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("nope")))
	assert.Equal(t, CodeStore, CodeOf(stderrors.New("raw")))
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", AuthorizationFailed())
	assert.True(t, IsCode(err, CodeAuthorization))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Store(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Database Error", err.Message)
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("One of the fields is not correct", []FieldError{
		{Field: "email", Rule: "email", Message: "must be a valid email address"},
	})
	assert.Len(t, err.Fields, 1)
	assert.Equal(t, "email", err.Fields[0].Field)
}
