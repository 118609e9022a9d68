package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"strongpassword"`
	Confirm  string `json:"confirm" validate:"required,eqfield=Password"`
}

func TestValidateStruct_OK(t *testing.T) {
	fields, err := ValidateStruct(form{Email: "a@b.com", Password: "Abcdef1!", Confirm: "Abcdef1!"})
	assert.NoError(t, err)
	assert.Nil(t, fields)
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	fields, err := ValidateStruct(form{Email: "nope", Password: "abcdefg1!", Confirm: "x"})
	require.Error(t, err)

	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "Uppercase letter required", fields["password"])
	assert.Equal(t, "Passwords don't match", fields["confirm"])
}

func TestValidateStruct_EmptyPasswordIsRequired(t *testing.T) {
	fields, err := ValidateStruct(form{Email: "a@b.com", Confirm: "x"})
	require.Error(t, err)
	assert.Equal(t, "New password is required", fields["password"])
}

func TestNew_Singleton(t *testing.T) {
	assert.Same(t, New(), New())
}
