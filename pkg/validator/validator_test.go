package validator_test

import (
	"testing"

	"github.com/dkovac/chatline/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateSignup(t *testing.T) {
	assert.False(t, validator.ValidateSignup("ana@example.com", "password123").HasErrors())

	errs := validator.ValidateSignup("not-an-email", "short")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	errs = validator.ValidateSignup("", "password123")
	assert.Contains(t, errs, "email")
}

func TestValidateProfile(t *testing.T) {
	assert.False(t, validator.ValidateProfile("Ana", "Horvat", 0).HasErrors())

	errs := validator.ValidateProfile("  ", "", -1)
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "last_name")
	assert.Contains(t, errs, "color")
}

func TestValidateChannel(t *testing.T) {
	assert.False(t, validator.ValidateChannel("general", 2).HasErrors())

	errs := validator.ValidateChannel("", 0)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "members")
}
