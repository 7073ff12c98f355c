package validator

import (
	"net/mail"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func ValidateSignup(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(errs, email)

	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(errs, email)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateProfile(firstName, lastName string, color int) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(firstName) == "" {
		errs.Add("first_name", "First name is required")
	}
	if strings.TrimSpace(lastName) == "" {
		errs.Add("last_name", "Last name is required")
	}
	if color < 0 {
		errs.Add("color", "Color must be a non-negative index")
	}

	return errs
}

func ValidateChannel(name string, memberCount int) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Channel name is required")
	} else if len(name) > 64 {
		errs.Add("name", "Channel name must be at most 64 characters")
	}

	if memberCount == 0 {
		errs.Add("members", "At least one member is required")
	}

	return errs
}

func validateEmail(errs ValidationErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Email is not valid")
	}
}
