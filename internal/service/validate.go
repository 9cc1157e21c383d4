package service

import (
	"net/mail"
	"strings"

	"shareit/internal/domain"
)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalidf("%s must not be blank", field)
	}
	return nil
}

// requireTextPatch checks an optional field: absent is fine, blank is not.
func requireTextPatch(field string, value *string) error {
	if value == nil {
		return nil
	}
	return requireText(field, *value)
}

// validateEmail accepts a bare address only; display-name forms such as
// "Ann <ann@example.com>" are rejected.
func validateEmail(email string) error {
	if err := requireText("email", email); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Invalidf("email %q is not a valid address", email)
	}
	return nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return domain.Invalidf("%s is required", field)
	}
	return nil
}
