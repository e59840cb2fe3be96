package domain

import (
	"regexp"
	"sort"
	"strings"

	"logistics-console/internal/apperr"
)

// FieldErrors maps a form field to the message rendered next to it.
type FieldErrors map[string]string

// Error implements error.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match apperr.ErrInvalid.
func (fe FieldErrors) Unwrap() error { return apperr.ErrInvalid }

// Err returns nil when there are no field errors.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

var (
	reDigit      = regexp.MustCompile(`\d`)
	rePhoneChars = regexp.MustCompile(`^[0-9+\-\s()]*$`)
	reNonDigit   = regexp.MustCompile(`[^0-9]`)
)

const (
	minAddressLen  = 5
	minPhoneDigits = 7
	minPasswordLen = 6
)

// ValidateStreetAddress returns a message when the street part is unusable, "" otherwise.
func ValidateStreetAddress(addr string) string {
	if len([]rune(addr)) < minAddressLen {
		return "La dirección debe tener al menos 5 caracteres"
	}
	if !reDigit.MatchString(addr) {
		return "La dirección debe incluir un número"
	}
	return ""
}

// ValidatePhone returns a message when the phone number is unusable, "" otherwise.
func ValidatePhone(phone string) string {
	if !rePhoneChars.MatchString(phone) {
		return "El teléfono solo debe contener números y caracteres + - ( )"
	}
	if len(reNonDigit.ReplaceAllString(phone, "")) < minPhoneDigits {
		return "El teléfono debe tener al menos 7 dígitos"
	}
	return ""
}

// ValidateRegistration checks the register form.
func ValidateRegistration(username, password, confirm string) error {
	fe := FieldErrors{}
	if strings.TrimSpace(username) == "" {
		fe["username"] = "El nombre de usuario es requerido"
	}
	switch {
	case password == "":
		fe["password"] = "La contraseña es requerida"
	case len(password) < minPasswordLen:
		fe["password"] = "La contraseña debe tener al menos 6 caracteres"
	}
	if password != confirm {
		fe["confirmPassword"] = "Las contraseñas no coinciden"
	}
	return fe.Err()
}
