// Package settings holds the local unlock PIN and the display theme.
//
// The PIN gate is a convenience lock for a shared device, not a security
// boundary: whoever can read the store can delete the digest.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPIN = errors.New("settings: PIN must be 4 to 8 digits")
	ErrWrongPIN   = errors.New("settings: wrong PIN")
	ErrBadTheme   = errors.New("settings: theme must be light or dark")
)

// Theme is one of the two display themes.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadTheme, s)
}

// HashPIN returns the salted digest stored under app_pin.
func HashPIN(pin string) (string, error) {
	if err := validatePIN(pin); err != nil {
		return "", err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPIN checks pin against a digest produced by HashPIN.
func VerifyPIN(digest, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(pin)); err != nil {
		return ErrWrongPIN
	}
	return nil
}

func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return ErrInvalidPIN
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return ErrInvalidPIN
		}
	}
	return nil
}
