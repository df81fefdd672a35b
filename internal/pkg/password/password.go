// Package password hashes credentials and enforces the password strength rule.
package password

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinLength = 6
	MaxLength = 50
)

var (
	ErrLength = fmt.Errorf("the password must be between %d and %d characters", MinLength, MaxLength)
	ErrWeak   = errors.New("the password must have an uppercase letter, a lowercase letter and a number or symbol")
)

var strength = regexp2.MustCompile(`^(?:(?=.*\d)|(?=.*\W+))(?![.\n])(?=.*[A-Z])(?=.*[a-z]).*$`, regexp2.None)

func Validate(pw string) error {
	if n := len([]rune(pw)); n < MinLength || n > MaxLength {
		return ErrLength
	}

	ok, err := strength.MatchString(pw)
	if err != nil {
		return fmt.Errorf("strength.MatchString -> %w", err)
	}
	if !ok {
		return ErrWeak
	}

	return nil
}

func Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(b), nil
}

func Verify(pw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pw)) == nil
}
