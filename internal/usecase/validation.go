package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: malformed email %q", domain.ErrInvalidInput, email)
	}
	return nil
}

// bcrypt ignores input past 72 bytes.
func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, MaxPasswordLength)
	}
	return nil
}
