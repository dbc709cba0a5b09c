package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks admin credentials at the system boundary.
type Verifier interface {
	Verify(ctx context.Context, email, password string) error
}

// BcryptVerifier accepts a single admin account configured by email and
// bcrypt hash.
type BcryptVerifier struct {
	email string
	hash  []byte
}

func NewBcryptVerifier(email, passwordHash string) *BcryptVerifier {
	return &BcryptVerifier{
		email: strings.ToLower(strings.TrimSpace(email)),
		hash:  []byte(passwordHash),
	}
}

func (v *BcryptVerifier) Verify(_ context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(v.email)) == 1
	// bcrypt runs for unknown emails too
	pwErr := bcrypt.CompareHashAndPassword(v.hash, []byte(password))

	if !emailOK || pwErr != nil || v.email == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns the bcrypt hash to configure as ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
