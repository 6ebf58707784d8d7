package auth

import (
	"errors"
	"fmt"

	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential verification failures. All of them collapse to the same
// "invalid credentials" response at the HTTP boundary so a caller cannot
// probe which accounts exist.
var (
	ErrUserNotFound     = errors.New("no account for that email")
	ErrNoPassword       = errors.New("account has no password set")
	ErrPasswordMismatch = errors.New("password mismatch")
)

// Verifier checks email/password pairs against stored bcrypt hashes. It is
// the only component that ever reads the password column.
type Verifier struct {
	users repositories.UserRepository
}

// NewVerifier creates a new Verifier instance.
func NewVerifier(users repositories.UserRepository) *Verifier {
	return &Verifier{users: users}
}

// Verify looks up the unique user by email and compares the password
// against the stored hash. On success it returns the session identity; the
// hash itself never leaves this package. An account without a stored hash
// (external identity provider only) fails with ErrNoPassword.
func (v *Verifier) Verify(email, password string) (policy.Identity, error) {
	user, err := v.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Identity{}, ErrUserNotFound
		}
		return policy.Identity{}, fmt.Errorf("looking up account: %w", err)
	}

	if user.Password == "" {
		return policy.Identity{}, ErrNoPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return policy.Identity{}, ErrPasswordMismatch
	}

	return policy.Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}
