package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")

// Authenticator checks the dashboard login against the single configured administrator.
type Authenticator struct {
	email      string
	hash       string
	hasher     PasswordHasher
	jwtManager *JWTManager
}

func NewAuthenticator(email, passwordHash string, hasher PasswordHasher, jwtManager *JWTManager) *Authenticator {
	return &Authenticator{
		email:      strings.ToLower(strings.TrimSpace(email)),
		hash:       passwordHash,
		hasher:     hasher,
		jwtManager: jwtManager,
	}
}

// Login returns a signed access token when email and password match.
// The password hash is always compared so a wrong email costs the same as a wrong password.
func (a *Authenticator) Login(email, password string) (string, error) {
	given := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(a.email)) == 1
	passwordOK := a.hasher.Compare(a.hash, password) == nil

	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	return a.jwtManager.GenerateAccessToken(a.email)
}
