package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/errs"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// DefaultTTL is how long an issued credential stays valid. There is no
	// server-side revocation, so a stolen credential lives until expiry.
	DefaultTTL = 7 * 24 * time.Hour
)

// Identity is the verified content of a credential: who is making the
// request and with what role. It is embedded in the token itself, so
// verification never touches the database.
type Identity struct {
	ID   int
	Name string
	Role string
}

// claims is the wire shape of a credential's payload.
type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Authority issues and verifies signed session credentials. It holds no
// per-session state; verification is a pure function of (token, secret, clock).
type Authority struct {
	secret []byte
	now    func() time.Time
}

// NewAuthority returns an Authority signing with the given process-wide secret.
func NewAuthority(secret string) *Authority {
	return &Authority{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a new credential for the given identity, valid for ttl.
// The caller must have authenticated the identity first.
func (a *Authority) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(identity.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: identity.Name,
		Role:     identity.Role,
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Identify checks a token's signature and expiry and returns the identity
// it carries, without requiring any particular role.
func (a *Authority) Identify(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "Authentication required.")
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		// Garbled, tampered and expired tokens are all the same to the
		// client: it has no valid credential.
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "The session credential is invalid or has expired.")
	}
	id, err := strconv.Atoi(parsed.Subject)
	if err != nil || id <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "The session credential is invalid or has expired.")
	}
	if parsed.Role != RoleUser && parsed.Role != RoleAdmin {
		return nil, errs.Errorf(errs.EUNAUTHENTICATED, "The session credential is invalid or has expired.")
	}
	return &Identity{
		ID:   id,
		Name: parsed.Username,
		Role: parsed.Role,
	}, nil
}

// Verify checks a token like Identify and additionally requires its embedded
// role to equal requiredRole exactly. A valid credential with any other role
// fails with EFORBIDDEN, an invalid one with EUNAUTHENTICATED.
func (a *Authority) Verify(token string, requiredRole string) (*Identity, error) {
	identity, err := a.Identify(token)
	if err != nil {
		return nil, err
	}
	if identity.Role != requiredRole {
		return nil, errs.Errorf(errs.EFORBIDDEN, "This action requires the %s role.", requiredRole)
	}
	return identity, nil
}
