package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/juju/errors"
)

// Resolver turns a bearer token into a Session.
type Resolver interface {
	Resolve(token string) (Session, error)
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 access tokens signed by the identity provider.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Resolve(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Anonymous, errors.Unauthorizedf("missing token")
	}
	if len(v.secret) == 0 {
		return Anonymous, errors.Unauthorizedf("token verification not configured")
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Anonymous, errors.NewUnauthorized(err, "invalid or expired token")
	}
	if !parsed.Valid {
		return Anonymous, errors.Unauthorizedf("invalid token")
	}
	if claims.Subject == "" {
		return Anonymous, errors.Unauthorizedf("token has no subject")
	}
	return Session{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// Static resolves every token to the same session. Tests use it in place of
// the provider.
type Static Session

func (s Static) Resolve(string) (Session, error) {
	if Session(s).SignedIn() {
		return Session(s), nil
	}
	return Anonymous, errors.Unauthorizedf("anonymous")
}
