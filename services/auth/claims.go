package authsvc

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

const audience = "Ace Brainiac"

var SigningMethod = jwt.SigningMethodHS256

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	IsAdmin  bool     `json:"is_admin,omitempty"` // -> ADMIN CONSOLE
	Roles    []string `json:"roles,omitempty"`
}

// NewClaims returns the claims of `id`, valid for `ttl` from `now`.
func NewClaims(id core.Identity, isAdmin bool, issuer string, ttl time.Duration, now time.Time, roles ...string) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   id.ID,
			Audience:  audience,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: id.Username,
		Email:    id.Email,
		IsAdmin:  isAdmin,
		Roles:    roles,
	}
}

func (c Claims) Identity() core.Identity {
	return core.Identity{ID: c.Subject, Username: c.Username, Email: c.Email}
}

// HasAnyRole reports whether the claims carry one of `roles`. No roles means any.
func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		for _, r := range c.Roles {
			if r == role {
				return true
			}
		}
	}
	return false
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(SigningMethod, claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// IdentityFromToken reads the admin identity out of a bearer token without verifying its signature.
func IdentityFromToken(token string) (core.Identity, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return core.Identity{}, errors.Wrap(err, "parsing token")
	}
	return claims.Identity(), nil
}
