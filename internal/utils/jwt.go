package utils // package utils provides the identity token helpers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim.  Hosts and guests are identified by
// their entity id; the administrator has no entity and uses id 0.
const (
	RoleAdmin = "admin"
	RoleHost  = "host"
	RoleGuest = "guest"
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short lived and sent in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    `json:"access_token"`
	Exp   time.Time `json:"expires_at"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID int
	Role   string
}

// NewAccessToken builds and signs an HS256 JWT.  The token carries the
// standard claims subject (sub, the decimal user id), expiration (exp)
// and issued at (iat), plus the role.
func NewAccessToken(secret string, userID int, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(userID),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and extracts the identity.
// Only HMAC-signed tokens are accepted; expiry is enforced by the jwt
// library.
func ParseAccessToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Identity{}, errors.New("invalid claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return Identity{}, fmt.Errorf("subject %q is not a user id", sub)
	}
	role, _ := claims["role"].(string)
	switch role {
	case RoleAdmin, RoleHost, RoleGuest:
	default:
		return Identity{}, fmt.Errorf("unknown role %q", role)
	}
	return Identity{UserID: id, Role: role}, nil
}
