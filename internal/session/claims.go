package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the displayable subset of the portal JWT. The client never
// verifies signatures (it has no key); these are for whoami output and the
// pre-flight expiry warning only. The backend remains the authority.
type Claims struct {
	Subject   string
	Username  string
	Role      string // affiliate | master | admin
	ExpiresAt time.Time
}

type portalClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Peek decodes a token without verification.
func Peek(token string) (Claims, error) {
	var pc portalClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &pc); err != nil {
		return Claims{}, fmt.Errorf("failed to decode token: %w", err)
	}

	c := Claims{
		Subject:  pc.Subject,
		Username: pc.Username,
		Role:     pc.Role,
	}
	if pc.ExpiresAt != nil {
		c.ExpiresAt = pc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the token carries an expiry in the past.
func (c Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}
