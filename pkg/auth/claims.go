package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenClaims is the payload of an embedded-app session token.
type SessionTokenClaims struct {
	// Dest is the shop's admin origin, e.g. https://demo.myshopify.com.
	Dest      string `json:"dest"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Shop returns the canonical shop URL the token was issued for.
func (c *SessionTokenClaims) Shop() string {
	if c == nil {
		return ""
	}
	host, err := HostFromURL(c.Dest)
	if err != nil {
		return ""
	}
	return CanonicalShop(host)
}
