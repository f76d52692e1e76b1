package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daybreak101/ambassador/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var ErrShopMismatch = errors.New("session token issuer does not match destination")

// MintSessionToken signs a session token the way the platform does. Used by tests and
// local tooling to exercise authenticated routes.
func MintSessionToken(cfg config.ShopifyConfig, now time.Time, shopHost, userID string, ttl time.Duration) (string, error) {
	if cfg.APISecret == "" {
		return "", fmt.Errorf("shopify api secret is required")
	}
	if !ValidShopDomain(shopHost) {
		return "", fmt.Errorf("invalid shop domain %q", shopHost)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	dest := CanonicalShop(shopHost)
	claims := SessionTokenClaims{
		Dest:      dest,
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    dest + "/admin",
			Subject:   userID,
			Audience:  jwt.ClaimStrings{cfg.APIKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.APISecret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates signature, audience and timing of a session token and
// checks that the issuer and destination name the same shop.
func ParseSessionToken(cfg config.ShopifyConfig, tokenString string) (*SessionTokenClaims, error) {
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("shopify api secret is required")
	}

	claims := &SessionTokenClaims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(tokenString),
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.APISecret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithAudience(cfg.APIKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.ClockSkew),
	)
	if err != nil {
		return nil, err
	}

	destHost, err := HostFromURL(claims.Dest)
	if err != nil {
		return nil, err
	}
	if !ValidShopDomain(destHost) {
		return nil, fmt.Errorf("invalid shop domain %q", destHost)
	}
	issHost, err := HostFromURL(claims.Issuer)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(issHost, destHost) {
		return nil, ErrShopMismatch
	}

	return claims, nil
}
