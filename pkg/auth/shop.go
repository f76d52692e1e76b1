package auth

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var shopDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]*\.myshopify\.com$`)

// ValidShopDomain reports whether host looks like a myshopify.com shop domain.
func ValidShopDomain(host string) bool {
	return shopDomainPattern.MatchString(strings.TrimSpace(host))
}

// CanonicalShop builds the "https://<host>" form stored as an ambassador's shop domain.
func CanonicalShop(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		return ""
	}
	return "https://" + host
}

// ShopHost strips the scheme from a canonical shop URL.
func ShopHost(shop string) string {
	return strings.TrimPrefix(CanonicalShop(shop), "https://")
}

func HostFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", fmt.Errorf("url %q must be an https origin", raw)
	}
	return u.Hostname(), nil
}
