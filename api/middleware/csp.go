package middleware

import (
	"net/http"

	pkgAuth "github.com/daybreak101/ambassador/pkg/auth"
)

const shopifyAdminOrigin = "https://admin.shopify.com"

// FrameAncestors restricts which origins may embed the app. Only the shop named by a
// valid shop query param and the platform admin are allowed.
func FrameAncestors() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", frameAncestorsPolicy(r.URL.Query().Get("shop")))
			next.ServeHTTP(w, r)
		})
	}
}

func frameAncestorsPolicy(shop string) string {
	host := pkgAuth.ShopHost(shop)
	if !pkgAuth.ValidShopDomain(host) {
		return "frame-ancestors 'none';"
	}
	return "frame-ancestors " + pkgAuth.CanonicalShop(host) + " " + shopifyAdminOrigin + ";"
}
