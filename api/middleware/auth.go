package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/daybreak101/ambassador/api/responses"
	pkgAuth "github.com/daybreak101/ambassador/pkg/auth"
	"github.com/daybreak101/ambassador/pkg/config"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/logger"
)

// Auth verifies the embedded-app session token and seeds the request context with the
// caller's canonical shop URL. In dev, a request without credentials falls back to
// AppConfig.DevShop when one is configured.
func Auth(app config.AppConfig, shopify config.ShopifyConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	devShop := ""
	if app.IsDev() && pkgAuth.ValidShopDomain(pkgAuth.ShopHost(app.DevShop)) {
		devShop = pkgAuth.CanonicalShop(app.DevShop)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" && devShop != "" {
				next.ServeHTTP(w, r.WithContext(withShop(r, logg, devShop)))
				return
			}
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseSessionToken(shopify, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			shop := claims.Shop()
			if shop == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token has no shop"))
				return
			}

			ctx := withShop(r, logg, shop)
			ctx = pkgAuth.WithSessionToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withShop(r *http.Request, logg *logger.Logger, shop string) context.Context {
	ctx := WithShop(r.Context(), shop)
	if logg != nil {
		ctx = logg.WithShop(ctx, shop)
	}
	return ctx
}
