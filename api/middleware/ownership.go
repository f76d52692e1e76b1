package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daybreak101/ambassador/api/responses"
	"github.com/daybreak101/ambassador/api/validators"
	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/logger"
)

type ambassadorFinder interface {
	Find(ctx context.Context, id uint) (*models.Ambassador, error)
}

// AmbassadorOwnership loads the ambassador named by the {id} route param and rejects
// the request with 404 unless it belongs to the caller's shop. Records owned by other
// shops are indistinguishable from missing ones.
func AmbassadorOwnership(svc ambassadorFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			notFound := pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")

			id, ok := validators.ParseID(chi.URLParam(r, "id"))
			if !ok {
				responses.WriteError(r.Context(), logg, w, notFound)
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithAmbassadorID(ctx, id)
			}

			record, err := svc.Find(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if record == nil || record.ShopDomain != ShopFromContext(ctx) {
				responses.WriteError(ctx, logg, w, notFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAmbassador(ctx, record)))
		})
	}
}
