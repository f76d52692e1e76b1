package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
)

type stubFinder struct {
	records map[uint]*models.Ambassador
	err     error
	calls   int
}

func (s *stubFinder) Find(_ context.Context, id uint) (*models.Ambassador, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	record, ok := s.records[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")
	}
	return record, nil
}

func ownershipRouter(finder *stubFinder, shop string, seen **models.Ambassador) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithShop(req.Context(), shop)))
		})
	})
	r.With(AmbassadorOwnership(finder, nil)).Get("/api/ambassadors/{id}", func(w http.ResponseWriter, req *http.Request) {
		*seen = AmbassadorFromContext(req.Context())
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestAmbassadorOwnership(t *testing.T) {
	owned := &models.Ambassador{ID: 1, ShopDomain: "https://a.myshopify.com", Title: "Ada"}
	foreign := &models.Ambassador{ID: 2, ShopDomain: "https://b.myshopify.com", Title: "Bob"}

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantFound bool
		wantCalls int
	}{
		{"owned record", "/api/ambassadors/1", http.StatusOK, true, 1},
		{"other shop", "/api/ambassadors/2", http.StatusNotFound, false, 1},
		{"missing", "/api/ambassadors/99", http.StatusNotFound, false, 1},
		{"non numeric", "/api/ambassadors/abc", http.StatusNotFound, false, 0},
		{"zero", "/api/ambassadors/0", http.StatusNotFound, false, 0},
		{"negative", "/api/ambassadors/-1", http.StatusNotFound, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &stubFinder{records: map[uint]*models.Ambassador{1: owned, 2: foreign}}
			var seen *models.Ambassador
			resp := httptest.NewRecorder()
			ownershipRouter(finder, "https://a.myshopify.com", &seen).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantCalls, finder.calls)
			if tt.wantFound {
				require.NotNil(t, seen)
				assert.Equal(t, owned.ID, seen.ID)
			} else {
				assert.Nil(t, seen)
				assert.Empty(t, resp.Body.String(), "404 must carry an empty body")
			}
		})
	}
}

func TestAmbassadorOwnershipStoreFailure(t *testing.T) {
	finder := &stubFinder{err: pkgerrors.Wrap(pkgerrors.CodePersistence, errors.New("disk I/O error"), "read ambassador")}
	var seen *models.Ambassador
	resp := httptest.NewRecorder()
	ownershipRouter(finder, "https://a.myshopify.com", &seen).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/ambassadors/1", nil))

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), `"PERSISTENCE_ERROR"`)
	assert.Contains(t, resp.Body.String(), "disk I/O error")
	assert.Nil(t, seen)
}
