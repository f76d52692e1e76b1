package middleware

import (
	"context"

	"github.com/daybreak101/ambassador/pkg/db/models"
)

type contextKey string

const (
	ctxShop       contextKey = "shop"
	ctxAmbassador contextKey = "ambassador"
)

// ShopFromContext returns the canonical shop URL resolved by Auth.
func ShopFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShop).(string); ok {
		return v
	}
	return ""
}

// WithShop injects the caller's canonical shop URL into the context.
func WithShop(ctx context.Context, shop string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShop, shop)
}

// AmbassadorFromContext returns the record loaded by AmbassadorOwnership.
func AmbassadorFromContext(ctx context.Context) *models.Ambassador {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAmbassador).(*models.Ambassador); ok {
		return v
	}
	return nil
}

func WithAmbassador(ctx context.Context, record *models.Ambassador) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAmbassador, record)
}
