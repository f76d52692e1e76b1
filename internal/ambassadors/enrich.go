package ambassadors

import (
	"context"
	"fmt"

	"github.com/daybreak101/ambassador/pkg/auth"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/shopify"
	"golang.org/x/sync/errgroup"
)

const enrichConcurrency = 4

// Enricher decorates ambassador records on their way out. It returns a new slice
// and leaves items untouched.
type Enricher interface {
	Enrich(ctx context.Context, shop string, items []AmbassadorDTO) ([]AmbassadorDTO, error)
}

// PassthroughEnricher returns records as stored.
type PassthroughEnricher struct{}

func (PassthroughEnricher) Enrich(_ context.Context, _ string, items []AmbassadorDTO) ([]AmbassadorDTO, error) {
	return items, nil
}

type accessTokenSource interface {
	AccessToken(ctx context.Context, shop, sessionToken string) (string, error)
	Invalidate(ctx context.Context, shop string) error
}

type customerLookup interface {
	CustomerByEmail(ctx context.Context, shop, accessToken, email string) (*shopify.Customer, error)
}

// CustomerEnricher attaches the shop customer matching each ambassador's email.
type CustomerEnricher struct {
	tokens    accessTokenSource
	customers customerLookup
}

func NewCustomerEnricher(tokens accessTokenSource, customers customerLookup) (*CustomerEnricher, error) {
	if tokens == nil {
		return nil, fmt.Errorf("access token source required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer lookup required")
	}
	return &CustomerEnricher{tokens: tokens, customers: customers}, nil
}

func (e *CustomerEnricher) Enrich(ctx context.Context, shop string, items []AmbassadorDTO) ([]AmbassadorDTO, error) {
	if len(items) == 0 {
		return items, nil
	}

	token, err := e.tokens.AccessToken(ctx, shop, auth.SessionTokenFromContext(ctx))
	if err != nil {
		return nil, err
	}

	out := make([]AmbassadorDTO, len(items))
	copy(out, items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range out {
		g.Go(func() error {
			customer, err := e.customers.CustomerByEmail(gctx, auth.ShopHost(shop), token, out[i].Email)
			if err != nil {
				return err
			}
			if customer != nil {
				out[i].Customer = &CustomerSummary{
					ID:             customer.ID,
					DisplayName:    customer.DisplayName,
					NumberOfOrders: customer.NumberOfOrders,
					AmountSpent:    customer.AmountSpent.Amount,
					CurrencyCode:   customer.AmountSpent.CurrencyCode,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			// stored token was revoked; the next request exchanges a fresh one
			_ = e.tokens.Invalidate(ctx, shop)
		}
		return nil, err
	}
	return out, nil
}
