package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daybreak101/ambassador/pkg/auth"
	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/shopify"
)

// ErrNoSession is returned by a Store when the shop has no stored offline session.
var ErrNoSession = errors.New("no offline session")

// Store persists offline sessions.
type Store interface {
	FindOffline(ctx context.Context, shop string) (*models.ShopSession, error)
	Upsert(ctx context.Context, session *models.ShopSession) error
	DeleteOffline(ctx context.Context, shop string) error
}

type tokenExchanger interface {
	ExchangeToken(ctx context.Context, shop, sessionToken string) (*shopify.AccessToken, error)
}

// Manager resolves offline Admin API access tokens per shop, exchanging the
// caller's session token when nothing is stored yet.
type Manager struct {
	store     Store
	exchanger tokenExchanger
	// notFound tells a Store miss apart from a failure.
	notFound error
}

// NewManager wires a session store and the token exchange client. notFound is the
// sentinel the store returns for a missing session; nil means ErrNoSession.
func NewManager(store Store, exchanger tokenExchanger, notFound error) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if exchanger == nil {
		return nil, fmt.Errorf("token exchanger is required")
	}
	if notFound == nil {
		notFound = ErrNoSession
	}
	return &Manager{store: store, exchanger: exchanger, notFound: notFound}, nil
}

// AccessToken returns the stored offline token for shop, acquiring one with
// sessionToken when absent.
func (m *Manager) AccessToken(ctx context.Context, shop, sessionToken string) (string, error) {
	shop = auth.CanonicalShop(shop)
	if shop == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "shop is required")
	}

	stored, err := m.store.FindOffline(ctx, shop)
	switch {
	case err == nil && stored != nil && stored.AccessToken != "":
		return stored.AccessToken, nil
	case err != nil && !errors.Is(err, m.notFound):
		return "", pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load shop session")
	}

	if strings.TrimSpace(sessionToken) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "no offline session and no session token to exchange")
	}

	token, err := m.exchanger.ExchangeToken(ctx, auth.ShopHost(shop), sessionToken)
	if err != nil {
		return "", err
	}

	record := &models.ShopSession{
		Shop:        shop,
		AccessToken: token.AccessToken,
	}
	if token.Scope != "" {
		scope := token.Scope
		record.Scope = &scope
	}
	if err := m.store.Upsert(ctx, record); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePersistence, err, "store shop session")
	}
	return token.AccessToken, nil
}

// Invalidate drops the stored token, e.g. after the Admin API rejected it.
func (m *Manager) Invalidate(ctx context.Context, shop string) error {
	if err := m.store.DeleteOffline(ctx, auth.CanonicalShop(shop)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete shop session")
	}
	return nil
}
