package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/daybreak101/ambassador/internal/repo"
	"github.com/daybreak101/ambassador/pkg/auth"
	"github.com/daybreak101/ambassador/pkg/db"
	"github.com/daybreak101/ambassador/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("shop session not found")

// ErrShopConflict means the shop already has a session stored under a different id.
var ErrShopConflict = errors.New("shop already has a session under another id")

const shopUniqueIndex = "shop_sessions_shop_key"

// Repository persists offline shop sessions next to the ambassador table.
type Repository struct {
	base *repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db, &models.ShopSession{})}
}

// OfflineID is the session id used for a shop's offline token.
func OfflineID(shop string) string {
	return "offline_" + auth.ShopHost(shop)
}

func (r *Repository) Init(ctx context.Context) error {
	return r.base.Init(ctx)
}

// FindOffline returns the offline session for shop or ErrNotFound.
func (r *Repository) FindOffline(ctx context.Context, shop string) (*models.ShopSession, error) {
	conn, err := r.base.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var session models.ShopSession
	if err := conn.Where("id = ?", OfflineID(shop)).Take(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Upsert stores the session, replacing the token and scope of an existing row.
func (r *Repository) Upsert(ctx context.Context, session *models.ShopSession) error {
	if session == nil || strings.TrimSpace(session.Shop) == "" {
		return gorm.ErrInvalidValue
	}
	conn, err := r.base.Conn(ctx)
	if err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = OfflineID(session.Shop)
	}
	err = conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "is_online", "expires_at", "updated_at"}),
	}).Create(session).Error
	if db.IsUniqueViolation(err, shopUniqueIndex) || db.IsUniqueViolation(err, "shop_sessions.shop") {
		return fmt.Errorf("upsert session %s: %w", session.ID, ErrShopConflict)
	}
	return err
}

// DeleteOffline removes the shop's offline session. Missing rows are not an error.
func (r *Repository) DeleteOffline(ctx context.Context, shop string) error {
	conn, err := r.base.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Where("id = ?", OfflineID(shop)).Delete(&models.ShopSession{}).Error
}
