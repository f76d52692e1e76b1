package ambassadors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daybreak101/ambassador/internal/repo"
	"github.com/daybreak101/ambassador/pkg/db"
	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/logger"
	"github.com/daybreak101/ambassador/pkg/metrics"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Read when no single row matches.
var ErrNotFound = errors.New("ambassador not found")

// Repository encapsulates the ambassadors table. Every statement waits for the
// one-time table bootstrap and runs as a single round trip.
type Repository struct {
	base    *repo.Base
	metrics *metrics.StoreMetrics
	logg    *logger.Logger
}

// NewRepository constructs an ambassador repository bound to the provided gorm DB.
// m and logg may be nil.
func NewRepository(db *gorm.DB, m *metrics.StoreMetrics, logg *logger.Logger) *Repository {
	return &Repository{
		base:    repo.NewBase(db, &models.Ambassador{}),
		metrics: m,
		logg:    logg,
	}
}

// Init creates the table when missing. Operations call it implicitly.
func (r *Repository) Init(ctx context.Context) (err error) {
	defer r.observe("init", time.Now(), &err)
	if err := r.base.Init(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "bootstrap ambassadors table")
	}
	return nil
}

// Ready reports whether the table bootstrap has completed, without waiting for it.
func (r *Repository) Ready(context.Context) error {
	if r.base.Bootstrapped() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodePersistence, "ambassadors table not bootstrapped")
}

// Create inserts a pending ambassador for shopDomain and returns its id.
func (r *Repository) Create(ctx context.Context, shopDomain string, input AmbassadorInput) (id uint, err error) {
	defer r.observe("create", time.Now(), &err)

	if strings.TrimSpace(shopDomain) == "" {
		return 0, pkgerrors.New(pkgerrors.CodePersistence, "create ambassador: shop domain is required")
	}
	if missing := input.MissingRequired(); len(missing) > 0 {
		return 0, pkgerrors.New(pkgerrors.CodePersistence,
			fmt.Sprintf("create ambassador: NOT NULL constraint failed: %s", strings.Join(missing, ", ")))
	}

	conn, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}

	record := models.Ambassador{
		ShopDomain: shopDomain,
		Title:      *input.Title,
		Email:      *input.Email,
		Phone:      *input.Phone,
		Plushie:    *input.Plushie,
		Instagram:  input.Instagram,
		Twitter:    input.Twitter,
		Tiktok:     input.Tiktok,
		Facebook:   input.Facebook,
		Youtube:    input.Youtube,
		Birth:      input.Birth,
		Discovery:  input.Discovery,
		Hobbies:    input.Hobbies,
		Bio:        input.Bio,
		IsActive:   false,
	}
	if err := conn.Create(&record).Error; err != nil {
		return 0, writeError(err, "create ambassador")
	}
	return record.ID, nil
}

// Update overwrites every mutable column of the row. Zero matching rows is a no-op.
func (r *Repository) Update(ctx context.Context, id uint, input AmbassadorInput) (err error) {
	defer r.observe("update", time.Now(), &err)

	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if err := conn.Model(&models.Ambassador{}).
		Where("id = ?", id).
		Updates(input.columns()).
		Error; err != nil {
		return writeError(err, "update ambassador")
	}
	return nil
}

// Approve marks the row active. Zero matching rows is a no-op.
func (r *Repository) Approve(ctx context.Context, id uint) (err error) {
	defer r.observe("approve", time.Now(), &err)

	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if err := conn.Model(&models.Ambassador{}).
		Where("id = ?", id).
		Update("is_active", true).
		Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "approve ambassador")
	}
	return nil
}

// List returns the shop's active ambassadors.
func (r *Repository) List(ctx context.Context, shopDomain string) (rows []models.Ambassador, err error) {
	defer r.observe("list", time.Now(), &err)
	return r.listByStatus(ctx, shopDomain, true)
}

// ListInactive returns the shop's pending ambassadors.
func (r *Repository) ListInactive(ctx context.Context, shopDomain string) (rows []models.Ambassador, err error) {
	defer r.observe("list_inactive", time.Now(), &err)
	return r.listByStatus(ctx, shopDomain, false)
}

func (r *Repository) listByStatus(ctx context.Context, shopDomain string, active bool) ([]models.Ambassador, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]models.Ambassador, 0)
	if err := conn.
		Where("shop_domain = ? AND is_active = ?", shopDomain, active).
		Order("id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list ambassadors")
	}
	return rows, nil
}

// Read returns the row with id, or ErrNotFound when zero or several rows match.
func (r *Repository) Read(ctx context.Context, id uint) (record *models.Ambassador, err error) {
	defer r.observe("read", time.Now(), &err)

	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.Ambassador
	if err := conn.Where("id = ?", id).Limit(2).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read ambassador")
	}
	switch len(rows) {
	case 1:
		return &rows[0], nil
	case 0:
		return nil, ErrNotFound
	default:
		if r.logg != nil {
			r.logg.Warn(r.logg.WithAmbassadorID(ctx, id), "ambassador id matched more than one row")
		}
		return nil, ErrNotFound
	}
}

// Delete removes the row unconditionally. Missing rows are not an error.
func (r *Repository) Delete(ctx context.Context, id uint) (err error) {
	defer r.observe("delete", time.Now(), &err)

	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if err := conn.Where("id = ?", id).Delete(&models.Ambassador{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete ambassador")
	}
	return nil
}

// writeError wraps a failed write; NOT NULL failures name the required field in the message.
func writeError(err error, op string) error {
	if db.IsNotNullViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, op+": required field is missing")
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, op)
}

func (r *Repository) conn(ctx context.Context) (*gorm.DB, error) {
	db, err := r.base.Conn(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "ambassadors table unavailable")
	}
	return db, nil
}

func (r *Repository) observe(op string, started time.Time, err *error) {
	var opErr error
	if err != nil {
		opErr = *err
	}
	if errors.Is(opErr, ErrNotFound) {
		opErr = nil
	}
	r.metrics.Observe(op, started, opErr)
}
