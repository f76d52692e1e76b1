package ambassadors

import (
	"context"
	"errors"
	"fmt"

	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/logger"
)

type ambassadorRepository interface {
	Ready(ctx context.Context) error
	Create(ctx context.Context, shopDomain string, input AmbassadorInput) (uint, error)
	Update(ctx context.Context, id uint, input AmbassadorInput) error
	Approve(ctx context.Context, id uint) error
	List(ctx context.Context, shopDomain string) ([]models.Ambassador, error)
	ListInactive(ctx context.Context, shopDomain string) ([]models.Ambassador, error)
	Read(ctx context.Context, id uint) (*models.Ambassador, error)
	Delete(ctx context.Context, id uint) error
}

// Service exposes ambassador operations scoped to the caller's shop. Ownership of
// an existing record is established by the caller (see Find) before Update,
// Approve, Present or Delete.
type Service interface {
	Create(ctx context.Context, shop string, input AmbassadorInput) (*AmbassadorDTO, error)
	ListActive(ctx context.Context, shop string) ([]AmbassadorDTO, error)
	ListPending(ctx context.Context, shop string) ([]AmbassadorDTO, error)
	Find(ctx context.Context, id uint) (*models.Ambassador, error)
	Present(ctx context.Context, shop string, record *models.Ambassador) (*AmbassadorDTO, error)
	Update(ctx context.Context, shop string, current *models.Ambassador, input AmbassadorInput) (*AmbassadorDTO, error)
	Approve(ctx context.Context, shop string, current *models.Ambassador) (*AmbassadorDTO, error)
	Delete(ctx context.Context, id uint) error
	Ready(ctx context.Context) error
}

// ServiceParams bundles the dependencies required to build an ambassador service.
type ServiceParams struct {
	Repo     ambassadorRepository
	Enricher Enricher
	Logger   *logger.Logger
}

type service struct {
	repo     ambassadorRepository
	enricher Enricher
	logg     *logger.Logger
}

// NewService constructs the ambassador service. A nil Enricher means PassthroughEnricher.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ambassador repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	enricher := params.Enricher
	if enricher == nil {
		enricher = PassthroughEnricher{}
	}
	return &service{
		repo:     params.Repo,
		enricher: enricher,
		logg:     params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, shop string, input AmbassadorInput) (*AmbassadorDTO, error) {
	id, err := s.repo.Create(ctx, shop, input)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithAmbassadorID(ctx, id)

	record, err := s.repo.Read(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "reload created ambassador")
		}
		return nil, err
	}
	s.logg.Info(ctx, "ambassador created")
	return s.Present(ctx, shop, record)
}

func (s *service) ListActive(ctx context.Context, shop string) ([]AmbassadorDTO, error) {
	rows, err := s.repo.List(ctx, shop)
	if err != nil {
		return nil, err
	}
	return s.format(ctx, shop, fromModels(rows)), nil
}

func (s *service) ListPending(ctx context.Context, shop string) ([]AmbassadorDTO, error) {
	rows, err := s.repo.ListInactive(ctx, shop)
	if err != nil {
		return nil, err
	}
	return s.format(ctx, shop, fromModels(rows)), nil
}

// Find loads a record by id. A missing record yields a NOT_FOUND error.
func (s *service) Find(ctx context.Context, id uint) (*models.Ambassador, error) {
	record, err := s.repo.Read(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")
		}
		return nil, err
	}
	return record, nil
}

func (s *service) Present(ctx context.Context, shop string, record *models.Ambassador) (*AmbassadorDTO, error) {
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")
	}
	out := s.format(ctx, shop, []AmbassadorDTO{*FromModel(record)})
	return &out[0], nil
}

// Update overwrites the record. An absent isActive keeps the current value.
func (s *service) Update(ctx context.Context, shop string, current *models.Ambassador, input AmbassadorInput) (*AmbassadorDTO, error) {
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")
	}
	if input.IsActive == nil {
		active := current.IsActive
		input.IsActive = &active
	}
	if err := s.repo.Update(ctx, current.ID, input); err != nil {
		return nil, err
	}
	return s.reload(ctx, shop, current.ID)
}

func (s *service) Approve(ctx context.Context, shop string, current *models.Ambassador) (*AmbassadorDTO, error) {
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found")
	}
	if err := s.repo.Approve(ctx, current.ID); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithAmbassadorID(ctx, current.ID), "ambassador approved")
	return s.reload(ctx, shop, current.ID)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Ready reports store readiness without blocking on the bootstrap.
func (s *service) Ready(ctx context.Context) error {
	return s.repo.Ready(ctx)
}

// reload re-reads after a write. A concurrent delete between the two round trips
// surfaces as NOT_FOUND.
func (s *service) reload(ctx context.Context, shop string, id uint) (*AmbassadorDTO, error) {
	record, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Present(ctx, shop, record)
}

func (s *service) format(ctx context.Context, shop string, items []AmbassadorDTO) []AmbassadorDTO {
	enriched, err := s.enricher.Enrich(ctx, shop, items)
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(ctx, "ambassador enrichment failed; returning stored records")
		return items
	}
	return enriched
}
