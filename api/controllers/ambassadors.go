package controllers

import (
	"net/http"

	"github.com/daybreak101/ambassador/api/middleware"
	"github.com/daybreak101/ambassador/api/responses"
	"github.com/daybreak101/ambassador/api/validators"
	"github.com/daybreak101/ambassador/internal/ambassadors"
	"github.com/daybreak101/ambassador/pkg/db/models"
	pkgerrors "github.com/daybreak101/ambassador/pkg/errors"
	"github.com/daybreak101/ambassador/pkg/logger"
)

// AmbassadorOptions tunes request handling for the ambassador routes.
type AmbassadorOptions struct {
	// StrictValidation applies the admin form's format rules server side.
	StrictValidation bool
}

// AmbassadorCreate stores a new, pending ambassador for the caller's shop.
func AmbassadorCreate(svc ambassadors.Service, opts AmbassadorOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shop, ok := requireShop(w, r, svc, logg)
		if !ok {
			return
		}

		input, err := decodeAmbassadorInput(r, opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, created)
	}
}

// AmbassadorList returns the shop's approved ambassadors.
func AmbassadorList(svc ambassadors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, ok := requireShop(w, r, svc, logg)
		if !ok {
			return
		}
		items, err := svc.ListActive(r.Context(), shop)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, items)
	}
}

// AmbassadorListPending returns the shop's ambassadors awaiting approval.
func AmbassadorListPending(svc ambassadors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, ok := requireShop(w, r, svc, logg)
		if !ok {
			return
		}
		items, err := svc.ListPending(r.Context(), shop)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, items)
	}
}

// The handlers below run behind middleware.AmbassadorOwnership.

func AmbassadorGet(svc ambassadors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, record, ok := requireRecord(w, r, svc, logg)
		if !ok {
			return
		}
		out, err := svc.Present(r.Context(), shop, record)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, out)
	}
}

// AmbassadorUpdate overwrites every mutable field with the payload.
func AmbassadorUpdate(svc ambassadors.Service, opts AmbassadorOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shop, record, ok := requireRecord(w, r, svc, logg)
		if !ok {
			return
		}

		input, err := decodeAmbassadorInput(r, opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, shop, record, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteOK(w, updated)
	}
}

func AmbassadorApprove(svc ambassadors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop, record, ok := requireRecord(w, r, svc, logg)
		if !ok {
			return
		}
		approved, err := svc.Approve(r.Context(), shop, record)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, approved)
	}
}

// AmbassadorDelete removes the record and answers 200 with an empty body.
func AmbassadorDelete(svc ambassadors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, record, ok := requireRecord(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), record.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(r.Context(), "ambassador deleted")
		}
		responses.WriteStatus(w, http.StatusOK)
	}
}

func requireShop(w http.ResponseWriter, r *http.Request, svc ambassadors.Service, logg *logger.Logger) (string, bool) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ambassador service unavailable"))
		return "", false
	}
	shop := middleware.ShopFromContext(ctx)
	if shop == "" {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
		return "", false
	}
	return shop, true
}

func requireRecord(w http.ResponseWriter, r *http.Request, svc ambassadors.Service, logg *logger.Logger) (string, *models.Ambassador, bool) {
	shop, ok := requireShop(w, r, svc, logg)
	if !ok {
		return "", nil, false
	}
	record := middleware.AmbassadorFromContext(r.Context())
	if record == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "ambassador not found"))
		return "", nil, false
	}
	return shop, record, true
}

func decodeAmbassadorInput(r *http.Request, opts AmbassadorOptions) (ambassadors.AmbassadorInput, error) {
	var input ambassadors.AmbassadorInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		return input, err
	}
	if !opts.StrictValidation {
		return input, nil
	}
	if err := validators.ValidateStruct(input); err != nil {
		return input, err
	}
	return input, nil
}
