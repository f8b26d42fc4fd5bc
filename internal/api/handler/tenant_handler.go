package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// TenantHandler serves tenant-scoped views. Every business id it operates
// against comes from the impersonation-aware resolution, never straight
// from the profile; using the profile's link while impersonating would
// read the wrong tenant's data.
type TenantHandler struct {
	businesses    ports.BusinessRepository
	impersonation ports.ImpersonationService
	sessions      ports.SessionStore
}

func NewTenantHandler(
	businesses ports.BusinessRepository,
	impersonation ports.ImpersonationService,
	sessions ports.SessionStore,
) *TenantHandler {
	return &TenantHandler{businesses: businesses, impersonation: impersonation, sessions: sessions}
}

type dashboardResponse struct {
	Business      *domain.Business           `json:"business"`
	Impersonation domain.ImpersonationRecord `json:"impersonation"`
}

// Dashboard handles GET /:slug/dashboard.
//
// @Summary      Tenant dashboard
// @Tags         tenant
// @Produce      json
// @Param        slug  path      string  true  "Business slug"
// @Success      200   {object}  dashboardResponse
// @Failure      404   {object}  map[string]string
// @Router       /{slug}/dashboard [get]
func (h *TenantHandler) Dashboard(c echo.Context) error {
	business, rec, err := h.resolveBusiness(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Business: business, Impersonation: rec})
}

type settingsRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,min=5,max=32"`
	OnboardingDone *bool   `json:"onboarding_done"`
}

// UpdateSettings handles PUT /:slug/settings: the tenant-admin settings
// edit, the only write path to a business record this service owns.
//
// @Summary      Update tenant settings
// @Tags         tenant
// @Accept       json
// @Produce      json
// @Param        slug  path      string           true  "Business slug"
// @Param        body  body      settingsRequest  true  "Settings patch"
// @Success      200   {object}  domain.Business
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /{slug}/settings [put]
func (h *TenantHandler) UpdateSettings(c echo.Context) error {
	business, _, err := h.resolveBusiness(c)
	if err != nil {
		return err
	}

	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	updated, err := h.businesses.Update(ctx, business.ID, ports.BusinessUpdate{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		OnboardingDone: req.OnboardingDone,
	})
	if err != nil {
		return err
	}

	// The routing slug follows the name; refresh the cached copy.
	if req.Name != nil {
		sid, err := ctxSessionID(c)
		if err == nil {
			_ = h.sessions.Set(ctx, sid, domain.KeyBusinessSlug, updated.Slug())
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// resolveBusiness applies the resolution order (impersonation record first,
// then the profile's link) and rejects slug mismatches as not-found.
func (h *TenantHandler) resolveBusiness(c echo.Context) (*domain.Business, domain.ImpersonationRecord, error) {
	sid, err := ctxSessionID(c)
	if err != nil {
		return nil, domain.ImpersonationRecord{}, err
	}
	ctx := c.Request().Context()
	snap := ctxSnapshot(c)

	rec, err := h.impersonation.Record(ctx, sid)
	if err != nil {
		return nil, domain.ImpersonationRecord{}, err
	}
	businessID, err := h.impersonation.ResolveBusinessID(ctx, sid, snap.Profile)
	if err != nil {
		return nil, domain.ImpersonationRecord{}, err
	}
	if businessID == "" {
		return nil, domain.ImpersonationRecord{}, domain.ErrBusinessNotFound
	}

	business, err := h.businesses.Find(ctx, businessID)
	if err != nil {
		return nil, domain.ImpersonationRecord{}, err
	}
	if business.Slug() != c.Param("slug") {
		return nil, domain.ImpersonationRecord{}, domain.ErrBusinessNotFound
	}
	return business, rec, nil
}
