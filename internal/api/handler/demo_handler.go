package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groomly/platform-api/internal/core/domain"
)

// demoBusinessID is the shared read-only tenant behind the public demo path.
const demoBusinessID = "biz_demo"

// Demo handles GET /demo: the public demo tenant. The route is designated
// public: the guard renders it unconditionally, no auth checks.
//
// @Summary      Public demo tenant
// @Tags         demo
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /demo [get]
func Demo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"business": domain.Business{
			ID:                 demoBusinessID,
			Name:               "Sunny Paws Demo",
			SubscriptionTier:   domain.TierPro,
			SubscriptionStatus: domain.SubActive,
			OnboardingDone:     true,
		},
		"demo": true,
	})
}
