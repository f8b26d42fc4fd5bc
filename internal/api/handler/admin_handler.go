package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminDashboard handles GET /admin/dashboard. The admin gate lives in the
// guard middleware; by the time this runs the snapshot is an administrator.
//
// @Summary      Administrator dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/dashboard [get]
func AdminDashboard(c echo.Context) error {
	snap := ctxSnapshot(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": snap.Profile,
	})
}
