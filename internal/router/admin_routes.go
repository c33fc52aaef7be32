package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkspace/internal/handler"
	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/model"
)

// RegisterAdmin mounts the moderation console under /api/admin.
func RegisterAdmin(api *echo.Group, h *handler.AdminHandler, authn echo.MiddlewareFunc) {
	g := api.Group("/admin", authn, middleware.Require(model.RoleAdmin))

	g.GET("/providers/pending", h.PendingProviders)
	g.PATCH("/providers/:userId", h.DecideProvider)

	g.GET("/spaces/pending", h.PendingSpaces)
	g.GET("/spaces/:id", h.GetSpace)
	g.PATCH("/spaces/:id", h.DecideSpace)
}
