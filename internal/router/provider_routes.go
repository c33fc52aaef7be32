package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parkspace/internal/handler"
	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/model"
)

// RegisterProvider mounts /api/provider. Every route needs a provider
// session; the dashboard additionally needs an approved profile.
func RegisterProvider(api *echo.Group, h *handler.ProviderHandler, up *handler.UploadHandler, profiles middleware.ProfileFinder, authn echo.MiddlewareFunc) {
	g := api.Group("/provider", authn, middleware.Require(model.RoleProvider))

	g.GET("/profile", h.Profile)
	g.GET("/dashboard", h.Dashboard, middleware.RequireApprovedProvider(profiles))

	g.GET("/spaces", h.ListSpaces)
	g.POST("/spaces", h.CreateSpace)
	g.GET("/spaces/:id", h.GetSpace)
	g.PATCH("/spaces/:id", h.UpdateSpace)
	g.POST("/spaces/:id/activate", h.ActivateSpace)

	g.POST("/uploads/images", up.SpaceImage)
}
