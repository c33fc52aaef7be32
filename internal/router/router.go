package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/blob"
	"github.com/iliyamo/parkspace/internal/catalog"
	"github.com/iliyamo/parkspace/internal/config"
	"github.com/iliyamo/parkspace/internal/handler"
	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/service"
	"github.com/iliyamo/parkspace/internal/session"
)

// Deps is everything the HTTP surface needs. Redis and Images may be nil.
type Deps struct {
	Log       *zap.Logger
	DB        handler.Pinger
	Redis     *redis.Client
	Sessions  *session.Manager
	Auth      service.AuthService
	Providers service.ProviderService
	Spaces    service.SpaceService
	Catalog   *catalog.Service
	Cache     *middleware.ResponseCache
	RateLimit config.RateLimitConfig
	Images    blob.ImageStore
	MaxUpload int64
}

// New builds the echo instance with every route mounted.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))

	RegisterRoutes(e, handler.NewHealthHandler(d.DB, d.Redis))

	api := e.Group("/api")
	authn := middleware.Authenticate(d.Sessions, d.Auth, d.Log)

	RegisterAuth(api, handler.NewAuthHandler(d.Auth, d.Sessions, d.Log), authn,
		middleware.RateLimit(d.RateLimit, d.Redis, d.Log))
	RegisterPublic(api, handler.NewPublicHandler(d.Catalog, d.Log), d.Cache)
	RegisterProvider(api,
		handler.NewProviderHandler(d.Providers, d.Spaces, d.Log),
		handler.NewUploadHandler(d.Images, d.MaxUpload, d.Log),
		d.Providers, authn)
	RegisterAdmin(api, handler.NewAdminHandler(d.Providers, d.Spaces, d.Log), authn)
	return e
}

// RegisterRoutes mounts the unauthenticated infrastructure endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth mounts /api/auth. Register and login are rate limited; me
// needs a resolved session.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, authn, limit echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, authn)
}

// RegisterPublic mounts the guest catalog behind the response cache.
func RegisterPublic(api *echo.Group, p *handler.PublicHandler, cache *middleware.ResponseCache) {
	cached := cache.Middleware()
	api.GET("/spaces/public", p.ListSpaces, cached)
	api.GET("/spaces/:id", p.GetSpace, cached)
}
