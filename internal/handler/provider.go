package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/service"
)

// ProviderHandler serves the signed-in provider's profile and listings.
// Every route sits behind Require(model.RoleProvider).
type ProviderHandler struct {
	Providers service.ProviderService
	Spaces    service.SpaceService
	Log       *zap.Logger
}

func NewProviderHandler(providers service.ProviderService, spaces service.SpaceService, log *zap.Logger) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Spaces: spaces, Log: log}
}

type activateReq struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *ProviderHandler) Profile(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Providers.GetProfile(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": toProfile(p)})
}

// Dashboard is only reachable by approved providers.
func (h *ProviderHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sum, err := h.Spaces.Summary(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"spaces": sum})
}

func (h *ProviderHandler) ListSpaces(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Spaces.ListByProvider(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	out := make([]spaceSummary, 0, len(list))
	for i := range list {
		out = append(out, toSummary(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (h *ProviderHandler) CreateSpace(c echo.Context) error {
	var in service.SpaceInput
	if err := bind(c, &in); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sp, err := h.Spaces.Create(ctx, middleware.CurrentUser(c).ID, in)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": toSummary(sp)})
}

func (h *ProviderHandler) GetSpace(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sp, err := h.Spaces.Get(ctx, c.Param("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toDetails(sp)})
}

func (h *ProviderHandler) UpdateSpace(c echo.Context) error {
	var in service.SpaceInput
	if err := bind(c, &in); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sp, err := h.Spaces.Update(ctx, c.Param("id"), middleware.CurrentUser(c).ID, in)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toDetails(sp)})
}

func (h *ProviderHandler) ActivateSpace(c echo.Context) error {
	var req activateReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Spaces.SetActivation(ctx, c.Param("id"), middleware.CurrentUser(c).ID, *req.IsActive); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
