package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
)

// AdminHandler is the moderation console.
type AdminHandler struct {
	Providers service.ProviderService
	Spaces    service.SpaceService
	Log       *zap.Logger
}

func NewAdminHandler(providers service.ProviderService, spaces service.SpaceService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Providers: providers, Spaces: spaces, Log: log}
}

type providerDecisionReq struct {
	Status            model.ProviderStatus `json:"status"`
	VerificationNotes *string              `json:"verificationNotes" validate:"omitempty,max=2000"`
}

type spaceDecisionReq struct {
	Status            model.SpaceStatus `json:"status"`
	VerificationNotes *string           `json:"verificationNotes" validate:"omitempty,max=2000"`
	IsActive          *bool             `json:"isActive"`
}

type providerReviewView struct {
	Profile profileView `json:"profile"`
	User    *ownerView  `json:"user"`
}

func (h *AdminHandler) PendingProviders(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Providers.ListByStatus(ctx, model.ProviderPending)
	if err != nil {
		return fail(c, h.Log, err)
	}
	out := make([]providerReviewView, 0, len(list))
	for i := range list {
		out = append(out, providerReviewView{
			Profile: toProfile(&list[i].Profile),
			User:    toOwner(list[i].User),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"providers": out})
}

func (h *AdminHandler) DecideProvider(c echo.Context) error {
	var req providerDecisionReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	admin := middleware.CurrentUser(c)
	if err := h.Providers.Transition(ctx, admin.ID, c.Param("userId"), req.Status, req.VerificationNotes); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AdminHandler) PendingSpaces(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Spaces.ListByStatus(ctx, model.SpacePending)
	if err != nil {
		return fail(c, h.Log, err)
	}
	out := make([]spaceReviewView, 0, len(list))
	for _, r := range list {
		out = append(out, toReview(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"spaces": out})
}

func (h *AdminHandler) GetSpace(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Spaces.AdminGet(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toReview(*r))
}

func (h *AdminHandler) DecideSpace(c echo.Context) error {
	var req spaceDecisionReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_, err := h.Spaces.AdminTransition(ctx, c.Param("id"), middleware.CurrentUser(c).ID, service.AdminDecision{
		Status:   req.Status,
		Notes:    req.VerificationNotes,
		IsActive: req.IsActive,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
