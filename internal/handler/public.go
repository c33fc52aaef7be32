package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/catalog"
)

// PublicHandler serves the guest catalog. No authentication.
type PublicHandler struct {
	Catalog *catalog.Service
	Log     *zap.Logger
}

func NewPublicHandler(cat *catalog.Service, log *zap.Logger) *PublicHandler {
	return &PublicHandler{Catalog: cat, Log: log}
}

func (h *PublicHandler) ListSpaces(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	spaces, err := h.Catalog.List(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"spaces": spaces})
}

func (h *PublicHandler) GetSpace(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sp, err := h.Catalog.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"space": sp})
}
