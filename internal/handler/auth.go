package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/middleware"
	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
	"github.com/iliyamo/parkspace/internal/session"
)

// AuthHandler serves registration, login and the session endpoints.
type AuthHandler struct {
	Auth     service.AuthService
	Sessions *session.Manager
	Log      *zap.Logger
}

func NewAuthHandler(auth service.AuthService, sessions *session.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Log: log}
}

type registerReq struct {
	FullName string     `json:"fullName" validate:"max=120"`
	Email    string     `json:"email" validate:"max=254"`
	Password string     `json:"password" validate:"max=128"`
	Role     model.Role `json:"role"`
	Phone    string     `json:"phone" validate:"max=32"`
}

type loginReq struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

// Register creates a consumer or provider and signs them in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	if err := h.startSession(c, u); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": toUser(u, true)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if err := h.startSession(c, u); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUser(u, false)})
}

// Logout always succeeds; it only expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.Sessions.Clear())
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUser(u, true)})
}

func (h *AuthHandler) startSession(c echo.Context, u *model.User) error {
	ck, err := h.Sessions.Create(session.FromUser(u))
	if err != nil {
		return &service.Error{Kind: service.ErrStorage, Message: "create session", Err: err}
	}
	c.SetCookie(ck)
	return nil
}
