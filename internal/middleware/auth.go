package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/parkspace/internal/authz"
	"github.com/iliyamo/parkspace/internal/model"
	"github.com/iliyamo/parkspace/internal/service"
	"github.com/iliyamo/parkspace/internal/session"
)

const currentUserKey = "current_user"

// UserFinder re-reads the account a session cookie points at.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ProfileFinder returns the caller's provider profile.
type ProfileFinder interface {
	GetProfile(ctx context.Context, userID string) (*model.ProviderProfile, error)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(currentUserKey).(*model.User)
	return u
}

// Authenticate resolves the session cookie into a user. Requests without a
// valid cookie, or whose user no longer exists, continue anonymously.
func Authenticate(sessions *session.Manager, users UserFinder, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := sessions.Read(c.Request())
			if p == nil {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.FindByID(ctx, p.User.ID)
			if err != nil {
				log.Error("session user lookup failed", zap.String("user_id", p.User.ID), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			if u != nil {
				c.Set(currentUserKey, u)
			}
			return next(c)
		}
	}
}

// Require admits only authenticated users holding one of roles (any role
// when roles is empty). JSON clients get 401; browser navigations are
// redirected to the login page or home.
func Require(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var st authz.State
			if u := CurrentUser(c); u != nil {
				st.Identity = &authz.Identity{UserID: u.ID, Role: u.Role}
			}
			switch d := authz.Decide(st, roles...); d {
			case authz.Allow:
				return next(c)
			case authz.RedirectLogin:
				return deny(c, "/login")
			default:
				return deny(c, "/")
			}
		}
	}
}

// RequireApprovedProvider runs after Require(model.RoleProvider) and stops
// providers whose profile has not been approved.
func RequireApprovedProvider(profiles ProfileFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return deny(c, "/login")
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			p, err := profiles.GetProfile(ctx, u.ID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": service.PublicMessage(err)})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			if authz.ProviderAccess(authz.Allow, p.Status) == authz.PendingReview {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":  "Provider account pending review",
					"status": p.Status,
				})
			}
			return next(c)
		}
	}
}

func deny(c echo.Context, location string) error {
	if wantsHTML(c.Request()) {
		return c.Redirect(http.StatusFound, location)
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized"})
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
