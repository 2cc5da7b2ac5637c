package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/service"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// AuthHandler issues identity tokens.  There are no passwords: a caller
// is whoever owns the email address they present.
type AuthHandler struct {
	Svc        *service.Service
	Secret     string
	TTL        time.Duration
	AdminEmail string
}

func NewAuthHandler(svc *service.Service, secret string, ttl time.Duration, adminEmail string) *AuthHandler {
	return &AuthHandler{Svc: svc, Secret: secret, TTL: ttl, AdminEmail: adminEmail}
}

type loginReq struct {
	Email string `json:"email" validate:"required,max=254"`
	// Role disambiguates an address registered both as host and guest.
	Role string `json:"role" validate:"omitempty,oneof=host guest"`
}

type loginResp struct {
	UserID int               `json:"user_id"`
	Role   string            `json:"role"`
	Access utils.AccessToken `json:"access"`
}

// Login resolves the email to the administrator, a host or a guest, in
// that order, and returns a signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	email := strings.TrimSpace(req.Email)

	ctx, cancel := timeout(c)
	defer cancel()

	userID, role, err := h.resolve(ctx, email, req.Role)
	if err != nil {
		return fail(c, err)
	}
	if role == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown email"})
	}

	access, err := utils.NewAccessToken(h.Secret, userID, role, h.TTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{UserID: userID, Role: role, Access: access})
}

// resolve returns an empty role when nobody owns email.
func (h *AuthHandler) resolve(ctx context.Context, email, want string) (int, string, error) {
	if want == "" && h.AdminEmail != "" && strings.EqualFold(email, h.AdminEmail) {
		return 0, utils.RoleAdmin, nil
	}
	if want != utils.RoleGuest {
		host, err := h.Svc.GetHostByEmail(ctx, email)
		switch {
		case err == nil:
			return host.ID, utils.RoleHost, nil
		case !errors.Is(err, service.ErrNotFound):
			return 0, "", err
		}
	}
	if want != utils.RoleHost {
		guest, err := h.Svc.GetGuestByEmail(ctx, email)
		switch {
		case err == nil:
			return guest.ID, utils.RoleGuest, nil
		case !errors.Is(err, service.ErrNotFound):
			return 0, "", err
		}
	}
	return 0, "", nil
}
