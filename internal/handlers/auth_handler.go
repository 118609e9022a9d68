// internal/handlers/auth_handler.go
package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hoshichaam/pasal_storefront_go/internal/logging"
	"github.com/hoshichaam/pasal_storefront_go/internal/models"
	"github.com/hoshichaam/pasal_storefront_go/internal/services"
	"github.com/hoshichaam/pasal_storefront_go/internal/session"
	response "github.com/hoshichaam/pasal_storefront_go/pkg/response"
	vld "github.com/hoshichaam/pasal_storefront_go/pkg/validator"
)

// Authorizer is the login exchange used by AuthHandler.
type Authorizer interface {
	Authorize(ctx context.Context, cred services.Credentials) services.AuthResult
}

type AuthHandler struct {
	authorizer Authorizer
	sessions   *session.Manager
	log        *slog.Logger
}

func NewAuthHandler(a Authorizer, m *session.Manager, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authorizer: a, sessions: m, log: logger}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields, err := vld.ValidateStruct(req); err != nil {
		h.log.Debug("login validation failed", "fields", fields)
		return response.ValidationError(c, fields)
	}

	res := h.authorizer.Authorize(c.UserContext(), services.Credentials{
		Email:            req.Email,
		Password:         req.Password,
		ReloginRequested: bool(req.ReLogin),
	})

	switch res.Kind {
	case services.AuthAuthenticated:
		if _, err := h.sessions.Issue(c, res); err != nil {
			return response.Error(c, fiber.StatusInternalServerError, "failed to start session")
		}
		view := h.sessions.View(c)
		h.log.Info("login success", "email", logging.MaskEmail(req.Email), "role", view.Role())
		return response.OK(c, models.LoginResponse{Role: view.Role(), User: view.User})

	case services.AuthActiveSessionConflict:
		detail := map[string]any{"kind": res.Kind.String(), "relogin": true}
		if res.Detail != nil {
			detail["backend"] = res.Detail.Raw
		}
		return response.ErrorWithDetail(c, fiber.StatusConflict, services.ActiveSessionMessage, detail)

	default:
		msg := "email or password is incorrect"
		detail := map[string]any{"kind": services.AuthRejected.String()}
		if res.Detail != nil {
			if res.Detail.Message != "" {
				msg = res.Detail.Message
			}
			detail["backend"] = res.Detail.Raw
		}
		return response.ErrorWithDetail(c, fiber.StatusUnauthorized, msg, detail)
	}
}

// GET /api/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	view := h.sessions.View(c)
	if !view.Authenticated {
		return response.OK(c, fiber.Map{"authenticated": false, "signIn": session.SignInPath})
	}
	return response.OK(c, view)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return response.NoContent(c)
}
