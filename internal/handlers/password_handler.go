package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hoshichaam/pasal_storefront_go/internal/models"
	"github.com/hoshichaam/pasal_storefront_go/internal/services"
	"github.com/hoshichaam/pasal_storefront_go/pkg/passwordpolicy"
	response "github.com/hoshichaam/pasal_storefront_go/pkg/response"
	vld "github.com/hoshichaam/pasal_storefront_go/pkg/validator"
)

type PasswordHandler struct {
	reset *services.PasswordResetOrchestrator
	log   *slog.Logger
}

func NewPasswordHandler(o *services.PasswordResetOrchestrator, logger *slog.Logger) *PasswordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordHandler{reset: o, log: logger}
}

// POST /api/password/strength
func (h *PasswordHandler) Strength(c *fiber.Ctx) error {
	var req models.StrengthRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	a := passwordpolicy.Evaluate(req.Password)
	return response.OK(c, fiber.Map{
		"score":        a.Score,
		"tier":         a.Tier,
		"color":        a.Tier.Color(),
		"requirements": a.Requirements(),
	})
}

// GET /auth/change-password?s=
// Reports the outcome encoded in the page URL so a reload keeps it.
func (h *PasswordHandler) ChangePasswordPage(c *fiber.Ctx) error {
	status := "idle"
	switch c.Query("s") {
	case "1":
		status = services.ResetSucceeded.String()
	case "0":
		status = services.ResetSoftFailed.String()
	}
	return response.OK(c, fiber.Map{"status": status})
}

// POST /auth/change-password?email=&token=
func (h *PasswordHandler) ChangePassword(c *fiber.Ctx) error {
	var q models.ResetQuery
	if err := c.QueryParser(&q); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid reset link")
	}
	if fields, err := vld.ValidateStruct(q); err != nil {
		return response.ValidationError(c, fields)
	}

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if fields, err := vld.ValidateStruct(req); err != nil {
		h.log.Debug("change password validation failed", "fields", fields)
		return response.ValidationError(c, fields)
	}

	// One form per page load; a fresh form is Idle, so Submit cannot refuse it.
	form := &services.ResetForm{NewPassword: req.NewPassword, ConfirmPassword: req.ConfirmPassword}
	out, err := form.Submit(c.UserContext(), h.reset, q.Email, q.Token)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	redirect, _ := out.Navigate()
	return response.OK(c, models.ChangePasswordResponse{
		Status:    out.Status.String(),
		Message:   out.Message,
		Redirect:  redirect,
		ClearForm: form.State() == services.FormSucceeded,
	})
}
