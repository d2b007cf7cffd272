package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// AccessHandler exposes the route/mode guard and the session mode.
type AccessHandler struct {
	access *service.AccessService
	modes  *service.ModeService
}

// NewAccessHandler constructs handler.
func NewAccessHandler(accessService *service.AccessService, modeService *service.ModeService) *AccessHandler {
	return &AccessHandler{access: accessService, modes: modeService}
}

// Decide GET /access/:page. Mounted behind the optional auth middleware so
// the Invitation page resolves even without a session.
func (h *AccessHandler) Decide(c *fiber.Ctx) error {
	page := c.Params("page")

	var user *domain.User
	sessionKey := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		user = principal.User
		sessionKey = principal.SessionKey
	}

	decision, mode, err := h.access.Decide(c.Context(), page, user, sessionKey)
	if err != nil {
		return err
	}

	resp := dto.AccessDecisionResponse{
		Page:          page,
		Decision:      decision.Kind,
		RedirectTo:    decision.RedirectTarget,
		RequiredRoles: decision.RequiredRoles,
		ActualRole:    decision.ActualRole,
		RequiredModes: decision.RequiredModes,
		SuggestedMode: decision.SuggestedMode,
		CurrentMode:   mode,
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetMode GET /mode.
func (h *AccessHandler) GetMode(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	mode, err := h.modes.Get(c.Context(), principal.SessionKey)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ModeResponse{Mode: mode}})
}

// SwitchMode PUT /mode.
func (h *AccessHandler) SwitchMode(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SwitchModeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.modes.Switch(c.Context(), principal.SessionKey, principal.User.Email, req.Mode); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ModeResponse{Mode: req.Mode}})
}
