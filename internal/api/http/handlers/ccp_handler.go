package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/gating"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// CCPHandler manages control point and check endpoints.
type CCPHandler struct {
	service *service.CCPService
}

// NewCCPHandler constructs handler.
func NewCCPHandler(ccpService *service.CCPService) *CCPHandler {
	return &CCPHandler{service: ccpService}
}

// CreateCCP POST /ccps.
func (h *CCPHandler) CreateCCP(c *fiber.Ctx) error {
	var req dto.CreateCCPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	ccp, err := h.service.CreateCCP(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ccpResponse(ccp)})
}

// ListCCPs GET /ccps.
func (h *CCPHandler) ListCCPs(c *fiber.Ctx) error {
	ccps, err := h.service.ListCCPs(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CCPResponse, 0, len(ccps))
	for i := range ccps {
		items = append(items, ccpResponse(&ccps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RetireCCP PATCH /ccps/:id/retire.
func (h *CCPHandler) RetireCCP(c *fiber.Ctx) error {
	ccp, err := h.service.RetireCCP(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ccpResponse(ccp)})
}

// RecordCheck POST /ccps/:id/checks.
func (h *CCPHandler) RecordCheck(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RecordCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	check, err := h.service.RecordCheck(c.Context(), principal.User.Email, service.CheckInput{
		CCPID:             c.Params("id"),
		Status:            req.Status,
		RecordedValue:     req.RecordedValue,
		CriticalLimit:     req.CriticalLimit,
		BlockedMenuItems:  req.BlockedMenuItems,
		CorrectiveActions: req.CorrectiveActions,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": checkResponse(check)})
}

// ServiceStatus GET /service-status.
func (h *CCPHandler) ServiceStatus(c *fiber.Ctx) error {
	status, err := h.service.ServiceStatus(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceStatusResponse(status)})
}

func ccpResponse(ccp *domain.CriticalControlPoint) dto.CCPResponse {
	return dto.CCPResponse{ID: ccp.ID, Name: ccp.Name, IsActive: ccp.IsActive}
}

func checkResponse(check *domain.CCPCheck) dto.CheckResponse {
	return dto.CheckResponse{
		ID:                check.ID,
		CCPID:             check.CCPID,
		CheckDate:         check.CheckDate.Format("2006-01-02"),
		Status:            check.Status,
		RecordedValue:     check.RecordedValue,
		CriticalLimit:     check.CriticalLimit,
		BlockedMenuItems:  check.BlockedMenuItems,
		CorrectiveActions: check.CorrectiveActions,
		RecordedBy:        check.RecordedBy,
	}
}

func serviceStatusResponse(status gating.LockdownStatus) dto.ServiceStatusResponse {
	failed := make([]dto.CheckResponse, 0, len(status.Failed))
	for i := range status.Failed {
		failed = append(failed, checkResponse(&status.Failed[i]))
	}
	pending := make([]dto.CCPResponse, 0, len(status.Pending))
	for i := range status.Pending {
		pending = append(pending, ccpResponse(&status.Pending[i]))
	}
	return dto.ServiceStatusResponse{
		ServiceLocked:    status.ServiceLocked,
		Tier:             status.Tier,
		BlockedMenuItems: status.BlockedMenuItems,
		Failed:           failed,
		PassedCount:      len(status.Passed),
		Pending:          pending,
	}
}
