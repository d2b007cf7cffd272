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

// SafetyHandler exposes safety score snapshots.
type SafetyHandler struct {
	service *service.SafetyService
}

// NewSafetyHandler constructs handler.
func NewSafetyHandler(safetyService *service.SafetyService) *SafetyHandler {
	return &SafetyHandler{service: safetyService}
}

// Latest GET /staff/:email/safety-score. Staff may read their own score;
// managerial roles may read anyone's.
func (h *SafetyHandler) Latest(c *fiber.Ctx) error {
	email, err := h.authorizeStaffParam(c)
	if err != nil {
		return err
	}
	score, err := h.service.Latest(c.Context(), email)
	if err != nil {
		return err
	}
	if score == nil {
		// Not an error: the score simply has not been computed yet.
		return c.JSON(fiber.Map{"data": nil, "status": "no_score_available"})
	}
	return c.JSON(fiber.Map{"data": scoreResponse(score)})
}

// History GET /staff/:email/safety-score/history.
func (h *SafetyHandler) History(c *fiber.Ctx) error {
	email, err := h.authorizeStaffParam(c)
	if err != nil {
		return err
	}
	scores, err := h.service.History(c.Context(), email, c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	items := make([]dto.SafetyScoreResponse, 0, len(scores))
	for i := range scores {
		items = append(items, scoreResponse(&scores[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Recompute POST /staff/:email/safety-score/recompute. Owner/admin only,
// enforced at the route.
func (h *SafetyHandler) Recompute(c *fiber.Ctx) error {
	var req dto.RecomputeScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	score, err := h.service.Recompute(c.Context(), c.Params("email"), gating.SafetyInputs{
		CoursesCompleted:  req.CoursesCompleted,
		CoursesRequired:   req.CoursesRequired,
		ChecksPassed:      req.ChecksPassed,
		ChecksPerformed:   req.ChecksPerformed,
		MissedChecks:      req.MissedChecks,
		ScheduledChecks:   req.ScheduledChecks,
		CriticalIncidents: req.CriticalIncidents,
		MajorIncidents:    req.MajorIncidents,
		MinorIncidents:    req.MinorIncidents,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": scoreResponse(score)})
}

func (h *SafetyHandler) authorizeStaffParam(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	email := c.Params("email")
	if principal.User.Role == domain.RoleStaff && principal.User.Email != email {
		return "", apperrors.NewForbidden("staff may only view their own score", nil)
	}
	return email, nil
}

func scoreResponse(score *domain.StaffSafetyScore) dto.SafetyScoreResponse {
	return dto.SafetyScoreResponse{
		StaffEmail:              score.StaffEmail,
		CalculationDate:         score.CalculationDate,
		OverallSafetyScore:      score.OverallSafetyScore,
		SafetyGrade:             score.SafetyGrade,
		TrainingCompletionScore: score.TrainingCompletionScore,
		CCPAccuracyPercentage:   score.CCPAccuracyPercentage,
		MissedChecksPercentage:  score.MissedChecksPercentage,
		IncidentInvolvement:     score.IncidentInvolvement,
		TotalIncidents:          score.TotalIncidents,
		CriticalIncidents:       score.CriticalIncidents,
		MajorIncidents:          score.MajorIncidents,
		MinorIncidents:          score.MinorIncidents,
		PromotionReady:          score.PromotionReady,
		ShiftLeaderEligible:     score.ShiftLeaderEligible,
		ExtraTrainingRequired:   score.ExtraTrainingRequired,
	}
}
