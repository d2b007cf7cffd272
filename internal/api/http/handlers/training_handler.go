package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// TrainingHandler manages journey and quiz endpoints.
type TrainingHandler struct {
	service *service.TrainingService
	quizzes *service.QuizStore
}

// NewTrainingHandler constructs handler.
func NewTrainingHandler(trainingService *service.TrainingService, quizStore *service.QuizStore) *TrainingHandler {
	return &TrainingHandler{service: trainingService, quizzes: quizStore}
}

// Journey GET /training/journey.
func (h *TrainingHandler) Journey(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.service.Journey(c.Context(), principal.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": journeyResponse(view)})
}

// Acknowledge POST /training/journey/acknowledgements.
func (h *TrainingHandler) Acknowledge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AcknowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.Acknowledge(c.Context(), principal.User.Email, req.Kind, req.Reference)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": journeyResponse(view)})
}

// AcceptInvitation POST /training/journey/invitation.
func (h *TrainingHandler) AcceptInvitation(c *fiber.Ctx) error {
	return h.ratchet(c, h.service.AcceptInvitation)
}

// CompleteVision POST /training/journey/vision.
func (h *TrainingHandler) CompleteVision(c *fiber.Ctx) error {
	return h.ratchet(c, h.service.CompleteVision)
}

// CompleteRavingFans POST /training/journey/raving-fans.
func (h *TrainingHandler) CompleteRavingFans(c *fiber.Ctx) error {
	return h.ratchet(c, h.service.CompleteRavingFans)
}

// CompleteHygiene POST /training/journey/hygiene.
func (h *TrainingHandler) CompleteHygiene(c *fiber.Ctx) error {
	return h.ratchet(c, h.service.CompleteHygiene)
}

// ResetJourney POST /training/journey/reset. Admin only, enforced at the
// route.
func (h *TrainingHandler) ResetJourney(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResetJourneyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffEmail == "" {
		return apperrors.NewValidationError("staff_email required", nil)
	}
	view, err := h.service.ResetJourney(c.Context(), req.StaffEmail, principal.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": journeyResponse(view)})
}

// LoadQuiz GET /training/quiz/:module.
func (h *TrainingHandler) LoadQuiz(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	state, err := h.quizzes.Load(c.Context(), principal.User.Email, c.Params("module"))
	if err != nil {
		return err
	}
	if state == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": state})
}

// SaveQuiz PUT /training/quiz/:module.
func (h *TrainingHandler) SaveQuiz(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.QuizStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	state := &service.QuizState{
		Module:        c.Params("module"),
		QuestionIndex: req.QuestionIndex,
		Answers:       req.Answers,
	}
	if err := h.quizzes.Save(c.Context(), principal.User.Email, state); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": state})
}

// ClearQuiz DELETE /training/quiz/:module.
func (h *TrainingHandler) ClearQuiz(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.quizzes.Clear(c.Context(), principal.User.Email, c.Params("module")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cleared": true}})
}

func (h *TrainingHandler) ratchet(c *fiber.Ctx, fn func(ctx context.Context, staffEmail string) (*service.JourneyView, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := fn(c.Context(), principal.User.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": journeyResponse(view)})
}

func journeyResponse(view *service.JourneyView) dto.JourneyResponse {
	unlocks := make(map[string]bool, len(view.Unlocks))
	for module, unlocked := range view.Unlocks {
		unlocks[string(module)] = unlocked
	}
	p := view.Progress
	return dto.JourneyResponse{
		StaffEmail:          p.StaffEmail,
		InvitationAccepted:  p.InvitationAccepted,
		VisionWatched:       p.VisionWatched,
		ValuesCompleted:     p.ValuesCompleted,
		RavingFansCompleted: p.RavingFansCompleted,
		SkillsCompleted:     p.SkillsCompleted,
		HygieneCompleted:    p.HygieneCompleted,
		Certified:           p.Certified,
		CertificateIssuedAt: p.CertificateIssuedAt,
		CurrentStep:         p.CurrentStep,
		Unlocks:             unlocks,
	}
}
