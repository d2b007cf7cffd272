package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/http/handlers"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Access         *handlers.AccessHandler
	CCP            *handlers.CCPHandler
	Training       *handlers.TrainingHandler
	Safety         *handlers.SafetyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/onboarding/complete", cfg.Auth.CompleteOnboarding)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	// Access decisions run with optional auth: unauthenticated requests
	// still get a decision (redirect_login for guarded pages).
	app.Get("/access/:page", cfg.AuthMiddleware.Optional, cfg.Access.Decide)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/mode", cfg.Access.GetMode)
	protected.Put("/mode", cfg.Access.SwitchMode)

	ccps := protected.Group("/ccps")
	ccps.Get("", cfg.CCP.ListCCPs)
	ccps.Post("", auth.RequireManagerial(), cfg.CCP.CreateCCP)
	ccps.Patch("/:id/retire", auth.RequireManagerial(), cfg.CCP.RetireCCP)
	ccps.Post("/:id/checks", cfg.CCP.RecordCheck)

	protected.Get("/service-status", cfg.CCP.ServiceStatus)

	training := protected.Group("/training")
	training.Get("/journey", cfg.Training.Journey)
	training.Post("/journey/acknowledgements", cfg.Training.Acknowledge)
	training.Post("/journey/invitation", cfg.Training.AcceptInvitation)
	training.Post("/journey/vision", cfg.Training.CompleteVision)
	training.Post("/journey/raving-fans", cfg.Training.CompleteRavingFans)
	training.Post("/journey/hygiene", cfg.Training.CompleteHygiene)
	training.Post("/journey/reset", auth.RequireRole(domain.RoleAdmin), cfg.Training.ResetJourney)
	training.Get("/quiz/:module", cfg.Training.LoadQuiz)
	training.Put("/quiz/:module", cfg.Training.SaveQuiz)
	training.Delete("/quiz/:module", cfg.Training.ClearQuiz)

	staff := protected.Group("/staff/:email")
	staff.Get("/safety-score", cfg.Safety.Latest)
	staff.Get("/safety-score/history", cfg.Safety.History)
	staff.Post("/safety-score/recompute", auth.RequireRole(domain.RoleOwner, domain.RoleAdmin), cfg.Safety.Recompute)
}
