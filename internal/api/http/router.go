package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/http/handlers"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Students       *handlers.StudentsHandler
	Staff          *handlers.StaffHandler
	Plans          *handlers.PlansHandler
	Payments       *handlers.PaymentsHandler
	Classes        *handlers.ClassesHandler
	Workouts       *handlers.WorkoutsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)

	authGroup := app.Group("/auth")
	authGroup.Get("/verify-token", cfg.Auth.VerifyToken)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyPrincipal(), cfg.Auth.ChangePassword)

	// Staff dashboard routes. Attendants share most of the dashboard;
	// staff-user management is administrator only.
	staffArea := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())

	students := staffArea.Group("/students")
	students.Post("", cfg.Students.Create)
	students.Get("", cfg.Students.List)
	students.Get("/:id", cfg.Students.Get)
	students.Put("/:id", cfg.Students.Update)
	students.Delete("/:id", auth.RequireStaffRole(domain.StaffRoleAdministrator), cfg.Students.Delete)
	students.Post("/:id/plan", cfg.Students.AssignPlan)

	plans := staffArea.Group("/plans")
	plans.Post("", auth.RequireStaffRole(domain.StaffRoleAdministrator), cfg.Plans.Create)
	plans.Get("", cfg.Plans.List)
	plans.Get("/:id", cfg.Plans.Get)
	plans.Put("/:id", auth.RequireStaffRole(domain.StaffRoleAdministrator), cfg.Plans.Update)

	payments := staffArea.Group("/payments")
	payments.Post("", cfg.Payments.Create)
	payments.Get("", cfg.Payments.List)
	payments.Get("/:id", cfg.Payments.Get)

	classes := staffArea.Group("/classes")
	classes.Post("", cfg.Classes.Create)
	classes.Get("", cfg.Classes.List)
	classes.Get("/:id", cfg.Classes.Get)
	classes.Put("/:id", cfg.Classes.Update)
	classes.Delete("/:id", cfg.Classes.Delete)

	exercises := staffArea.Group("/exercises")
	exercises.Post("", cfg.Workouts.CreateExercise)
	exercises.Get("", cfg.Workouts.ListExercises)
	exercises.Put("/:id", cfg.Workouts.UpdateExercise)
	exercises.Delete("/:id", cfg.Workouts.DeleteExercise)

	workouts := staffArea.Group("/workouts")
	workouts.Post("", cfg.Workouts.CreateWorkout)
	workouts.Get("/:id", cfg.Workouts.GetWorkout)
	workouts.Put("/:id", cfg.Workouts.UpdateWorkout)
	workouts.Delete("/:id", cfg.Workouts.DeleteWorkout)

	staffUsers := staffArea.Group("/staff", auth.RequireStaffRole(domain.StaffRoleAdministrator))
	staffUsers.Post("", cfg.Staff.Create)
	staffUsers.Get("", cfg.Staff.List)
	staffUsers.Put("/:id", cfg.Staff.Update)

	// Student portal routes.
	portal := app.Group("/portal", cfg.AuthMiddleware.Handle, auth.RequireStudent())
	portal.Get("/me", cfg.Students.Me)
	portal.Get("/payments", cfg.Students.MyPayments)
	portal.Get("/workouts", cfg.Students.MyWorkouts)
}
