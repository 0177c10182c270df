package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fitcore/gym-service/internal/api/http"
	"github.com/fitcore/gym-service/internal/api/http/handlers"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/config"
	"github.com/fitcore/gym-service/internal/events"
	"github.com/fitcore/gym-service/internal/observability"
	"github.com/fitcore/gym-service/internal/persistence"
	"github.com/fitcore/gym-service/internal/repository"
	"github.com/fitcore/gym-service/internal/service"
	"github.com/fitcore/gym-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	studentRepo := repository.NewStudentRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	workoutRepo := repository.NewWorkoutRepository(pool)
	exerciseRepo := repository.NewExerciseRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StudentRepo:       studentRepo,
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
		Cache:             redis,
		Dispatcher:        dispatcher,
	})
	memberService := service.NewMemberService(*cfg, service.MemberDependencies{
		StudentRepo: studentRepo,
		StaffRepo:   staffRepo,
		PlanRepo:    planRepo,
		Cache:       redis,
		Dispatcher:  dispatcher,
	})
	billingService := service.NewBillingService(service.BillingDependencies{
		PaymentRepo: paymentRepo,
		StudentRepo: studentRepo,
		PlanRepo:    planRepo,
		Dispatcher:  dispatcher,
	})
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		ClassRepo:  classRepo,
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
	})
	workoutService := service.NewWorkoutService(service.WorkoutDependencies{
		WorkoutRepo:  workoutRepo,
		ExerciseRepo: exerciseRepo,
		StudentRepo:  studentRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), studentRepo, staffRepo, redis)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, authMiddleware),
		Students:       handlers.NewStudentsHandler(memberService, billingService, workoutService),
		Staff:          handlers.NewStaffHandler(memberService),
		Plans:          handlers.NewPlansHandler(planRepo),
		Payments:       handlers.NewPaymentsHandler(billingService),
		Classes:        handlers.NewClassesHandler(scheduleService),
		Workouts:       handlers.NewWorkoutsHandler(workoutService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
