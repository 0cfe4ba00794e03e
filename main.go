package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medischedule/config"
	"medischedule/cron"
	"medischedule/database"
	appointmentRepo "medischedule/database/repository/appointment"
	timeslotRepo "medischedule/database/repository/timeslot"
	userRepoPkg "medischedule/database/repository/user"
	"medischedule/handlers"
	"medischedule/middleware"
	"medischedule/models"
	"medischedule/routes"
	"medischedule/services/booking"
	"medischedule/services/doctor"
	"medischedule/services/notification"
	"medischedule/services/schedule"
	"medischedule/services/session"
	"medischedule/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// demoPassword is set on the sample accounts in directory auth mode.
const demoPassword = "password123"

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	utils.SetTokenSecret(config.AppConfig.JWTSecret)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var healthChecks []utils.HealthCheck

	// 1. Backing services
	var mongoDB *mongo.Database
	if config.UsesMongo() {
		mongoDB = database.InitDB()
		healthChecks = append(healthChecks, utils.HealthCheck{Name: "mongodb", Ping: database.PingMongo})
	}
	if config.UsesRedis() {
		client := utils.GetSessionCacheClient()
		healthChecks = append(healthChecks, utils.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}

	// 2. Repositories
	var slots timeslotRepo.TimeSlotRepository = timeslotRepo.NewMemoryTimeSlotRepo()
	if config.AppConfig.SlotBackend == "mongo" {
		slots = timeslotRepo.NewMongoTimeSlotRepo(mongoDB)
	}

	var users userRepoPkg.UserRepository = userRepoPkg.NewMemoryUserRepo()
	if config.AppConfig.UserBackend == "mongo" {
		users = userRepoPkg.NewMongoUserRepo(mongoDB)
	}

	var appointments appointmentRepo.AppointmentRepository = appointmentRepo.NewMemoryAppointmentRepo()
	if config.AppConfig.AppointmentBackend == "postgres" {
		pool := database.InitPostgres()
		defer pool.Close()
		appointments = appointmentRepo.NewPostgresAppointmentRepo(pool)
		healthChecks = append(healthChecks, utils.HealthCheck{Name: "postgres", Ping: database.PingPostgres})
	}

	// 3. Sessions
	var sessionStorage session.Storage = session.NewMemoryStorage()
	if config.AppConfig.SessionBackend == "redis" {
		sessionStorage = session.NewRedisStorage(utils.GetSessionCacheClient())
	}

	opts := session.Options{
		Latency: config.AppConfig.SimulatedLatency,
		TTL:     config.AppConfig.SessionTTL,
	}
	var auth session.Authenticator = session.NewDemoAuthenticator()
	if config.AppConfig.AuthMode == "directory" {
		registrar := &session.DirectoryRegistrar{Users: users}
		opts.Registrar = registrar
		auth = &session.DirectoryAuthenticator{Users: users}

		sample := session.SampleUsers()
		seeded, err := session.SeedUsers(ctx, registrar, []models.Identity{sample[models.RolePatient], sample[models.RoleDoctor]}, demoPassword)
		if err != nil {
			logger.Fatal("main: failed to seed demo accounts", zap.Error(err))
		}
		logger.Info("Demo accounts ready", zap.Int("created", seeded))
	}
	sessionManager := session.NewManager(sessionStorage, auth, opts)

	// 4. Notifications
	var notifier notification.Notifier = notification.LogNotifier{}
	var worker *asynq.Server
	if config.AppConfig.Notifier == "queue" {
		queueClient := asynq.NewClient(cron.QueueRedisOpt())
		defer queueClient.Close()
		notifier = notification.NewQueueNotifier(queueClient)
		worker = cron.StartNotificationWorker(ctx)
	}

	// 5. Services
	weekStart, err := schedule.ParseWeekday(config.AppConfig.WeekStart)
	if err != nil {
		logger.Warn("main: invalid WEEK_START, using Monday", zap.Error(err))
		weekStart = time.Monday
	}
	scheduleService := &schedule.DefaultScheduleService{Repo: slots, WeekStart: weekStart}

	directory := doctor.NewDirectory(doctor.SampleDoctors())
	bookingService := &booking.DefaultBookingService{
		Repo:          appointments,
		Grid:          slots,
		Doctors:       directory,
		Notifier:      notifier,
		SlotLatency:   config.AppConfig.SimulatedLatency,
		SubmitLatency: config.AppConfig.SimulatedLatency * 3 / 2,
	}

	// 6. Demo data and the weekly seeder
	seedCtx, cancelSeed := context.WithTimeout(ctx, 30*time.Second)
	cron.SeedDefaultWeeks(seedCtx, scheduleService, directory.IDs(), time.Now())
	sample := session.SampleUsers()
	demo := booking.SampleAppointments(directory, sample[models.RoleDoctor], sample[models.RolePatient], time.Now())
	if n, err := booking.SeedAppointments(seedCtx, appointments, demo); err != nil {
		logger.Error("main: failed to seed demo appointments", zap.Error(err))
	} else {
		logger.Info("Demo appointments ready", zap.Int("created", n))
	}
	cancelSeed()

	seeder, err := cron.StartWeeklySeeder(ctx, config.AppConfig.SeedCron, scheduleService, directory.IDs)
	if err != nil {
		logger.Fatal("main: failed to schedule weekly seeder", zap.Error(err))
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, healthChecks)

	// 7. HTTP
	limiter := middleware.NewRateLimiter(config.AppConfig.MaxRequestsPerMin)
	limiter.StartCleanup(ctx)

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(limiter))

	handlerBundle := handlers.NewHandlerBundle(
		sessionManager,
		handlers.NewAuthHandler(sessionManager, config.IsProduction()),
		handlers.NewDoctorHandler(directory, bookingService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewScheduleHandler(scheduleService),
	)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stop()
	<-seeder.Stop().Done()
	if worker != nil {
		worker.Shutdown()
	}
	database.CloseDB(shutdownCtx)
	if utils.SessionCacheClient != nil {
		_ = utils.SessionCacheClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
