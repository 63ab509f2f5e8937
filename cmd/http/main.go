package main

import (
	"context"
	"errors"
	"log"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/drivers/storage"
	"medibook-service/internal/app/services/core/bookings"
	"medibook-service/internal/app/services/core/doctors"
	"medibook-service/internal/app/services/core/session"
	"medibook-service/internal/app/services/core/users"
	"medibook-service/internal/app/services/shared/activity"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/metrics"
	"medibook-service/internal/app/services/shared/ratelimiter"
	"medibook-service/internal/app/services/shared/redis"
	sharedStorage "medibook-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoDB, err := database.NewMongoDB(startupCtx, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to MongoDB", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(startupCtx, driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to Redis", zap.Error(err))
	}

	rabbitMQ, err := messaging.NewRabbitMQ(driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to RabbitMQ", zap.Error(err))
	}

	minioClient, err := storage.NewMinio(driverConfig)
	if err != nil {
		zapLogger.Fatal("Error connecting to Minio", zap.Error(err))
	}

	chiRouter := chi.NewRouter()
	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	metrics.Register()

	notifier, exportWorker, err := bootstrapingTheApp(startupCtx, bootstrap)
	if err != nil {
		zapLogger.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	err = exportWorker.Start(workerCtx)
	if err != nil {
		zapLogger.Fatal("Error scheduling booking export", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	exportWorker.Stop()

	// activity publishes still in flight need the RabbitMQ channel
	notifier.Wait()

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error shutting down drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap config.Bootstrap) (*activity.RabbitMQNotifier, *bookings.ExportWorker, error) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Session
	sessionService := session.NewSessionService(redisRepository, bootstrap.Logger)

	// Activity
	activityChannel, err := messaging.DeclareQueue(bootstrap.RabbitMQ, bootstrap.InternalConfig.RabbitMQ.ActivityQueue)
	if err != nil {
		return nil, nil, err
	}
	activityNotifier := activity.NewRabbitMQNotifier(
		activityChannel,
		bootstrap.InternalConfig.RabbitMQ.ActivityQueue,
		time.Duration(bootstrap.InternalConfig.Booking.ActivityPublishTimeoutSeconds)*time.Second,
		bootstrap.Logger,
	)

	// Storage
	err = storage.EnsureBucket(ctx, bootstrap.Minio, bootstrap.InternalConfig.Minio.BucketName)
	if err != nil {
		return nil, nil, err
	}
	exportStorage := sharedStorage.NewMinioStorage(bootstrap.Minio)

	// Directory lookups
	doctorRepository := doctors.NewDoctorMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	userRepository := users.NewUserMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)

	// Booking
	bookingRepository := bookings.NewBookingMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	err = bookingRepository.EnsureIndexes(ctx)
	if err != nil {
		return nil, nil, err
	}
	availabilityChecker := bookings.NewSlotAvailabilityChecker(bookingRepository, bootstrap.Logger)
	createRateLimiter := ratelimiter.NewActorRateLimiter(
		bootstrap.InternalConfig.Booking.CreateRatePerMinute,
		bootstrap.InternalConfig.Booking.CreateRateBurst,
	)
	bookingUsecase := bookings.NewBookingUsecase(
		bookingRepository,
		doctorRepository,
		userRepository,
		availabilityChecker,
		sessionService,
		lockerService,
		activityNotifier,
		createRateLimiter,
		exportStorage,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	bookingController := controllers.NewBookingController(bootstrap.Logger, bookingUsecase, bootstrap.InternalConfig)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, sessionService, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, bookingController)

	// Scheduled export
	exportWorker := bookings.NewExportWorker(bootstrap.Logger, bootstrap.InternalConfig, lockerService, bookingUsecase)
	return activityNotifier, exportWorker, nil
}
