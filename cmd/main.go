package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	evaluateBalanceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/evaluate_balance"
	getBusinessReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_business_reservations"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_user_reservations"
	getWalletHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_wallet"
	payReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/pay_reservation"
	sweepExpiredHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/sweep_expired"
	topupWalletHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/topup_wallet"
	updateStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	auditRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/audit"
	ledgerRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/ledger"
	policyRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	notifyServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	paymentServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	walletService "github.com/m04kA/SMC-ReservationService/internal/service/wallet"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	evaluateBalanceUC "github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_balance"
	evaluateBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_booking"
	sweepExpiredUC "github.com/m04kA/SMC-ReservationService/internal/usecase/sweep_expired"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PaymentService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		policyRepository      *policyRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		ledgerRepository      *ledgerRepo.Repository
		auditRepository       *auditRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &evaluateBookingUC.RealTimeProvider{}

	// Инициализируем use cases
	evaluateBookingUseCase := evaluateBookingUC.New(
		reservationRepository,
		scheduleRepository,
		policyRepository,
		timeProvider,
		log,
	)

	createReservationUseCase := createReservationUC.New(
		evaluateBookingUseCase,
		reservationRepository,
		auditRepository,
		txMgr,
		log,
	)

	evaluateBalanceUseCase := evaluateBalanceUC.New(ledgerRepository, log)

	sweepExpiredUseCase := sweepExpiredUC.New(
		reservationRepository,
		auditRepository,
		paymentClient,
		notifyClient,
		txMgr,
		timeProvider,
		log,
	)

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		policyRepository,
		ledgerRepository,
		auditRepository,
		paymentClient,
		notifyClient,
		txMgr,
		timeProvider,
		log,
	)
	walletSvc := walletService.NewService(
		ledgerRepository,
		reservationRepository,
		auditRepository,
		notifyClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	updateReservationStatus := updateStatusHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationsSvc, log)
	topupWallet := topupWalletHandler.NewHandler(walletSvc, log)
	getWallet := getWalletHandler.NewHandler(walletSvc, log)
	payReservation := payReservationHandler.NewHandler(walletSvc, log)
	evaluateBalance := evaluateBalanceHandler.NewHandler(evaluateBalanceUseCase, log)
	sweepExpired := sweepExpiredHandler.NewHandler(sweepExpiredUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Внутренние роуты (доступны только из внутренней сети)
	internal := r.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/sweep", sweepExpired.Handle).Methods(http.MethodPost)

	// API prefix, все роуты требуют X-User-ID header
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Бронирования ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reference}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reference}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reference}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reference}/pay", payReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/me/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Бизнес ---
	api.HandleFunc("/businesses/{businessId}/reservations", getBusinessReservations.Handle).Methods(http.MethodGet)

	// --- Кошелёк ---
	api.HandleFunc("/wallet", getWallet.Handle).Methods(http.MethodGet)
	api.HandleFunc("/wallet/top-up", topupWallet.Handle).Methods(http.MethodPost)
	api.HandleFunc("/balance/evaluate", evaluateBalance.Handle).Methods(http.MethodPost)

	// Планировщик уборки истёкших бронирований
	var scheduler gocron.Scheduler
	if cfg.Sweeper.Enabled {
		scheduler, err = gocron.NewScheduler()
		if err != nil {
			log.Fatal("Failed to create sweeper scheduler: %v", err)
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute),
			gocron.NewTask(func() {
				report, err := sweepExpiredUseCase.Execute(context.Background(), sweepExpiredUC.Request{
					ExpirationHours: cfg.Sweeper.ExpirationHours,
					Notify:          cfg.Sweeper.Notify,
				})
				if err != nil {
					log.Error("Scheduled sweep failed: %v", err)
					return
				}
				if metricsCollector != nil {
					metricsCollector.ObserveSweep(report.CancelledCount, report.FailedCount, report.TotalAmountReleased)
				}
			}),
		)
		if err != nil {
			log.Fatal("Failed to schedule sweeper job: %v", err)
		}

		scheduler.Start()
		log.Info("Expiration sweeper scheduled every %d minutes (expiration=%dh)",
			cfg.Sweeper.IntervalMinutes, cfg.Sweeper.ExpirationHours)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Error("Failed to shut down sweeper scheduler: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
