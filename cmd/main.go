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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/cancel_reservation"
	checkConflictsHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/check_conflicts"
	createReservationHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/create_reservation"
	decideReservationHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/decide_reservation"
	evaluateAutoApprovalHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/evaluate_auto_approval"
	expireSweepHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/expire_sweep"
	getReservationHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/get_user_reservations"
	updateFacilityStatusHandler "github.com/m04kA/LGU-ReservationService/internal/api/handlers/update_facility_status"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	"github.com/m04kA/LGU-ReservationService/internal/config"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	notificationRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/notification"
	reservationRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/reservation"
	violationRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/violation"
	mailServiceClient "github.com/m04kA/LGU-ReservationService/internal/integrations/mailservice"
	riskAdvisorClient "github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
	userServiceClient "github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	reservationsService "github.com/m04kA/LGU-ReservationService/internal/service/reservations"
	checkConflictsUC "github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
	createReservationUC "github.com/m04kA/LGU-ReservationService/internal/usecase/create_reservation"
	evaluateAutoApprovalUC "github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
	expireReservationsUC "github.com/m04kA/LGU-ReservationService/internal/usecase/expire_reservations"
	runMaintenanceCascadeUC "github.com/m04kA/LGU-ReservationService/internal/usecase/run_maintenance_cascade"
	"github.com/m04kA/LGU-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/LGU-ReservationService/pkg/logger"
	"github.com/m04kA/LGU-ReservationService/pkg/metrics"
	"github.com/m04kA/LGU-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/LGU-ReservationService/pkg/txmanager"
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

	log.Info("Starting LGU-ReservationService...")
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
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	mailClient := mailServiceClient.NewClient(
		cfg.MailService.URL,
		time.Duration(cfg.MailService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, MailService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.MailService.URL, cfg.MailService.Timeout)

	// ML-советник опционален: при выключенном клиенте движок работает
	// только по правилам
	var advisorForConflicts checkConflictsUC.RiskAdvisorClient
	var advisorForEvaluation evaluateAutoApprovalUC.RiskAdvisorClient
	if cfg.RiskAdvisor.Enabled {
		advisor := riskAdvisorClient.NewClient(
			cfg.RiskAdvisor.URL,
			time.Duration(cfg.RiskAdvisor.Timeout)*time.Second,
			metricsCollector,
			log,
		)
		advisorForConflicts = advisor
		advisorForEvaluation = advisor
		log.Info("Risk advisor client initialized (URL=%s timeout=%ds)",
			cfg.RiskAdvisor.URL, cfg.RiskAdvisor.Timeout)
	} else {
		log.Info("Risk advisor disabled, running rule-based scoring only")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository  *reservationRepo.Repository
		facilityRepository     *facilityRepo.Repository
		violationRepository    *violationRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		facilityRepository = facilityRepo.NewRepository(wrappedDB)
		violationRepository = violationRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		facilityRepository = facilityRepo.NewRepository(db)
		violationRepository = violationRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем use cases
	checkConflictsUseCase := checkConflictsUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		advisorForConflicts,
		log,
	)

	evaluateAutoApprovalUseCase := evaluateAutoApprovalUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		violationRepository,
		userClient,
		advisorForEvaluation,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		notificationRepository,
		checkConflictsUseCase,
		evaluateAutoApprovalUseCase,
		txMgr,
		cfg.Booking.AdvanceWindowDays,
		cfg.Booking.PendingTTLHours,
		log,
	)

	runMaintenanceCascadeUseCase := runMaintenanceCascadeUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		notificationRepository,
		mailClient,
		txMgr,
		cfg.Booking.HoldPendingOnMaintenance,
		log,
	)

	expireReservationsUseCase := expireReservationsUC.NewUseCase(
		reservationRepository,
		notificationRepository,
		log,
	)

	// Инициализируем сервис броней
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		notificationRepository,
		userClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	checkConflicts := checkConflictsHandler.NewHandler(checkConflictsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, metricsCollector, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	decideReservation := decideReservationHandler.NewHandler(reservationSvc, metricsCollector, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	evaluateAutoApproval := evaluateAutoApprovalHandler.NewHandler(evaluateAutoApprovalUseCase, log)
	updateFacilityStatus := updateFacilityStatusHandler.NewHandler(runMaintenanceCascadeUseCase, userClient, metricsCollector, log)
	expireSweep := expireSweepHandler.NewHandler(expireReservationsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка конфликтов и подбор альтернативных слотов
	api.HandleFunc("/conflict-checks", checkConflicts.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	// Создание заявки на бронирование (с авто-одобрением)
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение брони по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена брони владельцем
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Решение сотрудника по заявке
	protected.HandleFunc("/reservations/{reservationId}/decision", decideReservation.Handle).Methods(http.MethodPatch)

	// История броней пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Движок авто-одобрения ---
	// Пробная оценка без создания брони
	protected.HandleFunc("/auto-approval/evaluations", evaluateAutoApproval.Handle).Methods(http.MethodPost)

	// --- Управление объектами (для сотрудников) ---
	// Смена статуса объекта с каскадом по броням
	protected.HandleFunc("/facilities/{facilityId}/status", updateFacilityStatus.Handle).Methods(http.MethodPatch)

	// ============================================================
	// INTERNAL ROUTES (для планировщика, закрыты на уровне сети)
	// ============================================================

	internal := r.PathPrefix("/internal/v1").Subrouter()
	internal.HandleFunc("/maintenance/expire-sweep", expireSweep.Handle).Methods(http.MethodPost)

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
