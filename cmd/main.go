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

	autoExpireHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/auto_expire"
	checkExtensionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/check_extension"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	extendBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/extend_booking"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getOrganizationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_organization"
	getOrganizationBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_organization_bookings"
	getParkingLotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_parking_lots"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	payPenaltyHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/pay_penalty"
	recordEntryHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/record_entry"
	updateBookingStatusHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_booking_status"
	updateOrganizationHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_organization"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	organizationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
	paymentGatewayClient "github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	qrServiceClient "github.com/m04kA/SMC-ParkingService/internal/integrations/qrservice"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	inventoryService "github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	organizationsService "github.com/m04kA/SMC-ParkingService/internal/service/organizations"
	autoExpireUC "github.com/m04kA/SMC-ParkingService/internal/usecase/auto_expire"
	checkExtensionUC "github.com/m04kA/SMC-ParkingService/internal/usecase/check_extension"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	extendBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
	payPenaltyUC "github.com/m04kA/SMC-ParkingService/internal/usecase/pay_penalty"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
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

	log.Info("Starting SMC-ParkingService...")
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
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	qrClient := qrServiceClient.NewClient(
		cfg.QRService.URL,
		time.Duration(cfg.QRService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PaymentGateway=%s timeout=%ds, QRService=%s timeout=%ds)",
		cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout, cfg.QRService.URL, cfg.QRService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		organizationRepository *organizationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		organizationRepository = organizationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		organizationRepository = organizationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotInventory := inventoryService.NewService(
		bookingRepository,
		organizationRepository,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		organizationRepository,
		qrClient,
		&bookingsService.RealTimeProvider{},
		log,
	)
	organizationSvc := organizationsService.NewService(
		organizationRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		organizationRepository,
		slotInventory,
		gatewayClient,
		txMgr,
		log,
	)
	checkExtensionUseCase := checkExtensionUC.NewUseCase(
		bookingRepository,
		organizationRepository,
		slotInventory,
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(
		bookingRepository,
		organizationRepository,
		slotInventory,
		gatewayClient,
		txMgr,
		log,
	)
	autoExpireUseCase := autoExpireUC.NewUseCase(
		bookingRepository,
		organizationRepository,
		txMgr,
		log,
	)
	payPenaltyUseCase := payPenaltyUC.NewUseCase(
		bookingRepository,
		organizationRepository,
		slotInventory,
		gatewayClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	checkExtension := checkExtensionHandler.NewHandler(checkExtensionUseCase, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	autoExpire := autoExpireHandler.NewHandler(autoExpireUseCase, log)
	payPenalty := payPenaltyHandler.NewHandler(payPenaltyUseCase, log)
	recordEntry := recordEntryHandler.NewHandler(bookingSvc, log)
	getParkingLots := getParkingLotsHandler.NewHandler(slotInventory, log)
	getOrganization := getOrganizationHandler.NewHandler(organizationSvc, log)
	updateOrganization := updateOrganizationHandler.NewHandler(organizationSvc, log)
	getOrganizationBookings := getOrganizationBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Карточка организации с парковками
	api.HandleFunc("/organizations/{organizationId}",
		getOrganization.Handle).Methods(http.MethodGet)

	// Доступность парковок организации
	api.HandleFunc("/organizations/{organizationId}/parking-lots",
		getParkingLots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Перевод просроченных бронирований в overstay (внутренний endpoint)
	protected.HandleFunc("/bookings/auto-expire", autoExpire.Handle).Methods(http.MethodPost)

	// Оплата штрафа с опциональным повторным бронированием
	protected.HandleFunc("/bookings/pay-penalty-and-rebook/{bookingId}", payPenalty.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/bookings/user/{userId}", getUserBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Смена статуса: отмена, завершение, фиксация въезда
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPut)

	// Проверка возможности продления
	protected.HandleFunc("/bookings/{bookingId}/check-extension", checkExtension.Handle).Methods(http.MethodPost)

	// Продление бронирования на том же слоте
	protected.HandleFunc("/bookings/{bookingId}/extend", extendBooking.Handle).Methods(http.MethodPut)

	// Фиксация въезда (сканирование QR на шлагбауме)
	protected.HandleFunc("/bookings/{bookingId}/entry", recordEntry.Handle).Methods(http.MethodPost)

	// --- Управление организацией (для сотрудников) ---
	// Список бронирований организации
	protected.HandleFunc("/organizations/{organizationId}/bookings", getOrganizationBookings.Handle).Methods(http.MethodGet)

	// Обновление тарифа и правил парковки
	protected.HandleFunc("/organizations/{organizationId}", updateOrganization.Handle).Methods(http.MethodPut)

	// Фоновый обход просроченных бронирований
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	if cfg.Sweep.Enabled {
		interval := time.Duration(cfg.Sweep.IntervalSeconds) * time.Second
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if _, err := autoExpireUseCase.Execute(sweepCtx); err != nil {
						log.Error("Sweep: failed to expire bookings: %v", err)
					}
				}
			}
		}()
		log.Info("Overstay sweep started with interval %s", interval)
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

	// Останавливаем фоновый обход
	stopSweep()

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
