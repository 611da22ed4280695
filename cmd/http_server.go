package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/attendance"
	attendancepg "github.com/mfadhilr/office-management/internal/attendance/postgres"
	"github.com/mfadhilr/office-management/internal/auth"
	authpg "github.com/mfadhilr/office-management/internal/auth/postgres"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
	employeepg "github.com/mfadhilr/office-management/internal/employee/postgres"
	"github.com/mfadhilr/office-management/internal/inventory"
	inventorypg "github.com/mfadhilr/office-management/internal/inventory/postgres"
	"github.com/mfadhilr/office-management/internal/leave"
	leavepg "github.com/mfadhilr/office-management/internal/leave/postgres"
	"github.com/mfadhilr/office-management/internal/procurement"
	procurementpg "github.com/mfadhilr/office-management/internal/procurement/postgres"
	"github.com/mfadhilr/office-management/internal/task"
	taskpg "github.com/mfadhilr/office-management/internal/task/postgres"
	"github.com/mfadhilr/office-management/internal/transport"
	"github.com/mfadhilr/office-management/internal/transport/rest"
	"github.com/mfadhilr/office-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	if err := validateOpenAPISpec(config.Server.OpenAPIPath); err != nil {
		return nil, fmt.Errorf("openapi spec: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}

	lateThreshold, err := attendance.ParseThreshold(config.Attendance.LateThreshold)
	if err != nil {
		return nil, fmt.Errorf("attendance config: %w", err)
	}

	bus := events.NewEventBus(log)
	registerEventHandlers(bus, log)

	baseHandler := transport.NewBaseHandler(log)
	rbac := auth.NewRBACAuthorization(log)

	tokens := &auth.JWTTokenGenerator{
		AccessTokenSecret:  []byte(config.Security.AccessTokenSecret),
		RefreshTokenSecret: []byte(config.Security.RefreshTokenSecret),
		AccessTokenTTL:     config.Security.AccessTokenDuration,
		RefreshTokenTTL:    config.Security.RefreshTokenDuration,
	}

	authService := auth.NewService(authpg.NewUserRepository(gormDB), tokens, config.Security.BCryptCost, log)

	employeeRepo := employeepg.NewEmployeeRepository(gormDB)
	leaveRepo := leavepg.NewLeaveRepository(gormDB)

	employeeService := employee.NewService(employeeRepo, bus, log)
	leaveService := leave.NewService(leaveRepo, employeeRepo, bus, log)
	procurementService := procurement.NewService(procurementpg.NewProcurementRepository(gormDB), employeeRepo, bus, log)
	inventoryService := inventory.NewService(inventorypg.NewInventoryRepository(gormDB), employeeRepo, log)
	taskService := task.NewService(taskpg.NewTaskRepository(gormDB), bus, log)
	attendanceService := attendance.NewService(attendancepg.NewAttendanceRepository(gormDB), employeeRepo, leaveRepo, bus, lateThreshold, log)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(baseHandler, authService),
		Employee:    employee.NewHandler(baseHandler, employeeService),
		Leave:       leave.NewHandler(baseHandler, leaveService),
		Procurement: procurement.NewHandler(baseHandler, procurementService),
		Inventory:   inventory.NewHandler(baseHandler, inventoryService),
		Task:        task.NewHandler(baseHandler, taskService),
		Attendance:  attendance.NewHandler(baseHandler, attendanceService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, rbac, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// validateOpenAPISpec fails startup when the published contract does not
// parse, so a broken spec never ships behind a healthy server.
func validateOpenAPISpec(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
