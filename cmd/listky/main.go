package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharmalakshay/listky/internal/audit"
	"github.com/sharmalakshay/listky/internal/backup"
	"github.com/sharmalakshay/listky/internal/config"
	"github.com/sharmalakshay/listky/internal/database"
	"github.com/sharmalakshay/listky/internal/handlers"
	"github.com/sharmalakshay/listky/internal/hooks"
	"github.com/sharmalakshay/listky/internal/repository"
	"github.com/sharmalakshay/listky/internal/security"
	"github.com/sharmalakshay/listky/internal/service"
	"github.com/sharmalakshay/listky/internal/session"
	"github.com/sharmalakshay/listky/internal/tracking"
)

type application struct {
	config      *config.Config
	db          *sql.DB
	authService *service.AuthService
	listService *service.ListService
	auditLogger *audit.Logger
	monitor     *audit.Monitor
	backupMgr   *backup.Manager
	server      *http.Server
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("shutdown signal received")
		cancel()
	}()

	// Background workers
	go app.backupMgr.StartAutomatedBackups(ctx, cfg.BackupInterval)
	go app.startSecurityMonitoring(ctx)

	go func() {
		slog.Info("listening", "addr", cfg.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}

// initializeApplication sets up all application components
func initializeApplication(cfg *config.Config) (*application, error) {
	db, err := database.Connect(database.Config{
		Path:          cfg.DBPath,
		EncryptionKey: cfg.DBEncryptionKey,
		MaxOpenConns:  25,
		MaxIdleConns:  5,
		MaxLifetime:   1 * time.Hour,
		MaxIdleTime:   10 * time.Minute,
	})
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	auditLogger, err := audit.NewLogger(db, cfg.AuditLogPath, cfg.AuditAsyncMode)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Lifecycle hooks: the audit logger subscribes to every event the
	// services emit.
	registry := hooks.NewRegistry()
	for _, event := range []string{
		hooks.EventUserCreated,
		hooks.EventUserLogin,
		hooks.EventUserLoginFailed,
		hooks.EventListCreated,
		hooks.EventListUpdated,
		hooks.EventListDeleted,
		hooks.EventListViewed,
	} {
		registry.Register(event, auditLogger.HookHandler())
	}

	creds := security.NewCredentialStore(cfg.PINSalt, cfg.BcryptCost)
	sessions := session.NewManager(cfg.SessionTTL)

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	viewRepo := repository.NewViewRepository(db)

	tracker := tracking.NewTracker(viewRepo, creds)

	authService := service.NewAuthService(userRepo, creds, sessions, registry)
	listService := service.NewListService(listRepo, tracker, registry)

	backupMgr, err := backup.NewManager(db, cfg.BackupDir, cfg.BackupRetentionDays)
	if err != nil {
		db.Close()
		auditLogger.Close()
		return nil, err
	}

	authHandler := &handlers.AuthHandler{Auth: authService}
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth: authHandler,
		Lists: &handlers.ListHandler{
			Lists:              listService,
			Auth:               authHandler,
			TrendingWindowDays: cfg.TrendingWindowDays,
			TrendingLimit:      cfg.TrendingLimit,
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	return &application{
		config:      cfg,
		db:          db,
		authService: authService,
		listService: listService,
		auditLogger: auditLogger,
		monitor:     audit.NewMonitor(auditLogger),
		backupMgr:   backupMgr,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

func setupLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// startSecurityMonitoring scans audit logs for brute-force patterns
func (app *application) startSecurityMonitoring(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.monitor.DetectSuspiciousActivity(); err != nil {
				slog.Error("security monitoring failed", "error", err)
			}
		}
	}
}

// cleanup performs cleanup operations
func (app *application) cleanup() {
	slog.Info("shutting down")

	if app.auditLogger != nil {
		app.auditLogger.Close()
	}

	if app.db != nil {
		app.db.Close()
	}
}
