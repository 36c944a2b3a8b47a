package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/infrastructure/auth"
	"sentra/internal/infrastructure/cache"
	"sentra/internal/infrastructure/config"
	"sentra/internal/infrastructure/database"
	"sentra/internal/infrastructure/repository"
	"sentra/internal/interfaces/cli/migrate"
	httpRouter "sentra/internal/interfaces/http"
	shareddb "sentra/internal/shared/db"
	"sentra/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the authorization service with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration and seeding on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting server", "environment", env, "auto-migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	log := logger.NewLogger()

	if autoMigrate {
		if err := migrate.Run(database.Get(), log); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to initialize redis", "error", err)
	}
	defer redisClient.Close()

	db := database.Get()
	txManager := shareddb.NewTransactionManager(db)

	snapshots := cache.NewRedisSnapshotCache(
		redisClient,
		time.Duration(cfg.Authz.SnapshotTTLMinutes)*time.Minute,
		time.Duration(cfg.Authz.SnapshotJitterMinutes)*time.Minute,
		log,
	)
	scopeStore := cache.NewRedisActiveScopeStore(redisClient, log)

	roleRepo := repository.NewRoleRepository(db, log)
	permissionRepo := repository.NewPermissionRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	branchAccessRepo := repository.NewBranchAccessRepository(db, log)
	branchRepo := repository.NewBranchRepository(db, log)
	departmentRepo := repository.NewDepartmentRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)

	effective := appauthz.NewEffectivePermissionService(assignmentRepo, roleRepo, branchAccessRepo, snapshots, log)
	sessionService := appauthz.NewSessionService(scopeStore, branchRepo, effective, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	router := httpRouter.NewRouter(httpRouter.Deps{
		ServerConfig:      &cfg.Server,
		JWTService:        jwtService,
		RoleService:       appauthz.NewRoleService(roleRepo, permissionRepo, assignmentRepo, snapshots, log),
		PermissionService: appauthz.NewPermissionService(permissionRepo, log),
		AssignmentService: appauthz.NewAssignmentService(assignmentRepo, roleRepo, userRepo, branchRepo, departmentRepo, txManager, snapshots, log),
		AccessService:     appauthz.NewBranchAccessService(branchAccessRepo, branchRepo, userRepo, scopeStore, txManager, snapshots, log),
		DepartmentService: appauthz.NewDepartmentService(departmentRepo, log),
		Effective:         effective,
		SessionService:    sessionService,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
