package main

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"usermgmt/internal/config"
	"usermgmt/internal/controllers"
	"usermgmt/internal/database"
	"usermgmt/internal/logger"
	"usermgmt/internal/repository"
	"usermgmt/internal/server"
	"usermgmt/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	// Connect the configured store
	userRepo, closer, err := newUserRepository(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize %s user store: %w", cfg.StoreDriver, err)
	}
	defer closer.Close()

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.BcryptCost)

	// Initialize controllers
	userController := controllers.NewUserController(userService, log)

	router := server.NewRouter(userController, log)

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Server starting")
	return router.Run(":" + cfg.Port)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newUserRepository(cfg *config.Config, log zerolog.Logger) (repository.UserRepository, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewUserRepository(db), db, nil

	case config.StoreDriverRedis:
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisUserRepository(client), client, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory user store; data is lost on restart")
		return repository.NewMemoryUserRepository(), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
