package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/monitoring"
	"taskboard/internal/repositories"
	"taskboard/internal/router"
	"taskboard/internal/services"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

type app struct {
	server *http.Server
	pool   *database.DatabasePool
	cache  *cache.RedisCache
}

func newApp(cfg *config.Config) (*app, error) {
	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        database.DefaultPoolConfig().LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Migrate(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	a := &app{pool: pool}

	userRepo := repositories.NewUserRepository(pool.DB)
	taskRepo := repositories.NewTaskRepository(pool.DB, nil)
	tokens := services.NewJWTTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	users := services.NewUserService(userRepo, services.NewPasswordHasher(cfg.Auth.BCryptCost), tokens)
	tasks := services.NewTaskService(taskRepo)
	health := monitoring.NewHealthChecker(pool.Ping)

	var summaries services.Summarizer = services.NewDashboardService(taskRepo)
	var signupLimit gin.HandlerFunc

	if cfg.Redis.Enabled {
		a.cache = cache.NewRedisCache(&cache.CacheConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := a.cache.Health(context.Background()); err != nil {
			log.Printf("[server] redis not reachable at startup, continuing: %v", err)
		}
		health.WithCache(a.cache.Health)

		if cfg.Dashboard.CacheTTL > 0 {
			cached := services.NewCachedDashboardService(summaries, a.cache, cfg.Dashboard.CacheTTL)
			summaries = cached
			tasks.WithInvalidator(cached)
		}
		if cfg.RateLimit.Enabled {
			signupLimit = middleware.RateLimit(a.cache, middleware.RateLimitConfig{
				Limit:  cfg.RateLimit.RequestsPerMin,
				Window: cfg.RateLimit.Window,
				Prefix: "ratelimit:signup",
			})
		}
	}

	engine := router.New(router.Deps{
		Identity:       services.NewIdentityGate(tokens),
		Auth:           handlers.NewAuthHandler(users),
		Users:          handlers.NewUserHandler(users),
		Tasks:          handlers.NewTaskHandler(tasks),
		Dashboard:      handlers.NewDashboardHandler(summaries),
		Health:         health,
		SignupLimit:    signupLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	a.server = &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

func (a *app) operations() map[string]gfshutdown.Operation {
	ops := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return a.server.Shutdown(ctx)
		},
		"database": func(ctx context.Context) error {
			log.Printf("[database] closing pool: %v", a.pool.Stats())
			return a.pool.Close()
		},
	}
	if a.cache != nil {
		ops["redis"] = func(ctx context.Context) error {
			log.Printf("[cache] closing redis client: %v", a.cache.Stats())
			return a.cache.Close()
		}
	}
	return ops
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	go func() {
		log.Printf("[server] listening on %s (%s, %s)", a.server.Addr, cfg.Server.Environment, cfg.Database.Driver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Server.ShutdownTimeout, a.operations())

	exitCode := <-wait
	log.Printf("[server] exited with code %d", exitCode)
	os.Exit(exitCode)
}
