package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"taskclinic/backend/internal/config"
	"taskclinic/backend/internal/monitoring"
	"taskclinic/backend/internal/ratelimit"
	"taskclinic/backend/internal/routes"
	"taskclinic/backend/internal/services"
	"taskclinic/backend/internal/store"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	repos, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}

	health := monitoring.NewHealthChecker(5 * time.Second)
	health.Register("database", repos.Ping)

	shutdownOps := map[string]gfshutdown.Operation{
		"database": repos.Close,
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		var client *redis.Client
		limiter, client = newLimiter(cfg)
		if client != nil {
			health.Register("redis", func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
			shutdownOps["redis"] = func(context.Context) error {
				return client.Close()
			}
		}
	}

	tokens := services.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	router := routes.SetupRouter(cfg, routes.Dependencies{
		Tokens:       tokens,
		Auth:         services.NewAuthService(repos.Users, tokens, cfg.Auth.BCryptCost, services.SystemClock),
		Tasks:        services.NewTaskService(repos.Tasks, services.SystemClock),
		Appointments: services.NewAppointmentService(repos.Appointments, repos.Users, services.SystemClock),
		Doctors:      services.NewDoctorService(repos.DoctorProfiles, repos.Users, services.SystemClock),
		Limiter:      limiter,
		Metrics:      monitoring.NewMetrics(),
		Health:       health,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	shutdownOps["http-server"] = server.Shutdown

	go func() {
		log.Printf("✅ Server listening on %s (mode=%s, driver=%s)", server.Addr, cfg.App.Mode, cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.Server.ShutdownTimeout, shutdownOps)
	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// newLimiter returns the Redis fixed-window limiter behind a circuit breaker
// with an in-process fallback, or the in-process limiter alone when Redis
// is disabled.
func newLimiter(cfg *config.Config) (ratelimit.Limiter, *redis.Client) {
	local := ratelimit.NewLocalLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)
	if !cfg.Redis.Enabled {
		log.Println("⚠️ Redis disabled, rate limiting is per instance")
		return local, nil
	}

	client := ratelimit.NewRedisClient(&ratelimit.ClientConfig{
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
	breaker := ratelimit.NewCircuitBreaker(&ratelimit.BreakerConfig{
		MaxFailures:      cfg.RateLimit.BreakerFailures,
		Timeout:          cfg.RateLimit.BreakerTimeout,
		HalfOpenMaxCalls: 1,
	})
	primary := ratelimit.NewRedisLimiter(client, cfg.RateLimit.RequestsPerMin, time.Minute)
	return ratelimit.NewFallback(primary, local, breaker), client
}
