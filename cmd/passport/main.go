package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/ports"
	"github.com/pfinal/passport/internal/application/token"
	"github.com/pfinal/passport/internal/config"
	domerrors "github.com/pfinal/passport/internal/domain/errors"
	infraauth "github.com/pfinal/passport/internal/infrastructure/auth"
	httprouter "github.com/pfinal/passport/internal/infrastructure/http"
	"github.com/pfinal/passport/internal/infrastructure/http/handlers"
	"github.com/pfinal/passport/internal/infrastructure/http/middleware"
	"github.com/pfinal/passport/internal/infrastructure/persistence/postgres"
	redisstore "github.com/pfinal/passport/internal/infrastructure/persistence/redis"
	"github.com/pfinal/passport/internal/infrastructure/queue"
	"github.com/pfinal/passport/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			if cfg.Token.Store == config.TokenStoreRedis {
				log.Fatal().Err(err).Msg("redis ping failed and TOKEN_STORE=redis")
			}
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	identityRepo := postgres.NewIdentityRepository(pool)

	ttl := time.Duration(cfg.Token.Expiry) * time.Second
	var tokenStore ports.TokenStore
	if cfg.Token.Store == config.TokenStoreRedis {
		tokenStore = redisstore.NewTokenStore(redisClient, ttl)
	} else {
		tokenStore = postgres.NewTokenStore(pool)
	}

	hasher, err := security.NewHasher(cfg.Password.HashType, cfg.Password.BcryptCost, security.DefaultArgon2Params())
	if err != nil {
		log.Fatal().Err(err).Msg("create password hasher")
	}

	passwordChangedAt := func(ctx context.Context, userID string) (*time.Time, error) {
		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domerrors.ErrInvalidToken
		}
		return user.ChangePasswordAt, nil
	}

	var codec ports.TokenCodec
	switch cfg.Token.Type {
	case config.TokenTypeJWT:
		codec = infraauth.NewJWTCodec([]byte(cfg.Token.JWTKey), ttl, passwordChangedAt)
	case config.TokenTypeStore:
		codec = infraauth.NewOpaqueCodec(tokenStore, ttl, log)
	}

	tokenSvc := token.NewService(userRepo, identityRepo, hasher, codec, log)

	// Scheduled sweep complements the lazy cleanup; only the postgres store
	// needs it (redis expires keys itself) and asynq needs redis.
	var sweeper *queue.Sweeper
	if cfg.Token.Type == config.TokenTypeStore && cfg.Token.Store == config.TokenStorePostgres && redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		sweeper = queue.NewSweeper(asynqOpt, tokenStore, ttl, cfg.Token.SweepInterval, log)
		go func() {
			if err := sweeper.Run(); err != nil {
				log.Warn().Err(err).Msg("token sweeper stopped")
			}
		}()
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)
	authHandler := handlers.NewAuthHandler(tokenSvc, log)
	usersHandler := handlers.NewUsersHandler(userRepo)
	requireAuth := middleware.NewAuthValidator(tokenSvc).Handler
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		HealthHandler: healthHandler,
		RequireAuth:   requireAuth,
		Log:           log,
		Secure:        secureMiddleware,
		CORS:          corsMiddleware,
		Metrics:       true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("token_type", cfg.Token.Type).
			Str("hash_type", cfg.Password.HashType).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if sweeper != nil {
		sweeper.Shutdown()
	}
	log.Info().Msg("server stopped")
}
