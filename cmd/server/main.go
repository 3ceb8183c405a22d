package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appointmentrepo "clinic-access-core/internal/appointment/repository"
	"clinic-access-core/internal/audit"
	auditrepo "clinic-access-core/internal/audit/repository"
	"clinic-access-core/internal/config"
	"clinic-access-core/internal/db"
	"clinic-access-core/internal/identity"
	membershipcache "clinic-access-core/internal/membership/cache"
	membershiprepo "clinic-access-core/internal/membership/repository"
	membershipservice "clinic-access-core/internal/membership/service"
	orgrepo "clinic-access-core/internal/organization/repository"
	orgservice "clinic-access-core/internal/organization/service"
	patientrepo "clinic-access-core/internal/patient/repository"
	"clinic-access-core/internal/platform/guard"
	professionalrepo "clinic-access-core/internal/professional/repository"
	projectrepo "clinic-access-core/internal/project/repository"
	"clinic-access-core/internal/security"
	"clinic-access-core/internal/server"
	"clinic-access-core/internal/telemetry/otel"
	userrepo "clinic-access-core/internal/user/repository"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "clinic-access-core").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "clinic-access-core", cfg.Env != "production")
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry")
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatal().Err(err).Msg("jwt private key")
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatal().Err(err).Msg("jwt public key")
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	resolver := identity.NewResolver(tokens)

	memberships := membershiprepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn), nil, log)

	// The guard reads memberships through the bounded-TTL cache when
	// Redis is configured, straight from Postgres otherwise.
	var source guard.MembershipSource = memberships
	var invalidator membershipservice.Invalidator
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		cache, err := membershipcache.New(memberships, rdb, cfg.CacheTTL(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("membership cache")
		}
		source = cache
		invalidator = cache
	}

	g := guard.New(resolver, source, auditLogger, cfg.GuardLookupTimeout(), log)

	router := server.NewRouter(server.Deps{
		Guard:         g,
		Identities:    resolver,
		DB:            conn,
		Patients:      patientrepo.NewPostgresRepository(conn),
		Professionals: professionalrepo.NewPostgresRepository(conn),
		Appointments:  appointmentrepo.NewPostgresRepository(conn),
		Projects:      projectrepo.NewPostgresRepository(conn),
		AuditLogs:     auditrepo.NewPostgresRepository(conn),
		Organizations: orgservice.NewService(orgrepo.NewPostgresRepository(conn), memberships, auditLogger),
		Memberships:   membershipservice.NewService(memberships, userrepo.NewPostgresRepository(conn), invalidator, auditLogger),
		Log:           log,
	})

	srv := server.New(cfg.HTTPAddr, router, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
