package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ajling/tokenward/internal/claims"
	"github.com/ajling/tokenward/internal/config"
	"github.com/ajling/tokenward/internal/logger"
	"github.com/ajling/tokenward/internal/lookup"
	"github.com/ajling/tokenward/internal/model"
	"github.com/ajling/tokenward/internal/registry"
	"github.com/ajling/tokenward/internal/service"
	"github.com/ajling/tokenward/internal/sweeper"
	"github.com/ajling/tokenward/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// Reference wiring for the token authority. A real host embeds the session
// authority behind its own transport; this binary wires the core against
// the static user directory, runs the expiry sweeper until interrupted,
// and optionally smoke-checks the full lifecycle for each seeded user.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	var directory *lookup.Static
	if cfg.LocalUsers != "" {
		directory, err = lookup.NewStaticFromJSON([]byte(cfg.LocalUsers))
		if err != nil {
			logger.Fatal("failed to parse local user seed", "error", err)
		}
	} else {
		directory = lookup.NewStatic(nil)
	}

	tokenRegistry := registry.New()
	signer := token.NewJWT(cfg.JWT.Secret)
	builder := claims.NewBuilder(cfg.Token.Issuer, cfg.Token.TTL(), cfg.Token.DefaultScope)
	session := service.NewSession(directory, builder, tokenRegistry, signer, cfg.Token.Issuer, logger)

	sw := sweeper.New(tokenRegistry, cfg.Sweep.Interval, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw.Run(ctx)
	}()

	logger.Info("token authority ready",
		"issuer", cfg.Token.Issuer,
		"ttl", cfg.Token.TTL().String(),
		"sweep_interval", cfg.Sweep.Interval.String(),
		"build_version", buildVersion,
		"build_date", buildDate,
		"build_commit", buildCommit)

	if cfg.LocalUsers != "" {
		smokeCheck(ctx, logger, session, signer, []byte(cfg.LocalUsers))
	}

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	wg.Wait()
	logger.Info("shutdown complete")
}

// smokeCheck issues, validates, and revokes one token per seeded user so a
// misconfigured deployment fails loudly at startup.
func smokeCheck(ctx context.Context, logger *logger.Logger, session *service.Session, signer model.TokenSigner, seed []byte) {
	var users map[string][]model.User
	if err := json.Unmarshal(seed, &users); err != nil {
		logger.Error("smoke check: failed to parse seed", "error", err)
		return
	}

	for provider, list := range users {
		for _, u := range list {
			signed, err := session.Issue(ctx, provider, model.Identity{UserID: u.ID})
			if err != nil {
				logger.Error("smoke check: issue failed",
					"provider", provider,
					"user", u.ID,
					"error", err.Error())
				continue
			}

			decoded, err := signer.Verify(signed)
			if err != nil {
				logger.Error("smoke check: verify failed",
					"provider", provider,
					"user", u.ID,
					"error", err.Error())
				continue
			}

			if !session.IsLive(ctx, decoded) {
				logger.Error("smoke check: issued token not live",
					"provider", provider,
					"user", u.ID,
					"jti", decoded.ID)
				continue
			}

			if err := session.Revoke(ctx, decoded.ID); err != nil {
				logger.Error("smoke check: revoke failed",
					"jti", decoded.ID,
					"error", err.Error())
				continue
			}

			logger.Info("smoke check: lifecycle ok",
				"provider", provider,
				"user", u.ID)
		}
	}
}
