package http

import (
	"context"
	"fmt"
	"net/http"

	authzapp "github.com/astro-web3/token-authorizer/internal/app/authz"
	"github.com/astro-web3/token-authorizer/internal/config"
	authzdomain "github.com/astro-web3/token-authorizer/internal/domain/authz"
	"github.com/astro-web3/token-authorizer/internal/domain/token"
	"github.com/astro-web3/token-authorizer/internal/infra/cache"
	"github.com/astro-web3/token-authorizer/internal/infra/keysource"
	"github.com/astro-web3/token-authorizer/pkg/logger"
	"github.com/astro-web3/token-authorizer/pkg/otel"
	"github.com/astro-web3/token-authorizer/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "token-authorizer"
)

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.Config{
		ServiceName:        serviceName,
		EndpointURL:        cfg.Observability.TracingEndpointURL,
		Enabled:            cfg.Observability.TraceEnabled,
		SampleRatio:        1.0,
		Insecure:           true,
		ResourceAttributes: make(map[string]string),
	}
	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	// Keys are provisioned exactly once, before the server accepts any
	// request; the key store stays immutable afterwards.
	keys, err := keysource.Load(context.Background(), keysource.Config{
		Algorithm: cfg.Auth.Key.Algorithm,
		KeyID:     cfg.Auth.Key.KeyID,
		PEM:       cfg.Auth.Key.PEM,
		PEMFile:   cfg.Auth.Key.PEMFile,
		JWKSURL:   cfg.Auth.Key.JWKSURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load verification keys: %w", err)
	}

	keyStore := token.NewKeyStore(keys...)

	verifier, err := token.NewVerifier(keyStore, cfg.Auth.AcceptedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	validator := token.NewValidator(cfg.Auth.IdentityClaim, cfg.Auth.RequiredClaims...)
	scope := authzdomain.NewScopeBuilder(cfg.Policy.Region, cfg.Policy.AccountID)

	var decisions cache.DecisionCache
	if cfg.Redis.URL != "" {
		redisClient, redisErr := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
		if redisErr != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", redisErr)
		}
		decisions = cache.NewDecisionCache(redisClient)
	}

	domainService := authzdomain.NewService(verifier, validator, scope, decisions)
	appService := authzapp.NewService(domainService)

	handler := NewHandler(appService, cfg)
	router := NewRouter(handler, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
