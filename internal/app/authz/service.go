package authz

import (
	"context"
	"time"

	"github.com/astro-web3/token-authorizer/internal/domain/authz"
	"github.com/astro-web3/token-authorizer/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	Authorize(
		ctx context.Context,
		credential string,
		methodARN string,
		cacheTTL time.Duration,
	) (*authz.Decision, error)
}

type service struct {
	domainService authz.Service
}

func NewService(domainService authz.Service) Service {
	return &service{
		domainService: domainService,
	}
}

func (s *service) Authorize(
	ctx context.Context,
	credential string,
	methodARN string,
	cacheTTL time.Duration,
) (*authz.Decision, error) {
	ctx, span := tracer.Start(ctx, "app.authz.Authorize")
	defer span.End()

	span.SetAttributes(
		attribute.String("credential.prefix", credentialPrefix(credential)),
		attribute.String("authz.method_arn", methodARN),
	)

	decision, err := s.domainService.Authorize(ctx, credential, methodARN, cacheTTL)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("authz.allowed", false))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("authz.allowed", true),
		attribute.String("authz.principal", decision.PrincipalID),
	)

	return decision, nil
}

const credentialPrefixLength = 12

func credentialPrefix(credential string) string {
	if len(credential) > credentialPrefixLength {
		return credential[:credentialPrefixLength] + "..."
	}
	return "***"
}
