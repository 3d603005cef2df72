package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"log/slog"

	"github.com/astro-web3/token-authorizer/internal/domain/token"
	"github.com/astro-web3/token-authorizer/internal/infra/cache"
	"github.com/astro-web3/token-authorizer/pkg/logger"
)

type Service interface {
	Authorize(
		ctx context.Context,
		credential string,
		methodARN string,
		cacheTTL time.Duration,
	) (*Decision, error)
}

type service struct {
	verifier  *token.Verifier
	validator *token.Validator
	scope     *ScopeBuilder
	decisions cache.DecisionCache
	now       func() time.Time
}

func NewService(
	verifier *token.Verifier,
	validator *token.Validator,
	scope *ScopeBuilder,
	decisions cache.DecisionCache,
) Service {
	return NewServiceWithClock(verifier, validator, scope, decisions, time.Now)
}

// NewServiceWithClock is NewService with an explicit clock, for tests.
func NewServiceWithClock(
	verifier *token.Verifier,
	validator *token.Validator,
	scope *ScopeBuilder,
	decisions cache.DecisionCache,
	now func() time.Time,
) Service {
	return &service{
		verifier:  verifier,
		validator: validator,
		scope:     scope,
		decisions: decisions,
		now:       now,
	}
}

// Authorize runs the full evaluation: parse, verify signature, validate
// claims, then assemble the decision. Any rejection short-circuits as a
// typed error from the token taxonomy; the transport maps all kinds to
// one uniform external outcome.
func (s *service) Authorize(
	ctx context.Context,
	credential string,
	methodARN string,
	cacheTTL time.Duration,
) (*Decision, error) {
	parsed, err := token.Parse(credential)
	if err != nil {
		return nil, err
	}

	// The cache key covers the method ARN: the narrowed resource makes
	// the decision per-request, not per-token.
	credHash := hashCredential(credential, methodARN)

	if s.decisions != nil {
		cached, cacheErr := s.decisions.Get(ctx, credHash)
		if cacheErr != nil && !errors.Is(cacheErr, cache.ErrCacheMiss) {
			logger.WarnContext(ctx, "decision cache read failed, verifying token",
				slog.String("error", cacheErr.Error()))
		}
		if cacheErr == nil && cached != nil {
			return NewDecision(cached.PrincipalID, EffectAllow, cached.Resource, ContextMap(cached.Context)), nil
		}
	}

	claims, err := s.verifier.Verify(parsed)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.validator.Validate(claims, now); err != nil {
		return nil, err
	}

	principal := claims[s.validator.IdentityClaim()].String()
	resource := s.scope.Resource(methodARN)
	decision := NewDecision(principal, EffectAllow, resource, ProjectContext(claims))

	if s.decisions != nil {
		if ttl := clampTTL(cacheTTL, claims, now); ttl > 0 {
			entry := &cache.CachedDecision{
				PrincipalID: decision.PrincipalID,
				Resource:    resource,
				Context:     decision.Context,
			}
			if setErr := s.decisions.Set(ctx, credHash, entry, ttl); setErr != nil {
				logger.WarnContext(ctx, "decision cache write failed",
					slog.String("error", setErr.Error()))
			}
		}
	}

	return decision, nil
}

// clampTTL caps the cache TTL at the token's remaining lifetime so a
// cached decision never outlives its token.
func clampTTL(ttl time.Duration, claims token.ClaimSet, now time.Time) time.Duration {
	exp, ok := claims[token.ClaimExpiration]
	if !ok || exp.Kind() != token.KindNumber {
		return ttl
	}
	if remaining := time.Unix(int64(exp.Number()), 0).Sub(now); remaining < ttl {
		return remaining
	}
	return ttl
}

func hashCredential(credential, methodARN string) string {
	hash := sha256.Sum256([]byte(credential + "\n" + methodARN))
	return hex.EncodeToString(hash[:])
}
