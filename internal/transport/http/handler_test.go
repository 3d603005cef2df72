package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astro-web3/token-authorizer/internal/config"
	authzdomain "github.com/astro-web3/token-authorizer/internal/domain/authz"
	"github.com/astro-web3/token-authorizer/internal/domain/token"
	httptransport "github.com/astro-web3/token-authorizer/internal/transport/http"
	"github.com/gin-gonic/gin"
)

type mockAppService struct {
	authorizeFunc func(ctx context.Context, credential, methodARN string, cacheTTL time.Duration) (*authzdomain.Decision, error)
}

func (m *mockAppService) Authorize(
	ctx context.Context,
	credential string,
	methodARN string,
	cacheTTL time.Duration,
) (*authzdomain.Decision, error) {
	if m.authorizeFunc != nil {
		return m.authorizeFunc(ctx, credential, methodARN, cacheTTL)
	}
	return authzdomain.NewDecision("user-123", authzdomain.EffectAllow,
		"arn:aws:execute-api:us-east-1:123456789012:*/*",
		authzdomain.ContextMap{"user_id": "user-123"}), nil
}

func createTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.CacheTTL = 5 * time.Minute
	return cfg
}

func newTestRouter(svc *mockAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httptransport.NewHandler(svc, createTestConfig())
	router := gin.New()
	router.Any("/authorize/*path", handler.Authorize)
	return router
}

func TestHandler_Authorize_MissingAuthorizationHeader(t *testing.T) {
	router := newTestRouter(&mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestHandler_Authorize_ValidToken(t *testing.T) {
	router := newTestRouter(&mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var decision struct {
		PrincipalID    string `json:"principalId"`
		PolicyDocument struct {
			Version   string `json:"Version"`
			Statement []struct {
				Effect string `json:"Effect"`
				Action string `json:"Action"`
			} `json:"Statement"`
		} `json:"policyDocument"`
		Context map[string]any `json:"context"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}

	if decision.PrincipalID != "user-123" {
		t.Errorf("expected principal user-123, got %q", decision.PrincipalID)
	}
	if decision.PolicyDocument.Version != "2012-10-17" {
		t.Errorf("unexpected policy version: %s", decision.PolicyDocument.Version)
	}
	if len(decision.PolicyDocument.Statement) != 1 || decision.PolicyDocument.Statement[0].Effect != "Allow" {
		t.Errorf("unexpected statements: %+v", decision.PolicyDocument.Statement)
	}
	if decision.Context["user_id"] != "user-123" {
		t.Errorf("unexpected context: %+v", decision.Context)
	}
}

func TestHandler_Authorize_UniformRejectionBody(t *testing.T) {
	// Every rejection kind must produce the same external response.
	kinds := []error{
		token.ErrMalformedCredential,
		token.ErrUnsupportedAlgorithm,
		token.ErrUnknownKey,
		token.ErrSignatureMismatch,
		token.ErrMissingRequiredClaim,
		token.ErrTokenExpired,
		token.ErrTokenNotYetValid,
		token.ErrInvalidClaimType,
	}

	var bodies []string
	for _, kind := range kinds {
		router := newTestRouter(&mockAppService{
			authorizeFunc: func(_ context.Context, _, _ string, _ time.Duration) (*authzdomain.Decision, error) {
				return nil, kind
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("kind %v: expected status %d, got %d", kind, http.StatusUnauthorized, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}

	for _, body := range bodies[1:] {
		if body != bodies[0] {
			t.Errorf("rejection bodies differ: %q vs %q", bodies[0], body)
		}
	}
}

func TestHandler_Authorize_InfrastructureError(t *testing.T) {
	router := newTestRouter(&mockAppService{
		authorizeFunc: func(_ context.Context, _, _ string, _ time.Duration) (*authzdomain.Decision, error) {
			return nil, context.DeadlineExceeded
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestHandler_Authorize_ForwardsMethodARN(t *testing.T) {
	arn := "arn:aws:execute-api:us-east-1:123456789012:api1/prod/GET/ships"

	var gotARN string
	router := newTestRouter(&mockAppService{
		authorizeFunc: func(_ context.Context, _, methodARN string, _ time.Duration) (*authzdomain.Decision, error) {
			gotARN = methodARN
			return authzdomain.NewDecision("u1", authzdomain.EffectAllow, methodARN, nil), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("X-Method-Arn", arn)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if gotARN != arn {
		t.Errorf("expected method ARN forwarded, got %q", gotARN)
	}
}

func TestHandler_Authorize_LowercaseAuthorizationHeader(t *testing.T) {
	var gotCredential string
	router := newTestRouter(&mockAppService{
		authorizeFunc: func(_ context.Context, credential, _ string, _ time.Duration) (*authzdomain.Decision, error) {
			gotCredential = credential
			return authzdomain.NewDecision("u1", authzdomain.EffectAllow, "*", nil), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/authorize/check", nil)
	req.Header.Set("authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if gotCredential != "Bearer valid-token" {
		t.Errorf("expected full credential forwarded, got %q", gotCredential)
	}
}
