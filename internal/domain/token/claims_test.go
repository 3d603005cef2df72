package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/astro-web3/token-authorizer/internal/domain/token"
)

func TestDecodeClaimSet_TagsValuesOnce(t *testing.T) {
	payload := []byte(`{
		"user_id": "ncc1701a",
		"level": 7,
		"admin": true,
		"groups": ["bridge", "engineering"],
		"profile": {"ship": "enterprise"},
		"deprecated": null
	}`)

	claims, err := token.DecodeClaimSet(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKinds := map[string]token.Kind{
		"user_id":    token.KindText,
		"level":      token.KindNumber,
		"admin":      token.KindBool,
		"groups":     token.KindOther,
		"profile":    token.KindOther,
		"deprecated": token.KindOther,
	}

	if len(claims) != len(wantKinds) {
		t.Fatalf("expected %d claims, got %d", len(wantKinds), len(claims))
	}
	for name, kind := range wantKinds {
		if claims[name].Kind() != kind {
			t.Errorf("claim %s: expected kind %v, got %v", name, kind, claims[name].Kind())
		}
	}
}

func TestDecodeClaimSet_RejectsNonObjectPayload(t *testing.T) {
	for _, payload := range []string{`[]`, `"text"`, `not json`} {
		if _, err := token.DecodeClaimSet([]byte(payload)); !errors.Is(err, token.ErrMalformedCredential) {
			t.Errorf("payload %q: expected ErrMalformedCredential, got %v", payload, err)
		}
	}
}

func TestValue_String(t *testing.T) {
	if got := token.Text("ncc1701a").String(); got != "ncc1701a" {
		t.Errorf("unexpected text rendering: %q", got)
	}
	if got := token.Number(42).String(); got != "42" {
		t.Errorf("unexpected number rendering: %q", got)
	}
	if got := token.Number(4.5).String(); got != "4.5" {
		t.Errorf("unexpected number rendering: %q", got)
	}
	if got := token.Other().String(); got != "" {
		t.Errorf("expected empty rendering for other, got %q", got)
	}
}

func TestValidate_MissingRequiredClaim(t *testing.T) {
	validator := token.NewValidator("user_id")

	claims := token.ClaimSet{"email": token.Text("kirk@example.com")}

	if err := validator.Validate(claims, time.Now()); !errors.Is(err, token.ErrMissingRequiredClaim) {
		t.Errorf("expected ErrMissingRequiredClaim, got %v", err)
	}
}

func TestValidate_AdditionalRequiredClaims(t *testing.T) {
	validator := token.NewValidator("user_id", "tenant")

	claims := token.ClaimSet{"user_id": token.Text("u1")}
	if err := validator.Validate(claims, time.Now()); !errors.Is(err, token.ErrMissingRequiredClaim) {
		t.Errorf("expected ErrMissingRequiredClaim for tenant, got %v", err)
	}

	claims["tenant"] = token.Text("acme")
	if err := validator.Validate(claims, time.Now()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Unix(1_700_000_000, 0)

	claims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"exp":     token.Number(float64(now.Add(-time.Minute).Unix())),
	}

	if err := validator.Validate(claims, now); !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_ExpirationMustBeStrictlyFuture(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Unix(1_700_000_000, 0)

	claims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"exp":     token.Number(float64(now.Unix())),
	}

	if err := validator.Validate(claims, now); !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired at exp == now, got %v", err)
	}
}

func TestValidate_NotYetValid(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Unix(1_700_000_000, 0)

	claims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"nbf":     token.Number(float64(now.Add(time.Hour).Unix())),
	}

	if err := validator.Validate(claims, now); !errors.Is(err, token.ErrTokenNotYetValid) {
		t.Errorf("expected ErrTokenNotYetValid, got %v", err)
	}
}

func TestValidate_NotBeforeEqualNowIsValid(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Unix(1_700_000_000, 0)

	claims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"nbf":     token.Number(float64(now.Unix())),
	}

	if err := validator.Validate(claims, now); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_NonNumericTemporalClaims(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Now()

	expClaims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"exp":     token.Text("tomorrow"),
	}
	if err := validator.Validate(expClaims, now); !errors.Is(err, token.ErrInvalidClaimType) {
		t.Errorf("expected ErrInvalidClaimType for textual exp, got %v", err)
	}

	nbfClaims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"nbf":     token.Bool(true),
	}
	if err := validator.Validate(nbfClaims, now); !errors.Is(err, token.ErrInvalidClaimType) {
		t.Errorf("expected ErrInvalidClaimType for boolean nbf, got %v", err)
	}
}

func TestValidate_IdentityClaimShape(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Now()

	if err := validator.Validate(token.ClaimSet{"user_id": token.Other()}, now); !errors.Is(err, token.ErrInvalidClaimType) {
		t.Errorf("expected ErrInvalidClaimType for structured identity, got %v", err)
	}
	if err := validator.Validate(token.ClaimSet{"user_id": token.Bool(true)}, now); !errors.Is(err, token.ErrInvalidClaimType) {
		t.Errorf("expected ErrInvalidClaimType for boolean identity, got %v", err)
	}
	if err := validator.Validate(token.ClaimSet{"user_id": token.Number(1138)}, now); err != nil {
		t.Errorf("numeric identity should validate, got %v", err)
	}
}

func TestValidate_IssuedAtIsInformational(t *testing.T) {
	validator := token.NewValidator("user_id")
	now := time.Unix(1_700_000_000, 0)

	// iat in the future is odd but not a hard failure.
	claims := token.ClaimSet{
		"user_id": token.Text("u1"),
		"iat":     token.Number(float64(now.Add(time.Hour).Unix())),
	}

	if err := validator.Validate(claims, now); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
