package token_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/astro-web3/token-authorizer/internal/domain/token"
)

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestParse_MissingSchemePrefix(t *testing.T) {
	credential := segment(`{"alg":"RS256"}`) + "." + segment(`{}`) + "." + segment("sig")

	if _, err := token.Parse(credential); !errors.Is(err, token.ErrMalformedCredential) {
		t.Errorf("expected ErrMalformedCredential, got %v", err)
	}
}

func TestParse_PrefixIsCaseSensitive(t *testing.T) {
	credential := "bearer " + segment(`{}`) + "." + segment(`{}`) + "." + segment("sig")

	if _, err := token.Parse(credential); !errors.Is(err, token.ErrMalformedCredential) {
		t.Errorf("expected ErrMalformedCredential, got %v", err)
	}
}

func TestParse_WrongSegmentCount(t *testing.T) {
	for _, credential := range []string{
		"Bearer " + segment(`{}`) + "." + segment(`{}`),
		"Bearer " + segment(`{}`) + "." + segment(`{}`) + "." + segment("sig") + "." + segment("extra"),
		"Bearer onlyonesegment",
	} {
		if _, err := token.Parse(credential); !errors.Is(err, token.ErrMalformedCredential) {
			t.Errorf("credential %q: expected ErrMalformedCredential, got %v", credential, err)
		}
	}
}

func TestParse_UndecodableSegment(t *testing.T) {
	credential := "Bearer " + segment(`{}`) + ".!!!not-base64!!!." + segment("sig")

	if _, err := token.Parse(credential); !errors.Is(err, token.ErrMalformedCredential) {
		t.Errorf("expected ErrMalformedCredential, got %v", err)
	}
}

func TestParse_RetainsRawSegmentsForSigning(t *testing.T) {
	rawHeader := segment(`{"alg":"RS256"}`)
	rawPayload := segment(`{"user_id":"u1"}`)
	credential := "Bearer " + rawHeader + "." + rawPayload + "." + segment("sig")

	parsed, err := token.Parse(credential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.RawHeader != rawHeader || parsed.RawPayload != rawPayload {
		t.Errorf("raw segments not preserved: %q %q", parsed.RawHeader, parsed.RawPayload)
	}
	if string(parsed.Header) != `{"alg":"RS256"}` {
		t.Errorf("unexpected decoded header: %s", parsed.Header)
	}
	if string(parsed.Payload) != `{"user_id":"u1"}` {
		t.Errorf("unexpected decoded payload: %s", parsed.Payload)
	}
	if string(parsed.Signature) != "sig" {
		t.Errorf("unexpected decoded signature: %s", parsed.Signature)
	}

	want := rawHeader + "." + rawPayload
	if string(parsed.SigningInput()) != want {
		t.Errorf("signing input mismatch: got %q want %q", parsed.SigningInput(), want)
	}
}
