package keysource

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"log/slog"

	"github.com/astro-web3/token-authorizer/internal/domain/token"
	httpclient "github.com/astro-web3/token-authorizer/pkg/http"
	"github.com/astro-web3/token-authorizer/pkg/logger"
)

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	KeyType   string `json:"kty"`
	KeyID     string `json:"kid,omitempty"`
	Algorithm string `json:"alg,omitempty"`
	Use       string `json:"use,omitempty"`

	// RSA members
	Modulus  string `json:"n,omitempty"`
	Exponent string `json:"e,omitempty"`

	// EC members
	Curve string `json:"crv,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

func fetchJWKS(ctx context.Context, url, defaultAlg string) ([]token.Key, error) {
	var doc jwksDocument
	resp, err := httpclient.Get(ctx, url, httpclient.WithResult(&doc))
	if err != nil {
		return nil, fmt.Errorf("jwks fetch failed: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("jwks fetch failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	keys := make([]token.Key, 0, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Use != "" && k.Use != "sig" {
			continue
		}

		pub, keyErr := k.publicKey()
		if keyErr != nil {
			logger.WarnContext(ctx, "skipping unusable jwks key",
				slog.String("kid", k.KeyID),
				slog.String("error", keyErr.Error()))
			continue
		}

		alg := k.Algorithm
		if alg == "" {
			alg = defaultAlg
		}

		keys = append(keys, token.Key{Algorithm: alg, KeyID: k.KeyID, Public: pub})
	}

	if len(keys) == 0 {
		return nil, errors.New("jwks document contains no usable signing keys")
	}

	return keys, nil
}

func (k jwk) publicKey() (crypto.PublicKey, error) {
	switch k.KeyType {
	case "RSA":
		n, err := base64.RawURLEncoding.DecodeString(k.Modulus)
		if err != nil {
			return nil, fmt.Errorf("invalid modulus: %w", err)
		}
		e, err := base64.RawURLEncoding.DecodeString(k.Exponent)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent: %w", err)
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}, nil
	case "EC":
		curve, err := namedCurve(k.Curve)
		if err != nil {
			return nil, err
		}
		x, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil {
			return nil, fmt.Errorf("invalid x coordinate: %w", err)
		}
		y, err := base64.RawURLEncoding.DecodeString(k.Y)
		if err != nil {
			return nil, fmt.Errorf("invalid y coordinate: %w", err)
		}
		return &ecdsa.PublicKey{
			Curve: curve,
			X:     new(big.Int).SetBytes(x),
			Y:     new(big.Int).SetBytes(y),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported key type %q", k.KeyType)
	}
}

func namedCurve(name string) (elliptic.Curve, error) {
	switch name {
	case "P-256":
		return elliptic.P256(), nil
	case "P-384":
		return elliptic.P384(), nil
	case "P-521":
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("unsupported curve %q", name)
	}
}
