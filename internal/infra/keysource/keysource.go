package keysource

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/astro-web3/token-authorizer/internal/domain/token"
)

// Config names one trusted key source. Exactly one of JWKSURL, PEMFile or
// PEM is expected; they are tried in that order.
type Config struct {
	Algorithm string
	KeyID     string
	PEM       string
	PEMFile   string
	JWKSURL   string
}

// Load resolves the configured key material into key-store entries. It
// runs once at startup; the core never refetches or rotates keys.
func Load(ctx context.Context, cfg Config) ([]token.Key, error) {
	switch {
	case cfg.JWKSURL != "":
		return fetchJWKS(ctx, cfg.JWKSURL, cfg.Algorithm)
	case cfg.PEMFile != "":
		data, err := os.ReadFile(cfg.PEMFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		return pemKey(data, cfg)
	case cfg.PEM != "":
		return pemKey([]byte(cfg.PEM), cfg)
	default:
		return nil, errors.New("no verification key configured")
	}
}

func pemKey(data []byte, cfg Config) ([]token.Key, error) {
	pub, err := parsePublicKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return []token.Key{{Algorithm: cfg.Algorithm, KeyID: cfg.KeyID, Public: pub}}, nil
}

func parsePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block in key material")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err == nil {
		return pub, nil
	}

	// Older tooling emits PKCS#1 RSA public keys.
	if rsaPub, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes); pkcs1Err == nil {
		return rsaPub, nil
	}

	return nil, fmt.Errorf("failed to parse public key: %w", err)
}
