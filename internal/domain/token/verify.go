package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"math/big"
)

type tokenHeader struct {
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid,omitempty"`
	Type      string `json:"typ,omitempty"`
}

type algorithm struct {
	hash crypto.Hash
	// keySize is the per-component signature size in bytes for ECDSA
	// algorithms; zero means RSA PKCS#1 v1.5.
	keySize int
}

// Only asymmetric signature algorithms are representable here, so an
// unsigned or symmetric token can never pass the accept check.
//
//nolint:gochecknoglobals // closed algorithm table
var algorithms = map[string]algorithm{
	"RS256": {hash: crypto.SHA256},
	"RS384": {hash: crypto.SHA384},
	"RS512": {hash: crypto.SHA512},
	"ES256": {hash: crypto.SHA256, keySize: 32},
	"ES384": {hash: crypto.SHA384, keySize: 48},
	"ES512": {hash: crypto.SHA512, keySize: 66},
}

// Verifier validates token signatures against an immutable key store.
// The accepted-algorithm set is fixed at construction; the check runs
// before key resolution so a downgraded header never influences which
// key is used.
type Verifier struct {
	keys     *KeyStore
	accepted map[string]algorithm
}

func NewVerifier(keys *KeyStore, acceptedAlgs []string) (*Verifier, error) {
	accepted := make(map[string]algorithm, len(acceptedAlgs))
	for _, name := range acceptedAlgs {
		alg, ok := algorithms[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
		}
		accepted[name] = alg
	}
	if len(accepted) == 0 {
		return nil, fmt.Errorf("%w: empty accept list", ErrUnsupportedAlgorithm)
	}
	return &Verifier{keys: keys, accepted: accepted}, nil
}

// Verify recomputes the token signature over the transmitted header and
// payload segments. Only when it matches is the payload decoded into a
// claim set; on any failure no claim data is ever materialized.
func (v *Verifier) Verify(parsed *ParsedToken) (ClaimSet, error) {
	var hdr tokenHeader
	if err := json.Unmarshal(parsed.Header, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header is not a JSON object", ErrMalformedCredential)
	}

	if hdr.Algorithm == "" {
		return nil, fmt.Errorf("%w: header declares no algorithm", ErrUnsupportedAlgorithm)
	}

	alg, ok := v.accepted[hdr.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, hdr.Algorithm)
	}

	key, err := v.keys.Lookup(hdr.Algorithm, hdr.KeyID)
	if err != nil {
		return nil, err
	}

	if err := verifySignature(alg, key.Public, parsed.SigningInput(), parsed.Signature); err != nil {
		return nil, err
	}

	return DecodeClaimSet(parsed.Payload)
}

func verifySignature(alg algorithm, pub crypto.PublicKey, signingInput, sig []byte) error {
	digest := alg.hash.New()
	digest.Write(signingInput)
	sum := digest.Sum(nil)

	switch key := pub.(type) {
	case *rsa.PublicKey:
		if alg.keySize != 0 {
			return fmt.Errorf("%w: RSA key provisioned for ECDSA algorithm", ErrUnknownKey)
		}
		if err := rsa.VerifyPKCS1v15(key, alg.hash, sum, sig); err != nil {
			return ErrSignatureMismatch
		}
		return nil
	case *ecdsa.PublicKey:
		if alg.keySize == 0 {
			return fmt.Errorf("%w: ECDSA key provisioned for RSA algorithm", ErrUnknownKey)
		}
		// ECDSA token signatures are the raw r || s concatenation.
		if len(sig) != 2*alg.keySize {
			return ErrSignatureMismatch
		}
		r := new(big.Int).SetBytes(sig[:alg.keySize])
		s := new(big.Int).SetBytes(sig[alg.keySize:])
		if !ecdsa.Verify(key, sum, r, s) {
			return ErrSignatureMismatch
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported key type %T", ErrUnknownKey, pub)
	}
}
