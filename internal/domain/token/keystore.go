package token

import (
	"crypto"
	"fmt"
)

// Key pairs a public key with the algorithm it was provisioned for. Keys
// are supplied at startup by a trusted source, never derived from request
// data.
type Key struct {
	Algorithm string
	KeyID     string
	Public    crypto.PublicKey
}

// KeyStore holds the trusted verification keys for the process lifetime.
// It is immutable after construction and safe for concurrent lookups.
type KeyStore struct {
	keys []Key
}

func NewKeyStore(keys ...Key) *KeyStore {
	owned := make([]Key, len(keys))
	copy(owned, keys)
	return &KeyStore{keys: owned}
}

// Lookup resolves a key by algorithm, and additionally by key ID when the
// token header names one. A key without a KeyID matches any kid for its
// algorithm.
func (s *KeyStore) Lookup(alg, kid string) (Key, error) {
	for _, k := range s.keys {
		if k.Algorithm != alg {
			continue
		}
		if kid != "" && k.KeyID != "" && k.KeyID != kid {
			continue
		}
		return k, nil
	}
	return Key{}, fmt.Errorf("%w: alg=%s kid=%s", ErrUnknownKey, alg, kid)
}
