package token

import (
	"fmt"
	"time"
)

// Standard temporal claim names.
const (
	ClaimExpiration = "exp"
	ClaimNotBefore  = "nbf"
	ClaimIssuedAt   = "iat"
)

// Validator checks a verified claim set for required-claim presence,
// temporal validity and identity claim shape. It never mutates the set.
type Validator struct {
	required      []string
	identityClaim string
}

// NewValidator builds a validator. The identity claim is always part of
// the required set.
func NewValidator(identityClaim string, required ...string) *Validator {
	names := make([]string, 0, len(required)+1)
	names = append(names, identityClaim)
	for _, name := range required {
		if name != identityClaim {
			names = append(names, name)
		}
	}
	return &Validator{required: names, identityClaim: identityClaim}
}

func (v *Validator) IdentityClaim() string { return v.identityClaim }

func (v *Validator) Validate(claims ClaimSet, now time.Time) error {
	for _, name := range v.required {
		if _, ok := claims[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredClaim, name)
		}
	}

	// exp must be strictly in the future; nbf must not be. iat is
	// informational only.
	if exp, ok := claims[ClaimExpiration]; ok {
		if exp.Kind() != KindNumber {
			return fmt.Errorf("%w: %s must be numeric", ErrInvalidClaimType, ClaimExpiration)
		}
		if !now.Before(unixTime(exp.Number())) {
			return ErrTokenExpired
		}
	}

	if nbf, ok := claims[ClaimNotBefore]; ok {
		if nbf.Kind() != KindNumber {
			return fmt.Errorf("%w: %s must be numeric", ErrInvalidClaimType, ClaimNotBefore)
		}
		if now.Before(unixTime(nbf.Number())) {
			return ErrTokenNotYetValid
		}
	}

	if id := claims[v.identityClaim]; id.Kind() != KindText && id.Kind() != KindNumber {
		return fmt.Errorf("%w: %s must be text or numeric", ErrInvalidClaimType, v.identityClaim)
	}

	return nil
}

func unixTime(seconds float64) time.Time {
	return time.Unix(int64(seconds), 0)
}
