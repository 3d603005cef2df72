package token

import "errors"

// Rejection taxonomy. Every kind is terminal for the request and maps to
// the same external outcome; callers discriminate with errors.Is for
// logging only.
var (
	ErrMalformedCredential  = errors.New("malformed credential")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrUnknownKey           = errors.New("no matching verification key")
	ErrSignatureMismatch    = errors.New("signature mismatch")
	ErrMissingRequiredClaim = errors.New("missing required claim")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenNotYetValid     = errors.New("token not yet valid")
	ErrInvalidClaimType     = errors.New("invalid claim type")
)

//nolint:gochecknoglobals // closed set, used only by IsRejection
var rejectionKinds = []error{
	ErrMalformedCredential,
	ErrUnsupportedAlgorithm,
	ErrUnknownKey,
	ErrSignatureMismatch,
	ErrMissingRequiredClaim,
	ErrTokenExpired,
	ErrTokenNotYetValid,
	ErrInvalidClaimType,
}

// IsRejection reports whether err is a token rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	for _, kind := range rejectionKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
