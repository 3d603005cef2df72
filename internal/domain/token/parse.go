package token

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SchemePrefix is matched case-sensitively at the start of a credential.
const SchemePrefix = "Bearer "

const segmentCount = 3

// ParsedToken holds the three decoded token segments. The raw header and
// payload text is kept as well: the signature was computed over the
// pre-decode form, so the verifier needs it verbatim.
type ParsedToken struct {
	RawHeader  string
	RawPayload string
	Header     []byte
	Payload    []byte
	Signature  []byte
}

// SigningInput returns the exact byte string the token signature covers.
func (p *ParsedToken) SigningInput() []byte {
	return []byte(p.RawHeader + "." + p.RawPayload)
}

// Parse splits a raw credential into its token segments and decodes each
// from its wire encoding. No claim content is interpreted here.
func Parse(credential string) (*ParsedToken, error) {
	if !strings.HasPrefix(credential, SchemePrefix) {
		return nil, fmt.Errorf("%w: missing scheme prefix", ErrMalformedCredential)
	}

	parts := strings.Split(credential[len(SchemePrefix):], ".")
	if len(parts) != segmentCount {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrMalformedCredential, segmentCount, len(parts))
	}

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header segment is not valid base64url", ErrMalformedCredential)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload segment is not valid base64url", ErrMalformedCredential)
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature segment is not valid base64url", ErrMalformedCredential)
	}

	return &ParsedToken{
		RawHeader:  parts[0],
		RawPayload: parts[1],
		Header:     header,
		Payload:    payload,
		Signature:  signature,
	}, nil
}
