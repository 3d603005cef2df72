package authz

import "github.com/astro-web3/token-authorizer/internal/domain/token"

// ProjectContext filters a verified claim set down to its forwardable
// entries. Nested objects, arrays and nulls are dropped silently — a
// policy, not an error: the gateway refuses any decision whose context
// carries a non-primitive value.
func ProjectContext(claims token.ClaimSet) ContextMap {
	projected := make(ContextMap, len(claims))
	for name, value := range claims {
		if value.Primitive() {
			projected[name] = value.Export()
		}
	}
	return projected
}
