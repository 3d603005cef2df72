package authz

// Effect values for a policy statement.
const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"
)

const (
	policyVersion = "2012-10-17"
	invokeAction  = "execute-api:Invoke"
)

// ContextMap carries the forwardable identity attributes of a decision.
// Entries are restricted to text, number and boolean values; the hosting
// gateway rejects the whole decision otherwise.
type ContextMap map[string]any

type Statement struct {
	Effect   string `json:"Effect"`
	Action   string `json:"Action"`
	Resource string `json:"Resource"`
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Decision is the authorizer output consumed by the hosting gateway.
type Decision struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
	Context        ContextMap     `json:"context,omitempty"`
}

// NewDecision is pure assembly; all inputs are pre-validated upstream.
func NewDecision(principal, effect, resource string, contextMap ContextMap) *Decision {
	return &Decision{
		PrincipalID: principal,
		PolicyDocument: PolicyDocument{
			Version: policyVersion,
			Statement: []Statement{{
				Effect:   effect,
				Action:   invokeAction,
				Resource: resource,
			}},
		},
		Context: contextMap,
	}
}
