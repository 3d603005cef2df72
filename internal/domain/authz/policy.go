package authz

import "fmt"

// ScopeBuilder derives the resource pattern a decision applies to. The
// fallback pattern comes from deployment configuration, never from
// request data.
type ScopeBuilder struct {
	region    string
	accountID string
}

func NewScopeBuilder(region, accountID string) *ScopeBuilder {
	return &ScopeBuilder{region: region, accountID: accountID}
}

// Resource narrows the grant to the requested method ARN when the request
// names one. Only without a method ARN does it fall back to the
// deployment-wide pattern.
func (b *ScopeBuilder) Resource(methodARN string) string {
	if methodARN != "" {
		return methodARN
	}
	return fmt.Sprintf("arn:aws:execute-api:%s:%s:*/*", b.region, b.accountID)
}
