package value_objects

import "fmt"

// ScopeType is the breadth at which a role assignment applies.
type ScopeType string

const (
	ScopeGlobal     ScopeType = "global"
	ScopeBranch     ScopeType = "branch"
	ScopeDepartment ScopeType = "department"
)

var validScopeTypes = map[ScopeType]bool{
	ScopeGlobal:     true,
	ScopeBranch:     true,
	ScopeDepartment: true,
}

func NewScopeType(scopeType string) (ScopeType, error) {
	if scopeType == "" {
		return "", fmt.Errorf("scope type cannot be empty")
	}

	s := ScopeType(scopeType)
	if !validScopeTypes[s] {
		return "", fmt.Errorf("invalid scope type: %s", scopeType)
	}

	return s, nil
}

func (s ScopeType) String() string {
	return string(s)
}
