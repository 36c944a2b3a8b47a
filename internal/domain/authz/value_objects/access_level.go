package value_objects

import "fmt"

// AccessLevel qualifies a user's access to a branch.
type AccessLevel string

const (
	AccessLevelFull     AccessLevel = "full"
	AccessLevelReadOnly AccessLevel = "readonly"
)

var validAccessLevels = map[AccessLevel]bool{
	AccessLevelFull:     true,
	AccessLevelReadOnly: true,
}

func NewAccessLevel(level string) (AccessLevel, error) {
	if level == "" {
		return AccessLevelFull, nil
	}

	l := AccessLevel(level)
	if !validAccessLevels[l] {
		return "", fmt.Errorf("invalid access level: %s", level)
	}

	return l, nil
}

func (l AccessLevel) String() string {
	return string(l)
}
