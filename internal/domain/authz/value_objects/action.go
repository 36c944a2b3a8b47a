package value_objects

import "fmt"

type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

var validActions = map[Action]bool{
	ActionView:    true,
	ActionCreate:  true,
	ActionEdit:    true,
	ActionDelete:  true,
	ActionApprove: true,
	ActionExport:  true,
}

func NewAction(action string) (Action, error) {
	if action == "" {
		return "", fmt.Errorf("action cannot be empty")
	}

	a := Action(action)
	if !validActions[a] {
		return "", fmt.Errorf("invalid action: %s", action)
	}

	return a, nil
}

// AllActions returns every known action in a stable order.
func AllActions() []Action {
	return []Action{
		ActionView,
		ActionCreate,
		ActionEdit,
		ActionDelete,
		ActionApprove,
		ActionExport,
	}
}

func (a Action) String() string {
	return string(a)
}

func (a Action) Equals(other Action) bool {
	return a == other
}
