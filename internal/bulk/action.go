package bulk

import "strings"

// Action is what a row asks for.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "create"
	}
}

var actionWords = map[string]Action{
	"":       ActionCreate,
	"create": ActionCreate,
	"update": ActionUpdate,
	"edit":   ActionUpdate,
	"change": ActionUpdate,
	"delete": ActionDelete,
	"remove": ActionDelete,
}

// Classify maps the Action cell to an Action. Anything unrecognized becomes
// ActionCreate with recognized=false so the caller can warn about it.
func Classify(v any) (action Action, recognized bool) {
	a, ok := actionWords[strings.ToLower(Text(v))]
	if !ok {
		return ActionCreate, false
	}
	return a, true
}
