package highlight

import "github.com/gyxcit/simdecision/internal/model"

// State identifies what kind of thing is currently selected.
type State string

const (
	StateNone      State = "none"
	StateEntity    State = "entity"
	StateComponent State = "component"
)

// Selection tracks the current focus. Transitions happen only on explicit
// user selection; there is no timeout or automatic transition. Selecting a
// component also marks its owning entity active for entity-level dimming.
type Selection struct {
	state     State
	entity    string
	component string // fully-qualified path when state == StateComponent
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{state: StateNone}
}

// SelectEntity focuses an entity.
func (s *Selection) SelectEntity(name string) {
	s.state = StateEntity
	s.entity = name
	s.component = ""
}

// SelectComponent focuses a component by fully-qualified path. The owning
// entity becomes active as well. An unqualified path clears the selection.
func (s *Selection) SelectComponent(path string) {
	entity, _, ok := model.SplitPath(path)
	if !ok {
		s.Clear()
		return
	}
	s.state = StateComponent
	s.entity = entity
	s.component = path
}

// Clear returns the selection to none.
func (s *Selection) Clear() {
	s.state = StateNone
	s.entity = ""
	s.component = ""
}

// State returns the current selection state.
func (s *Selection) State() State { return s.state }

// ActiveEntity returns the entity considered active, if any. A selected
// component implies its owning entity.
func (s *Selection) ActiveEntity() string { return s.entity }

// FocusID returns the node id driving connectivity emphasis, or "" when
// nothing is selected.
func (s *Selection) FocusID() string {
	switch s.state {
	case StateEntity:
		return s.entity
	case StateComponent:
		return s.component
	default:
		return ""
	}
}
