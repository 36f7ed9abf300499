package tui

import tea "github.com/charmbracelet/bubbletea"

// ComponentStack is a stack of components.
type ComponentStack struct {
	components []Component
}

// NewComponentStack creates a new component stack.
func NewComponentStack(initial ...Component) *ComponentStack {
	return &ComponentStack{
		components: initial,
	}
}

// Len returns the number of components on the stack.
func (s *ComponentStack) Len() int {
	return len(s.components)
}

// Push adds a component to the top of the stack.
func (s *ComponentStack) Push(c Component) {
	s.components = append(s.components, c)
}

// Pop removes the top component, returning the command of its OnLeave hook.
func (s *ComponentStack) Pop() tea.Cmd {
	if len(s.components) == 0 {
		return nil
	}
	top := s.components[len(s.components)-1]
	s.components = s.components[:len(s.components)-1]
	if leavable, ok := top.(Leavable); ok {
		return leavable.OnLeave()
	}
	return nil
}

// Top returns the component at the top of the stack, or nil.
func (s *ComponentStack) Top() Component {
	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

// IsConsumingInput returns true if any component on the stack is consuming input.
func (s *ComponentStack) IsConsumingInput() bool {
	for _, c := range s.components {
		if c.IsConsumingInput() {
			return true
		}
	}
	return false
}

// Resize resizes every component on the stack.
func (s *ComponentStack) Resize(width, height int) {
	for _, c := range s.components {
		c.Resize(width, height)
	}
}

// Update updates the top component on the stack.
func (s *ComponentStack) Update(msg tea.Msg) tea.Cmd {
	if len(s.components) == 0 {
		return nil
	}
	top := s.components[len(s.components)-1]
	newComp, cmd := top.Update(msg)
	if newComp != top {
		var leaveCmd tea.Cmd
		if leavable, ok := top.(Leavable); ok {
			leaveCmd = leavable.OnLeave()
		}
		s.components[len(s.components)-1] = newComp
		return tea.Batch(cmd, leaveCmd, newComp.Init())
	}
	return cmd
}

// View returns the view of the top component on the stack.
func (s *ComponentStack) View() string {
	if len(s.components) == 0 {
		return ""
	}
	return s.components[len(s.components)-1].View()
}
