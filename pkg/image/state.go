// Package image loads image sources for the render pipeline. Loading is a
// state machine driven from the UI queue: data is read and sniffed on the
// background queue, the drawable canvas image is decoded and resized on the
// IO queue once the display size is known, and every result is posted back
// to the UI queue.
package image

import "fmt"

// State is a stage of the image loading lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateDataLoading
	StateDataReady
	StateCanvasImageMaking
	StateLoadSuccess
	StateLoadFail

	stateCount
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "UNLOADED"
	case StateDataLoading:
		return "DATA_LOADING"
	case StateDataReady:
		return "DATA_READY"
	case StateCanvasImageMaking:
		return "CANVAS_IMAGE_MAKING"
	case StateLoadSuccess:
		return "LOAD_SUCCESS"
	case StateLoadFail:
		return "LOAD_FAIL"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Command drives a StateManager.
type Command int

const (
	CommandLoadData Command = iota
	CommandLoadDataSuccess
	CommandLoadDataFail
	CommandMakeCanvasImage
	CommandMakeCanvasImageSuccess
	CommandMakeCanvasImageFail
	// CommandRetryLoading is accepted by no state.
	CommandRetryLoading
	CommandResetState
)

func (c Command) String() string {
	switch c {
	case CommandLoadData:
		return "LOAD_DATA"
	case CommandLoadDataSuccess:
		return "LOAD_DATA_SUCCESS"
	case CommandLoadDataFail:
		return "LOAD_DATA_FAIL"
	case CommandMakeCanvasImage:
		return "MAKE_CANVAS_IMAGE"
	case CommandMakeCanvasImageSuccess:
		return "MAKE_CANVAS_IMAGE_SUCCESS"
	case CommandMakeCanvasImageFail:
		return "MAKE_CANVAS_IMAGE_FAIL"
	case CommandRetryLoading:
		return "RETRY_LOADING"
	case CommandResetState:
		return "RESET_STATE"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

type transition struct {
	from State
	cmd  Command
}

var transitions = map[transition]State{
	{StateUnloaded, CommandLoadData}:                        StateDataLoading,
	{StateDataLoading, CommandLoadDataSuccess}:              StateDataReady,
	{StateDataLoading, CommandLoadDataFail}:                 StateLoadFail,
	{StateDataReady, CommandMakeCanvasImage}:                StateCanvasImageMaking,
	{StateCanvasImageMaking, CommandMakeCanvasImageSuccess}: StateLoadSuccess,
	{StateCanvasImageMaking, CommandMakeCanvasImageFail}:    StateLoadFail,
}

// Next returns the state cmd leads to from s. Commands a state does not
// accept leave it unchanged; CommandResetState returns every state to
// StateUnloaded.
func Next(s State, cmd Command) (State, bool) {
	if cmd == CommandResetState {
		return StateUnloaded, true
	}
	next, ok := transitions[transition{s, cmd}]
	if !ok {
		return s, false
	}
	return next, true
}

// StateManager holds the current loading state and runs the entry callback
// of every state it moves into. It is used from the UI queue only.
type StateManager struct {
	state   State
	onEnter [stateCount]func()
}

// NewStateManager returns a manager in StateUnloaded.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// State returns the current state.
func (m *StateManager) State() State {
	return m.state
}

// HandleCommand applies cmd and reports whether the state changed or was
// reset. The entry callback runs after the state is updated, so it may
// issue further commands.
func (m *StateManager) HandleCommand(cmd Command) bool {
	next, ok := Next(m.state, cmd)
	if !ok {
		return false
	}
	m.state = next
	if fn := m.onEnter[next]; fn != nil {
		fn()
	}
	return true
}

// SetOnEnter installs the callback run when s is entered.
func (m *StateManager) SetOnEnter(s State, fn func()) {
	if s < 0 || s >= stateCount {
		return
	}
	m.onEnter[s] = fn
}

func (m *StateManager) SetOnUnloaded(fn func())          { m.SetOnEnter(StateUnloaded, fn) }
func (m *StateManager) SetOnDataLoading(fn func())       { m.SetOnEnter(StateDataLoading, fn) }
func (m *StateManager) SetOnDataReady(fn func())         { m.SetOnEnter(StateDataReady, fn) }
func (m *StateManager) SetOnCanvasImageMaking(fn func()) { m.SetOnEnter(StateCanvasImageMaking, fn) }
func (m *StateManager) SetOnLoadSuccess(fn func())       { m.SetOnEnter(StateLoadSuccess, fn) }
func (m *StateManager) SetOnLoadFail(fn func())          { m.SetOnEnter(StateLoadFail, fn) }
