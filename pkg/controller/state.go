package controller

import (
	"sync"

	"lead-scraper-go/pkg/scraper"
)

// Phase is the presentation region currently visible
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Affordance labels
const (
	IdleLabel = "Start Scraping"
	BusyLabel = "Processing..."
)

// UIState is a snapshot of the form's presentation. Phase selects the one
// visible region; Busy is the affordance state.
type UIState struct {
	Phase Phase
	Busy  bool

	// Set in PhaseSuccess
	Result *scraper.Success
	// Set in PhaseError
	ErrorMessage string
}

// Label returns the affordance label for the current state.
func (s UIState) Label() string {
	if s.Busy {
		return BusyLabel
	}
	return IdleLabel
}

// SpinnerVisible reports whether the busy indicator is shown.
func (s UIState) SpinnerVisible() bool {
	return s.Busy
}

// LoadingVisible, SuccessVisible and ErrorVisible report region visibility.
// At most one is true.
func (s UIState) LoadingVisible() bool { return s.Phase == PhaseLoading }
func (s UIState) SuccessVisible() bool { return s.Phase == PhaseSuccess }
func (s UIState) ErrorVisible() bool   { return s.Phase == PhaseError }

// StateView is a View that records the resulting UIState. OnChange, when
// set, receives a snapshot after every transition, in order.
type StateView struct {
	mu       sync.Mutex
	state    UIState
	onChange func(UIState)
}

// NewStateView returns a StateView in the idle state.
func NewStateView(onChange func(UIState)) *StateView {
	return &StateView{onChange: onChange}
}

// State returns the current snapshot.
func (v *StateView) State() UIState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *StateView) ShowLoading() {
	v.apply(func(s *UIState) {
		s.Phase = PhaseLoading
		s.Busy = true
		s.Result = nil
		s.ErrorMessage = ""
	})
}

func (v *StateView) ShowSuccess(res scraper.Success) {
	v.apply(func(s *UIState) {
		s.Phase = PhaseSuccess
		s.Result = &res
		s.ErrorMessage = ""
	})
}

func (v *StateView) ShowError(message string) {
	v.apply(func(s *UIState) {
		s.Phase = PhaseError
		s.Result = nil
		s.ErrorMessage = message
	})
}

// ResetAffordance re-enables the submit control. The loading region is
// hidden with it; the outcome region is shown by the next call.
func (v *StateView) ResetAffordance() {
	v.apply(func(s *UIState) {
		s.Busy = false
		if s.Phase == PhaseLoading {
			s.Phase = PhaseIdle
		}
	})
}

// apply runs fn under the lock and notifies outside it so OnChange may
// block on a channel send.
func (v *StateView) apply(fn func(*UIState)) {
	v.mu.Lock()
	fn(&v.state)
	snapshot := v.state
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(snapshot)
	}
}
