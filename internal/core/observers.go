package core

import "github.com/kestrelmc/dfsmc/internal/primitives"

// Observers is a set of pure subscriber callbacks invoked at fixed points
// during exploration, for tooling (progress UIs, metrics, additional
// logging). Any field left nil is simply never called. Observers must not
// mutate exploration state; they receive read-only views.
type Observers struct {
	OnExplorationStart   func()
	OnStateCreation      func(s *State)
	OnTransitionExecute  func(t *primitives.Transition)
	OnBacktracking       func()
	OnRestoreSystemState func(s *State)
	OnRestoreInitialState func()
	OnTransitionReplay   func(t *primitives.Transition)
	OnLogState           func(r Report)
}

func (o Observers) fireExplorationStart() {
	if o.OnExplorationStart != nil {
		o.OnExplorationStart()
	}
}

func (o Observers) fireStateCreation(s *State) {
	if o.OnStateCreation != nil {
		o.OnStateCreation(s)
	}
}

func (o Observers) fireTransitionExecute(t *primitives.Transition) {
	if o.OnTransitionExecute != nil {
		o.OnTransitionExecute(t)
	}
}

func (o Observers) fireBacktracking() {
	if o.OnBacktracking != nil {
		o.OnBacktracking()
	}
}

func (o Observers) fireRestoreSystemState(s *State) {
	if o.OnRestoreSystemState != nil {
		o.OnRestoreSystemState(s)
	}
}

func (o Observers) fireRestoreInitialState() {
	if o.OnRestoreInitialState != nil {
		o.OnRestoreInitialState()
	}
}

func (o Observers) fireTransitionReplay(t *primitives.Transition) {
	if o.OnTransitionReplay != nil {
		o.OnTransitionReplay(t)
	}
}

func (o Observers) fireLogState(r Report) {
	if o.OnLogState != nil {
		o.OnLogState(r)
	}
}
