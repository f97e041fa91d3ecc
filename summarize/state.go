package summarize

import (
	"errors"

	"github.com/a-h/summarizer/models"
)

type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	}
	return "unknown"
}

// Ticket identifies a submission. Completions are only applied while their
// ticket is still the current one.
type Ticket uint64

var ErrNotSubmittable = errors.New("input cannot be submitted")

// State is the form state. Transitions return a new State and leave the
// receiver untouched.
type State struct {
	Phase   Phase
	Input   Input
	Result  *models.Summary
	Loading bool
	Err     error
	ticket  Ticket
}

func NewState(kind Kind) State {
	return State{Input: Input{Kind: kind}}
}

func (s State) Ticket() Ticket {
	return s.ticket
}

// CanSubmit is false while loading, or when the input fails validation.
func (s State) CanSubmit(rules RuleSet) bool {
	return s.Phase == PhaseEditing && !s.Loading && rules.Validate(s.Input) == nil
}

func (s State) Edit(in Input) State {
	if s.Phase != PhaseEditing {
		return s
	}
	if in != s.Input {
		s.Err = nil
	}
	s.Input = in
	return s
}

func (s State) Begin(rules RuleSet) (State, Ticket, error) {
	if !s.CanSubmit(rules) {
		return s, 0, ErrNotSubmittable
	}
	s.ticket++
	s.Phase = PhaseSubmitting
	s.Loading = true
	s.Err = nil
	return s, s.ticket, nil
}

func (s State) current(t Ticket) bool {
	return s.Phase == PhaseSubmitting && t == s.ticket
}

// Complete moves to the result, unless the ticket is stale.
func (s State) Complete(t Ticket, result models.Summary) State {
	if !s.current(t) {
		return s
	}
	s.Phase = PhaseResult
	s.Loading = false
	s.Result = &result
	s.Err = nil
	return s
}

// Fail returns to editing with the input intact and the error set, unless
// the ticket is stale.
func (s State) Fail(t Ticket, err error) State {
	if !s.current(t) {
		return s
	}
	s.Phase = PhaseEditing
	s.Loading = false
	s.Err = err
	return s
}

// Cancel abandons the outstanding submission.
func (s State) Cancel() State {
	if s.Phase != PhaseSubmitting {
		return s
	}
	s.ticket++
	s.Phase = PhaseEditing
	s.Loading = false
	return s
}

// Reset clears the input and the result together.
func (s State) Reset() State {
	if s.Phase == PhaseSubmitting {
		return s
	}
	return State{
		Phase:  PhaseEditing,
		Input:  Input{Kind: s.Input.Kind},
		ticket: s.ticket,
	}
}

// Show displays an existing summary, e.g. one chosen from the history.
func (s State) Show(result models.Summary) State {
	if s.Phase == PhaseSubmitting {
		s = s.Cancel()
	}
	s.Phase = PhaseResult
	s.Input = InputFor(result)
	s.Result = &result
	s.Err = nil
	return s
}

// InputFor returns the input that produced a summary.
func InputFor(s models.Summary) Input {
	if s.URL == "" {
		return Input{Kind: KindText, Value: s.Content, Title: s.Title}
	}
	return Input{Kind: KindURL, Value: s.URL, Title: s.Title}
}
