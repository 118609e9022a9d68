package services

import (
	"context"
	"errors"
	"sync"
)

type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
	FormSucceeded
)

func (s FormState) String() string {
	switch s {
	case FormSubmitting:
		return "submitting"
	case FormSucceeded:
		return "succeeded"
	default:
		return "idle"
	}
}

var (
	ErrFormSubmitting = errors.New("reset already in flight")
	ErrFormCompleted  = errors.New("password already reset")
)

// ResetForm models the change-password form for a single page load. It lives
// as long as the page does: the HTTP handler builds one per request, and the
// in-flight and completed guards matter to callers that keep a form across
// submits. Email and token come from the page URL, so they are passed to
// Submit rather than stored on the form.
type ResetForm struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"re_enter_password"`

	mu    sync.Mutex
	state FormState
	last  *ResetOutcome
}

func (f *ResetForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Last returns the outcome of the most recent submission, if any.
func (f *ResetForm) Last() (ResetOutcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return ResetOutcome{}, false
	}
	return *f.last, true
}

// Submit moves the form Idle -> Submitting and then to Succeeded (terminal,
// fields cleared) or back to Idle on either failure kind.
func (f *ResetForm) Submit(ctx context.Context, o *PasswordResetOrchestrator, email, token string) (ResetOutcome, error) {
	f.mu.Lock()
	switch f.state {
	case FormSubmitting:
		f.mu.Unlock()
		return ResetOutcome{}, ErrFormSubmitting
	case FormSucceeded:
		f.mu.Unlock()
		return ResetOutcome{}, ErrFormCompleted
	}
	f.state = FormSubmitting
	req := ResetRequest{Email: email, Token: token, NewPassword: f.NewPassword}
	f.mu.Unlock()

	out := o.Submit(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &out
	if out.ClearsForm() {
		f.NewPassword, f.ConfirmPassword = "", ""
		f.state = FormSucceeded
	} else {
		f.state = FormIdle
	}
	return out, nil
}
