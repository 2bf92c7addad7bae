package contactform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"elitesite-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// State of the submission form
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when a submission is already in flight
	ErrBusy = errors.New("contactform: submission already in progress")
	// ErrLocked is returned when the form cannot be edited or submitted in its current state
	ErrLocked = errors.New("contactform: form is locked, reset it first")
	// ErrUnknownField is returned by Set for fields other than name, email and message
	ErrUnknownField = errors.New("contactform: unknown field")
)

// Draft is the editable form content and, once validated, the request payload
type Draft struct {
	Name    string `json:"name" validate:"required,min=2,single_line,no_emoji"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10"`
}

func (d Draft) trimmed() Draft {
	return Draft{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Message: strings.TrimSpace(d.Message),
	}
}

// ValidationError carries one message per invalid field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "contactform: " + strings.Join(parts, "; ")
}

// Validate checks a draft without touching any form state
func Validate(v *validator.Validate, d Draft) error {
	if err := v.Struct(d.trimmed()); err != nil {
		return &ValidationError{Fields: validation.FieldErrors(err)}
	}
	return nil
}

// Form is the client-side submission state machine:
// Idle -> Pending -> Success|Failure, Failure -> Pending on resubmit,
// Success|Failure -> Idle on Reset. At most one request is in flight.
type Form struct {
	sender   Sender
	validate *validator.Validate

	mu    sync.Mutex
	state State
	draft Draft
	last  *Result
}

func New(sender Sender) *Form {
	return &Form{
		sender:   sender,
		validate: validation.New(),
	}
}

// Set updates one field of the draft
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StatePending || f.state == StateSuccess {
		return ErrLocked
	}

	switch field {
	case "name":
		f.draft.Name = value
	case "email":
		f.draft.Email = value
	case "message":
		f.draft.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Submit validates the draft and sends it. Invalid drafts are never
// dispatched and leave the state unchanged.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	switch f.state {
	case StatePending:
		f.mu.Unlock()
		return Result{}, ErrBusy
	case StateSuccess:
		f.mu.Unlock()
		return Result{}, ErrLocked
	}

	if err := Validate(f.validate, f.draft); err != nil {
		f.mu.Unlock()
		return Result{}, err
	}

	payload := f.draft.trimmed()
	f.state = StatePending
	f.mu.Unlock()

	res := f.sender.Send(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = &res
	if res.Success {
		f.state = StateSuccess
		f.draft = Draft{}
	} else {
		f.state = StateFailure
	}
	return res, nil
}

// Reset returns a finished form to Idle ("send another message").
// The draft is kept after a failure so it can be corrected.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StatePending {
		return ErrBusy
	}
	f.state = StateIdle
	f.last = nil
	return nil
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Last returns the result of the most recent submission, if any
func (f *Form) Last() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Result{}, false
	}
	return *f.last, true
}
