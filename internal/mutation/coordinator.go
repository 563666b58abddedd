// Package mutation runs create, update and delete actions with a
// confirm, call and refresh lifecycle and reports one message per action.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sorenmh/homeservices-admin/internal/gateway"
)

// Verbs used for the busy key and the fallback failure message
const (
	VerbCreate   = "create"
	VerbUpdate   = "update"
	VerbDelete   = "delete"
	VerbComplete = "complete"
)

// ErrBusy is returned when the same action on the same record is already in flight
var ErrBusy = errors.New("another request for this record is still running")

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier shows the outcome of an action
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Recorder keeps an audit trail of finished actions
type Recorder interface {
	RecordMutation(ctx context.Context, rec Record) error
}

// Record describes one action that reached the backend
type Record struct {
	Verb     string
	Entity   string
	EntityID string
	OK       bool
	Message  string
	Duration time.Duration
}

// Op is a single mutation
type Op struct {
	Verb   string
	Entity string
	ID     string

	// Confirm is the question asked before calling; empty skips confirmation
	Confirm string
	// Validate runs before anything else; a non-nil error stops the op
	Validate func() error
	// Call performs the request and returns the backend message
	Call func(ctx context.Context) (string, error)
	// SuccessMessage overrides the message shown on success
	SuccessMessage string
	// After runs once the call succeeded, typically a refetch
	After func(ctx context.Context) error
}

func (op Op) key() string {
	return op.Verb + ":" + op.Entity + ":" + op.ID
}

func (op Op) fallback() string {
	return fmt.Sprintf("Failed to %s %s", op.Verb, op.Entity)
}

func (op Op) successMessage(backend string) string {
	if op.SuccessMessage != "" {
		return op.SuccessMessage
	}
	if backend != "" {
		return backend
	}
	return fmt.Sprintf("%s %s successfully", capitalize(op.Entity), pastTense(op.Verb))
}

// Outcome is what happened to an op. Err is set on failure so callers can
// pick an exit code; the message has already been reported.
type Outcome struct {
	OK        bool
	Cancelled bool
	Message   string
	Err       error
}

// Coordinator runs ops. One op per busy key may be in flight at a time.
type Coordinator struct {
	confirmer Confirmer
	notifier  Notifier
	recorder  Recorder
	logger    *slog.Logger

	mu   sync.Mutex
	busy map[string]struct{}
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithConfirmer sets the confirmation prompt. Without one, ops that need
// confirmation are cancelled.
func WithConfirmer(c Confirmer) Option {
	return func(co *Coordinator) {
		co.confirmer = c
	}
}

// WithNotifier sets where outcome messages go
func WithNotifier(n Notifier) Option {
	return func(co *Coordinator) {
		co.notifier = n
	}
}

// WithRecorder enables the audit trail
func WithRecorder(r Recorder) Option {
	return func(co *Coordinator) {
		co.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(co *Coordinator) {
		co.logger = l
	}
}

// New creates a Coordinator
func New(opts ...Option) *Coordinator {
	co := &Coordinator{
		notifier: discardNotifier{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		busy:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Busy reports whether an op with this verb, entity and id is in flight
func (co *Coordinator) Busy(verb, entity, id string) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	_, ok := co.busy[Op{Verb: verb, Entity: entity, ID: id}.key()]
	return ok
}

// Create runs op as a create
func (co *Coordinator) Create(ctx context.Context, op Op) Outcome {
	op.Verb = VerbCreate
	return co.Run(ctx, op)
}

// Update runs op as an update. It submits whenever validation passes,
// changed or not.
func (co *Coordinator) Update(ctx context.Context, op Op) Outcome {
	op.Verb = VerbUpdate
	return co.Run(ctx, op)
}

// Delete runs op as a delete. Deletes always ask for confirmation.
func (co *Coordinator) Delete(ctx context.Context, op Op) Outcome {
	op.Verb = VerbDelete
	if op.Confirm == "" {
		op.Confirm = fmt.Sprintf("Delete %s %s?", op.Entity, op.ID)
	}
	return co.Run(ctx, op)
}

// Run executes op: validate, confirm, call, report, then After
func (co *Coordinator) Run(ctx context.Context, op Op) Outcome {
	if op.Validate != nil {
		if err := op.Validate(); err != nil {
			return co.fail(op, err.Error(), err)
		}
	}

	if op.Confirm != "" {
		ok, err := co.confirm(ctx, op.Confirm)
		if err != nil {
			return co.fail(op, op.fallback(), err)
		}
		if !ok {
			co.logger.DebugContext(ctx, "mutation cancelled", "verb", op.Verb, "entity", op.Entity, "id", op.ID)
			return Outcome{Cancelled: true}
		}
	}

	release, err := co.acquire(op.key())
	if err != nil {
		return co.fail(op, err.Error(), err)
	}
	defer release()

	start := time.Now()
	backendMsg, err := op.Call(ctx)
	elapsed := time.Since(start)

	if err != nil {
		msg := gateway.UserMessage(err, op.fallback())
		if backendMsg != "" && msg == op.fallback() {
			msg = backendMsg
		}
		co.record(ctx, op, false, msg, elapsed)
		co.logger.WarnContext(ctx, "mutation failed", "verb", op.Verb, "entity", op.Entity, "id", op.ID, "error", err)
		return co.fail(op, msg, err)
	}

	msg := op.successMessage(backendMsg)
	co.record(ctx, op, true, msg, elapsed)
	co.logger.InfoContext(ctx, "mutation succeeded", "verb", op.Verb, "entity", op.Entity, "id", op.ID, "duration", elapsed)
	co.notifier.Success(msg)

	if op.After != nil {
		if err := op.After(ctx); err != nil {
			co.logger.WarnContext(ctx, "refresh after mutation failed", "verb", op.Verb, "entity", op.Entity, "error", err)
		}
	}

	return Outcome{OK: true, Message: msg}
}

func (co *Coordinator) confirm(ctx context.Context, prompt string) (bool, error) {
	if co.confirmer == nil {
		return false, nil
	}
	return co.confirmer.Confirm(ctx, prompt)
}

func (co *Coordinator) acquire(key string) (func(), error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if _, ok := co.busy[key]; ok {
		return nil, ErrBusy
	}
	co.busy[key] = struct{}{}
	return func() {
		co.mu.Lock()
		delete(co.busy, key)
		co.mu.Unlock()
	}, nil
}

func (co *Coordinator) fail(op Op, msg string, err error) Outcome {
	co.notifier.Failure(msg)
	return Outcome{Message: msg, Err: err}
}

func (co *Coordinator) record(ctx context.Context, op Op, ok bool, msg string, d time.Duration) {
	if co.recorder == nil {
		return
	}
	rec := Record{
		Verb:     op.Verb,
		Entity:   op.Entity,
		EntityID: op.ID,
		OK:       ok,
		Message:  msg,
		Duration: d,
	}
	if err := co.recorder.RecordMutation(ctx, rec); err != nil {
		co.logger.WarnContext(ctx, "failed to record mutation", "error", err)
	}
}

// From adapts a gateway call to Op.Call. A success=false answer becomes an
// error carrying the backend message.
func From[T any](res gateway.Result[T], err error) (string, error) {
	if err != nil {
		return "", err
	}
	if !res.Success {
		return res.Message, res.Err()
	}
	return res.Message, nil
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Failure(string) {}

func pastTense(verb string) string {
	if strings.HasSuffix(verb, "e") {
		return verb + "d"
	}
	return verb + "ed"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
