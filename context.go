package statepattern

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Transition records one installation of a state into a Context.
// From is empty for the initial installation.
type Transition struct {
	ContextID uuid.UUID `yaml:"context_id"`
	Seq       int       `yaml:"seq"`
	From      StateName `yaml:"from,omitempty"`
	To        StateName `yaml:"to"`
	Time      time.Time `yaml:"time"`
}

// Publisher receives every Transition a Context performs.
type Publisher interface {
	Publish(t Transition)
}

// Option applies configuration to a Context.
type Option func(*Context)

// WithOutput sets the transcript writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Context) {
		c.out = w
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

// WithPublisher registers a transition publisher.
func WithPublisher(p Publisher) Option {
	return func(c *Context) {
		c.publisher = p
	}
}

// WithID overrides the generated context ID.
func WithID(id uuid.UUID) Option {
	return func(c *Context) {
		c.id = id
	}
}

// Context delegates its requests to exactly one owned State.
// Not safe for concurrent use.
type Context struct {
	id        uuid.UUID
	state     State
	seq       int
	closed    bool
	out       io.Writer
	logger    *slog.Logger
	publisher Publisher
}

// NewContext creates a context and installs initial.
func NewContext(initial State, opts ...Option) *Context {
	c := &Context{
		id:     uuid.New(),
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.TransitionTo(initial)
	return c
}

// TransitionTo takes ownership of next and releases the previous state.
// The previous state is released only after next is installed. Passing the
// state that is already installed is a no-op.
func (c *Context) TransitionTo(next State) {
	c.mustBeOpen()
	if isNil(next) {
		panic("statepattern: transition to nil state")
	}
	if owner := next.owner(); owner != nil && owner != c {
		panic("statepattern: state owned by another Context")
	}
	prev := c.state
	if prev == next {
		next.AttachContext(c)
		return
	}

	c.narrate("Context: Transition to %s.", next.Name())
	next.AttachContext(c)
	c.state = next
	if prev != nil {
		prev.Release()
	}

	c.seq++
	t := Transition{
		ContextID: c.id,
		Seq:       c.seq,
		To:        next.Name(),
		Time:      time.Now(),
	}
	if prev != nil {
		t.From = prev.Name()
	}
	c.logger.Debug("state transition",
		slog.String("context_id", c.id.String()),
		slog.Int("seq", t.Seq),
		slog.String("from", string(t.From)),
		slog.String("to", string(t.To)),
	)
	if c.publisher != nil {
		c.publisher.Publish(t)
	}
}

// RequestOne forwards to the current state's first handler.
func (c *Context) RequestOne() {
	c.mustBeOpen()
	c.state.HandleRequestOne()
}

// RequestTwo forwards to the current state's second handler.
func (c *Context) RequestTwo() {
	c.mustBeOpen()
	c.state.HandleRequestTwo()
}

// Do dispatches r to the matching handler.
func (c *Context) Do(r Request) {
	switch r {
	case RequestOne:
		c.RequestOne()
	case RequestTwo:
		c.RequestTwo()
	default:
		panic(fmt.Sprintf("statepattern: unknown request %d", int(r)))
	}
}

// Current returns the name of the installed state, or "" after Close.
func (c *Context) Current() StateName {
	if c.state == nil {
		return ""
	}
	return c.state.Name()
}

// ID returns the identifier stamped on every published Transition.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// Transitions returns how many states have been installed, the initial one included.
func (c *Context) Transitions() int {
	return c.seq
}

// Close releases the current state. Calling Close again does nothing.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.state.Release()
	c.state = nil
	c.logger.Debug("context closed", slog.String("context_id", c.id.String()))
}

func (c *Context) mustBeOpen() {
	if c.closed {
		panic("statepattern: use of closed Context")
	}
}

// isNil reports whether s is nil or a nil pointer held in the interface.
func isNil(s State) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (c *Context) narrate(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
