// Package statepattern implements the State pattern: a Context delegates its
// requests to one installed State, and states replace themselves by asking
// the Context to transition.
package statepattern

import "fmt"

// StateName identifies a state variant in transcripts, logs and charts.
type StateName string

const (
	// NameA names StateA.
	NameA StateName = "StateA"
	// NameB names StateB.
	NameB StateName = "StateB"
)

// Request selects one of the two handlers every state implements.
type Request int

const (
	RequestOne Request = iota + 1
	RequestTwo
)

// String returns the transcript form of r, "request1" or "request2".
func (r Request) String() string {
	switch r {
	case RequestOne:
		return "request1"
	case RequestTwo:
		return "request2"
	default:
		return "unknown"
	}
}

// MarshalText encodes r as its String form.
func (r Request) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// State is the behavior currently installed in a Context.
// The variant set is closed: implementations embed base.
type State interface {
	Name() StateName
	AttachContext(c *Context)
	HandleRequestOne()
	HandleRequestTwo()
	// Release is called by the owning Context once, when the state is dropped.
	Release()

	owner() *Context
	sealed()
}

// base holds the non-owning back-reference shared by every variant.
type base struct {
	ctx *Context
}

func (b *base) AttachContext(c *Context) {
	b.ctx = c
}

func (b *base) Release() {
	b.ctx = nil
}

// Context returns the owning context, or nil once released.
func (b *base) Context() *Context {
	return b.ctx
}

func (b *base) owner() *Context {
	return b.ctx
}

func (b *base) handled(name StateName, r Request) {
	b.ctx.narrate("%s handles %s.", name, r)
}

func (*base) sealed() {}

// StateA moves to StateB on request one.
type StateA struct {
	base
}

func (*StateA) Name() StateName { return NameA }

func (s *StateA) HandleRequestOne() {
	s.handled(NameA, RequestOne)
	// s is released inside TransitionTo; nothing may touch s.ctx afterwards.
	s.ctx.TransitionTo(&StateB{})
}

func (s *StateA) HandleRequestTwo() {
	s.handled(NameA, RequestTwo)
}

// StateB moves back to StateA on request two.
type StateB struct {
	base
}

func (*StateB) Name() StateName { return NameB }

func (s *StateB) HandleRequestOne() {
	s.handled(NameB, RequestOne)
}

func (s *StateB) HandleRequestTwo() {
	s.handled(NameB, RequestTwo)
	s.ctx.TransitionTo(&StateA{})
}

// Edge is one row of the transition table.
type Edge struct {
	From StateName `yaml:"from"`
	On   Request   `yaml:"on"`
	To   StateName `yaml:"to"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s --%s--> %s", e.From, e.On, e.To)
}

// Chart lists the transitions of the built-in variants. Every other
// (state, request) pair leaves the context where it is.
func Chart() []Edge {
	return []Edge{
		{From: NameA, On: RequestOne, To: NameB},
		{From: NameB, On: RequestTwo, To: NameA},
	}
}
