package production

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/statepattern"
)

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- statepattern.Transition
	dropped int
	closed  bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- statepattern.Transition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish sends t without blocking. Transitions published on a full channel
// or after Close are counted as dropped.
func (p *ChannelPublisher) Publish(t statepattern.Transition) {
	if p.closed {
		p.dropped++
		return
	}
	select {
	case p.ch <- t:
	default:
		p.dropped++
	}
}

// Dropped reports how many transitions were discarded on a full channel.
func (p *ChannelPublisher) Dropped() int {
	return p.dropped
}

// Close closes the output channel. Calling Close again does nothing.
func (p *ChannelPublisher) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.ch)
	return nil
}

// Recorder keeps every published transition in memory.
type Recorder struct {
	transitions []statepattern.Transition
}

// Publish appends t.
func (r *Recorder) Publish(t statepattern.Transition) {
	r.transitions = append(r.transitions, t)
}

// Transitions returns a copy of the recorded transitions.
func (r *Recorder) Transitions() []statepattern.Transition {
	out := make([]statepattern.Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}

// Path returns the sequence of installed state names.
func (r *Recorder) Path() []statepattern.StateName {
	path := make([]statepattern.StateName, 0, len(r.transitions))
	for _, t := range r.transitions {
		path = append(path, t.To)
	}
	return path
}

type transcript struct {
	Transitions []statepattern.Transition `yaml:"transitions"`
	Final       statepattern.StateName    `yaml:"final,omitempty"`
}

// YAML renders the recorded transitions as a YAML document.
func (r *Recorder) YAML() ([]byte, error) {
	doc := transcript{Transitions: r.transitions}
	if n := len(r.transitions); n > 0 {
		doc.Final = r.transitions[n-1].To
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
