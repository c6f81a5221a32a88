// Package transporttest provides a scripted in-process Transport for
// tests: per-operator canned responses, failure injection, and counters
// that let tests assert exactly how many engine round trips a scenario
// performed (including zero).
package transporttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/fempost/transport"
)

// Handler computes the response for one scripted operator.
type Handler func(call transport.Call) (transport.Payload, error)

// Stub is a Transport whose behavior is fully scripted by the test.
type Stub struct {
	mu          sync.Mutex
	handlers    map[string]Handler
	calls       []transport.Call
	fieldCalls  []transport.FieldRequest
	nextFieldID int
}

// New returns an empty stub; every call fails until scripted.
func New() *Stub {
	return &Stub{handlers: make(map[string]Handler)}
}

// Handle scripts an operator with a response function.
func (s *Stub) Handle(operator string, h Handler) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[operator] = h
	return s
}

// Respond scripts an operator with a fixed response payload.
func (s *Stub) Respond(operator string, p transport.Payload) *Stub {
	return s.Handle(operator, func(transport.Call) (transport.Payload, error) {
		return p, nil
	})
}

// Fail scripts an operator to fail with the given engine diagnostic.
func (s *Stub) Fail(operator, message string) *Stub {
	return s.Handle(operator, func(transport.Call) (transport.Payload, error) {
		return transport.Payload{}, &transport.RemoteError{Operator: operator, Message: message}
	})
}

// Run implements transport.Transport.
func (s *Stub) Run(_ context.Context, call transport.Call) (transport.Payload, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	h, ok := s.handlers[call.Operator]
	s.mu.Unlock()
	if !ok {
		return transport.Payload{}, &transport.RemoteError{
			Operator: call.Operator,
			Message:  fmt.Sprintf("operator %q is not known to the server", call.Operator),
		}
	}
	return h(call)
}

// CreateField implements transport.Transport, handing out sequential
// handle IDs and recording each reservation.
func (s *Stub) CreateField(_ context.Context, req transport.FieldRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldCalls = append(s.fieldCalls, req)
	s.nextFieldID++
	return fmt.Sprintf("field-%d", s.nextFieldID), nil
}

// RunCalls returns the total number of evaluation round trips so far.
func (s *Stub) RunCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Calls returns a copy of every recorded evaluation call, in order.
func (s *Stub) Calls() []transport.Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transport.Call(nil), s.calls...)
}

// CallsFor returns the recorded calls for one operator, in order.
func (s *Stub) CallsFor(operator string) []transport.Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []transport.Call
	for _, c := range s.calls {
		if c.Operator == operator {
			out = append(out, c)
		}
	}
	return out
}

// LastCall returns the most recent evaluation call.
func (s *Stub) LastCall() (transport.Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return transport.Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// FieldCalls returns every recorded field reservation, in order.
func (s *Stub) FieldCalls() []transport.FieldRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transport.FieldRequest(nil), s.fieldCalls...)
}
