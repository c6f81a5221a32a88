package operator

import (
	"context"
	"fmt"

	"github.com/vk/fempost/transport"
)

// payloader is satisfied by every container type in the types package.
type payloader interface {
	Tag() transport.Tag
	Payload() (transport.Payload, error)
}

// Input is the binding of one input pin of one operator. Connect validates
// the value's wire tag against the pin's accepted set before storing it;
// nothing is sent until the owning operator evaluates. A pin holds at most
// one connection: reconnecting silently replaces the previous value.
type Input struct {
	owner *Operator
	pin   int
	spec  PinSpecification

	connected bool
	literal   transport.Payload
	upstream  *Output
}

// Pin returns the wire index this binding addresses.
func (in *Input) Pin() int { return in.pin }

// Connected reports whether a value is currently bound.
func (in *Input) Connected() bool { return in.connected }

// Connect binds a value to the pin. Accepted values are Go literals
// (bool, int, float64, string, []int, []float64), container types from the
// types package, a raw transport.Payload, another operator's *Output, or a
// bare *Operator (its first declared output is taken).
//
// A value whose wire tag is outside the pin's declared accepted set fails
// with a *TypeMismatchError before any network traffic. A nil value is a
// type error too: absence is expressed by never connecting, not by
// connecting nothing.
func (in *Input) Connect(value any) error {
	switch v := value.(type) {
	case nil:
		return in.mismatch("nil")
	case *Output:
		return in.connectUpstream(v)
	case *Operator:
		out, err := v.FirstOutput()
		if err != nil {
			return err
		}
		return in.connectUpstream(out)
	case transport.Payload:
		return in.connectLiteral(v)
	case payloader:
		p, err := v.Payload()
		if err != nil {
			return fmt.Errorf("encoding value for pin %q of operator %q: %w", in.spec.Name, in.owner.name, err)
		}
		return in.connectLiteral(p)
	case bool:
		return in.connectLiteral(transport.BoolPayload(v))
	case int:
		return in.connectLiteral(transport.IntPayload(v))
	case float64:
		return in.connectLiteral(transport.DoublePayload(v))
	case string:
		return in.connectLiteral(transport.StringPayload(v))
	case []int:
		return in.connectLiteral(transport.IntVectorPayload(v))
	case []float64:
		return in.connectLiteral(transport.DoubleVectorPayload(v))
	default:
		return fmt.Errorf("cannot connect value of type %T to pin %q of operator %q", value, in.spec.Name, in.owner.name)
	}
}

func (in *Input) connectLiteral(p transport.Payload) error {
	if !in.accepts(p.Tag) {
		return in.mismatch(p.Tag)
	}
	in.literal = p
	in.upstream = nil
	in.connected = true
	return nil
}

func (in *Input) connectUpstream(out *Output) error {
	// A declared upstream pin must be able to produce at least one tag the
	// input accepts. Undeclared pins on dynamic operators pass through.
	if len(in.spec.TypeNames) > 0 && len(out.spec.TypeNames) > 0 && !in.spec.AcceptsAny(out.spec.TypeNames) {
		got := out.spec.TypeNames[0]
		return in.mismatch(got)
	}
	in.upstream = out
	in.connected = true
	return nil
}

func (in *Input) accepts(tag transport.Tag) bool {
	// An undeclared pin has no constraint to enforce.
	if len(in.spec.TypeNames) == 0 {
		return true
	}
	return in.spec.Accepts(tag)
}

func (in *Input) mismatch(got transport.Tag) error {
	name := in.spec.Name
	if name == "" {
		name = fmt.Sprintf("#%d", in.pin)
	}
	return &TypeMismatchError{
		Operator: in.owner.name,
		Pin:      name,
		Got:      got,
		Accepted: in.spec.TypeNames,
	}
}

// resolve produces the payload this pin contributes to an evaluation.
// An upstream connection re-evaluates its operator on every call.
func (in *Input) resolve(ctx context.Context) (transport.Payload, error) {
	if in.upstream != nil {
		return in.upstream.owner.evaluate(ctx, in.upstream.pin)
	}
	return in.literal, nil
}
