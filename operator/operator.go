package operator

import (
	"context"
	"fmt"

	"github.com/vk/fempost/internal/ctxlog"
	"github.com/vk/fempost/transport"
)

// Operator is one named remote computation in the graph. It owns its input
// and output bindings, carries the connection to the engine, and evaluates
// lazily: nothing is sent until an output is read, and every read re-runs
// the whole reachable upstream graph.
//
// An operator never reaches a terminal state. Inputs may be reconnected
// and outputs re-read indefinitely; results are not cached.
type Operator struct {
	name    string
	tr      transport.Transport
	spec    *Specification
	inputs  map[int]*Input
	outputs map[int]*Output
	config  map[string]string
}

// Option configures an operator at construction time. Initial input
// connections are expressed as options, so "caller passed nothing" is
// simply an option that was never given; a nil value passed explicitly is
// a connect-time type error like anywhere else.
type Option func(*Operator) error

// WithInput connects the named input pin during construction.
func WithInput(name string, value any) Option {
	return func(op *Operator) error {
		return op.Connect(name, value)
	}
}

// WithConfig overrides one engine tuning key. Config is opaque
// passthrough; the client never interprets it.
func WithConfig(key, value string) Option {
	return func(op *Operator) error {
		op.config[key] = value
		return nil
	}
}

// New builds an operator whose specification the registry must know.
func New(name string, tr transport.Transport, reg *Registry, opts ...Option) (*Operator, error) {
	spec, err := reg.Spec(name)
	if err != nil {
		return nil, err
	}
	return NewWithSpec(name, tr, spec, opts...)
}

// NewWithSpec builds an operator from an explicit specification. The model
// layer uses this for engine-reported result providers resolved through
// the registry template.
func NewWithSpec(name string, tr transport.Transport, spec *Specification, opts ...Option) (*Operator, error) {
	op := &Operator{
		name:    name,
		tr:      tr,
		spec:    spec,
		inputs:  make(map[int]*Input),
		outputs: make(map[int]*Output),
		config:  make(map[string]string),
	}
	for k, v := range spec.DefaultConfig {
		op.config[k] = v
	}
	for _, opt := range opts {
		if err := opt(op); err != nil {
			return nil, err
		}
	}
	return op, nil
}

// NewDynamic builds an operator with no declared pins. Connections by pin
// index skip type validation; this is the escape hatch for engine
// operators absent from the specification table.
func NewDynamic(name string, tr transport.Transport) *Operator {
	op, _ := NewWithSpec(name, tr, &Specification{
		Description: fmt.Sprintf("Dynamic operator %q.", name),
		Inputs:      map[int]PinSpecification{},
		Outputs:     map[int]PinSpecification{},
	})
	return op
}

// Name returns the engine-side operator identifier.
func (op *Operator) Name() string { return op.name }

// Specification returns the operator's pin table.
func (op *Operator) Specification() *Specification { return op.spec }

// Config returns the operator's engine tuning, defaults merged with any
// WithConfig overrides.
func (op *Operator) Config() map[string]string { return op.config }

// Input returns the binding for the named input pin.
func (op *Operator) Input(name string) (*Input, error) {
	idx, _, ok := op.spec.InputPinByName(name)
	if !ok {
		return nil, fmt.Errorf("operator %q has no input pin named %q", op.name, name)
	}
	return op.InputByPin(idx), nil
}

// InputByPin returns the binding for an input pin by wire index, declared
// or not.
func (op *Operator) InputByPin(pin int) *Input {
	if in, ok := op.inputs[pin]; ok {
		return in
	}
	spec, _ := op.spec.InputPin(pin)
	in := &Input{owner: op, pin: pin, spec: spec}
	op.inputs[pin] = in
	return in
}

// Connect binds a value to the named input pin.
func (op *Operator) Connect(name string, value any) error {
	in, err := op.Input(name)
	if err != nil {
		return err
	}
	return in.Connect(value)
}

// ConnectPin binds a value to an input pin by wire index.
func (op *Operator) ConnectPin(pin int, value any) error {
	return op.InputByPin(pin).Connect(value)
}

// Output returns the binding for the named output pin.
func (op *Operator) Output(name string) (*Output, error) {
	idx, _, ok := op.spec.OutputPinByName(name)
	if !ok {
		return nil, fmt.Errorf("operator %q has no output pin named %q", op.name, name)
	}
	return op.OutputByPin(idx), nil
}

// OutputByPin returns the binding for an output pin by wire index.
func (op *Operator) OutputByPin(pin int) *Output {
	if out, ok := op.outputs[pin]; ok {
		return out
	}
	spec, _ := op.spec.OutputPin(pin)
	out := &Output{owner: op, pin: pin, spec: spec}
	op.outputs[pin] = out
	return out
}

// FirstOutput returns the binding for the lowest declared output pin.
// Connecting a bare operator as an input uses this binding.
func (op *Operator) FirstOutput() (*Output, error) {
	idx, _, ok := op.spec.FirstOutputPin()
	if !ok {
		return nil, fmt.Errorf("operator %q declares no outputs", op.name)
	}
	return op.OutputByPin(idx), nil
}

// EvalPin evaluates the operator and decodes the payload of the given
// output pin.
func (op *Operator) EvalPin(ctx context.Context, pin int) (any, error) {
	return op.OutputByPin(pin).Eval(ctx)
}

// Run evaluates the operator for its side effects only; no output payload
// is requested or decoded.
func (op *Operator) Run(ctx context.Context) error {
	_, err := op.evaluate(ctx, sideEffectPin)
	return err
}

// sideEffectPin requests an evaluation with no output payload.
const sideEffectPin = -1

// evaluate resolves every connected input (re-evaluating upstream
// operators as needed), sends one call, and returns the raw response
// payload. Missing required inputs are the engine's to reject; the client
// sends whatever is connected.
func (op *Operator) evaluate(ctx context.Context, pin int) (transport.Payload, error) {
	logger := ctxlog.FromContext(ctx)

	inputs := make(map[int]transport.Payload, len(op.inputs))
	for idx, in := range op.inputs {
		if !in.connected {
			continue
		}
		p, err := in.resolve(ctx)
		if err != nil {
			return transport.Payload{}, fmt.Errorf("resolving input pin %d of operator %q: %w", idx, op.name, err)
		}
		inputs[idx] = p
	}

	logger.Debug("Evaluating operator.", "operator", op.name, "output_pin", pin, "inputs", len(inputs))
	resp, err := op.tr.Run(ctx, transport.Call{
		Operator: op.name,
		Inputs:   inputs,
		Output:   pin,
		Config:   op.config,
	})
	if err != nil {
		return transport.Payload{}, err
	}
	return resp, nil
}
