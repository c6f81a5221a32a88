package operator

import (
	"context"
	"fmt"

	"github.com/vk/fempost/types"
)

// Output is the binding of one output pin of one operator. Reading it
// evaluates the owning operator remotely, every time: there is no
// memoization, so two reads are two engine round trips, and a caller that
// wants reuse must keep the returned container.
type Output struct {
	owner *Operator
	pin   int
	spec  PinSpecification
}

// Pin returns the wire index this binding addresses.
func (o *Output) Pin() int { return o.pin }

// Operator returns the owning operator.
func (o *Output) Operator() *Operator { return o.owner }

// Eval triggers a full remote evaluation of the owning operator and
// decodes the response into the container type the payload's tag declares.
func (o *Output) Eval(ctx context.Context) (any, error) {
	p, err := o.owner.evaluate(ctx, o.pin)
	if err != nil {
		return nil, err
	}
	return types.FromPayload(p)
}

// evalAs evaluates the output and asserts the decoded container type.
func evalAs[T any](ctx context.Context, o *Output) (T, error) {
	var zero T
	v, err := o.Eval(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("output pin %d of operator %q decoded to %T", o.pin, o.owner.name, v)
	}
	return typed, nil
}

// Typed convenience evaluators. Each performs one full evaluation like
// Eval and fails when the response decodes to a different container type.

func (o *Output) EvalFieldsContainer(ctx context.Context) (*types.FieldsContainer, error) {
	return evalAs[*types.FieldsContainer](ctx, o)
}

func (o *Output) EvalScoping(ctx context.Context) (*types.Scoping, error) {
	return evalAs[*types.Scoping](ctx, o)
}

func (o *Output) EvalScopingsContainer(ctx context.Context) (*types.ScopingsContainer, error) {
	return evalAs[*types.ScopingsContainer](ctx, o)
}

func (o *Output) EvalMeshedRegion(ctx context.Context) (*types.MeshedRegion, error) {
	return evalAs[*types.MeshedRegion](ctx, o)
}

func (o *Output) EvalStreamsContainer(ctx context.Context) (*types.StreamsContainer, error) {
	return evalAs[*types.StreamsContainer](ctx, o)
}

func (o *Output) EvalTimeFreqSupport(ctx context.Context) (*types.TimeFreqSupport, error) {
	return evalAs[*types.TimeFreqSupport](ctx, o)
}

func (o *Output) EvalResultInfo(ctx context.Context) (*types.ResultInfo, error) {
	return evalAs[*types.ResultInfo](ctx, o)
}
