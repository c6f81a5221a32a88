package model

import (
	"context"
	"fmt"

	"github.com/vk/fempost/operator"
	"github.com/vk/fempost/types"
)

type timeSelKind int

const (
	timeNone timeSelKind = iota
	timeAll
	timeFirst
	timeLast
	timeValue
)

type meshSelKind int

const (
	meshNone meshSelKind = iota
	meshIDs
	meshScoping
	meshNamedSelection
)

type splitKind string

const (
	splitNone  splitKind = ""
	splitBody  splitKind = "body"
	splitShape splitKind = "shape"
)

// Result configures one provider operator for a physical quantity through
// chained selector calls, then triggers a single evaluation. Selectors
// mutate the Result itself and overwrite each other: the last call to a
// given selector family wins, and a reused Result keeps all prior
// configuration. No selector performs a remote call; the stored intent
// resolves when Build or Eval runs.
type Result struct {
	m    *Model
	info types.AvailableResult

	timeKind  timeSelKind
	timeValue any

	meshKind    meshSelKind
	meshIDList  []int
	meshScope   *types.Scoping
	meshNSName  string

	location  string
	split     splitKind
	splitProp string
}

func newResult(m *Model, info types.AvailableResult) *Result {
	return &Result{m: m, info: info}
}

// Info returns the result's description from the result info.
func (r *Result) Info() types.AvailableResult { return r.info }

// OnAllTimeFreqs selects every set of the time/frequency support.
func (r *Result) OnAllTimeFreqs() *Result {
	r.timeKind = timeAll
	r.timeValue = nil
	return r
}

// OnFirstTimeFreq selects the first set.
func (r *Result) OnFirstTimeFreq() *Result {
	r.timeKind = timeFirst
	r.timeValue = nil
	return r
}

// OnLastTimeFreq selects the last set.
func (r *Result) OnLastTimeFreq() *Result {
	r.timeKind = timeLast
	r.timeValue = nil
	return r
}

// OnTimeScoping selects explicit time sets: a single 1-based set index, a
// list of indices, a list of time values, or a Scoping; stored verbatim.
func (r *Result) OnTimeScoping(timeScoping any) *Result {
	r.timeKind = timeValue
	r.timeValue = timeScoping
	return r
}

// OnMeshScoping restricts the result to the given entities: either an
// existing Scoping, or a raw ID list wrapped at the result's native
// location when Build runs.
func (r *Result) OnMeshScoping(ids []int) *Result {
	r.meshKind = meshIDs
	r.meshIDList = ids
	r.meshScope = nil
	return r
}

// OnScoping restricts the result to an existing scoping.
func (r *Result) OnScoping(s *types.Scoping) *Result {
	r.meshKind = meshScoping
	r.meshScope = s
	return r
}

// OnNamedSelection restricts the result to a named selection, resolved
// through the model's metadata when Build runs.
func (r *Result) OnNamedSelection(name string) *Result {
	r.meshKind = meshNamedSelection
	r.meshNSName = name
	return r
}

// OnLocation requests a location for the output fields, e.g. averaging an
// ElementalNodal result down to Nodal.
func (r *Result) OnLocation(loc types.Location) *Result {
	r.location = string(loc)
	return r
}

// SplitByBody splits the result by material body: the evaluation yields
// one field per body, and Eval wraps the container accordingly.
func (r *Result) SplitByBody() *Result {
	r.split = splitBody
	r.splitProp = "mat"
	return r
}

// SplitByShape splits the result by element shape (solid, shell, beam,
// unknown). Calling SplitByBody and SplitByShape on the same Result keeps
// only the later call's property.
func (r *Result) SplitByShape() *Result {
	r.split = splitShape
	r.splitProp = "elshape"
	return r
}

// Build resolves the stored selectors into a configured provider
// operator. The operator is not evaluated; callers may wire it into a
// larger graph before reading its output.
func (r *Result) Build(ctx context.Context) (*operator.Operator, error) {
	return r.build(ctx, nil, nil)
}

// BuildWith is Build with call-time overrides for the time and mesh
// scopings; a non-nil override wins over the stored selector.
func (r *Result) BuildWith(ctx context.Context, timeScoping, meshScoping any) (*operator.Operator, error) {
	return r.build(ctx, timeScoping, meshScoping)
}

func (r *Result) build(ctx context.Context, timeOverride, meshOverride any) (*operator.Operator, error) {
	spec, err := r.m.reg.ResultProviderSpec(r.info.OperatorName)
	if err != nil {
		return nil, err
	}
	op, err := operator.NewWithSpec(r.info.OperatorName, r.m.tr, spec)
	if err != nil {
		return nil, err
	}
	if err := r.m.connectProvider(op); err != nil {
		return nil, err
	}

	if timeOverride != nil {
		if err := op.Connect("time_scoping", timeOverride); err != nil {
			return nil, err
		}
	} else if r.timeKind != timeNone {
		v, err := r.resolveTimeScoping(ctx)
		if err != nil {
			return nil, err
		}
		if err := op.Connect("time_scoping", v); err != nil {
			return nil, err
		}
	}

	if meshOverride != nil {
		if err := op.Connect("mesh_scoping", meshOverride); err != nil {
			return nil, err
		}
	} else if r.meshKind != meshNone || r.split != splitNone {
		if err := r.connectMeshScoping(ctx, op); err != nil {
			return nil, err
		}
	}

	if r.location != "" {
		if err := op.Connect("requested_location", r.location); err != nil {
			return nil, err
		}
	}
	return op, nil
}

func (r *Result) resolveTimeScoping(ctx context.Context) (any, error) {
	switch r.timeKind {
	case timeValue:
		return r.timeValue, nil
	case timeFirst:
		return 1, nil
	case timeAll, timeLast:
		tf, err := r.m.metadata.TimeFreqSupport(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving time scoping: %w", err)
		}
		if r.timeKind == timeLast {
			return tf.NSets, nil
		}
		sets := make([]int, tf.NSets)
		for i := range sets {
			sets[i] = i + 1
		}
		return sets, nil
	default:
		return nil, fmt.Errorf("no time scoping selected")
	}
}

func (r *Result) connectMeshScoping(ctx context.Context, op *operator.Operator) error {
	scoping, err := r.plainMeshScoping(ctx)
	if err != nil {
		return err
	}

	if r.split == splitNone {
		return op.Connect("mesh_scoping", scoping)
	}

	splitOp, err := r.buildSplitOperator(scoping)
	if err != nil {
		return err
	}
	return op.Connect("mesh_scoping", splitOp)
}

// plainMeshScoping resolves the non-split part of the mesh selection, or
// nil when none was configured.
func (r *Result) plainMeshScoping(ctx context.Context) (*types.Scoping, error) {
	switch r.meshKind {
	case meshIDs:
		return types.NewScoping(r.meshIDList, r.info.NativeLocation), nil
	case meshScoping:
		return r.meshScope, nil
	case meshNamedSelection:
		s, err := r.m.metadata.NamedSelection(ctx, r.meshNSName)
		if err != nil {
			return nil, fmt.Errorf("resolving named selection %q: %w", r.meshNSName, err)
		}
		return s, nil
	default:
		return nil, nil
	}
}

// buildSplitOperator composes the property-split operator: partition the
// result's native scoping by material or element shape, forwarding any
// previously selected mesh scoping as a restriction.
func (r *Result) buildSplitOperator(prev *types.Scoping) (*operator.Operator, error) {
	splitOp, err := operator.New("scoping::by_property", r.m.tr, r.m.reg,
		operator.WithInput("requested_location", string(r.info.NativeLocation)),
		operator.WithInput("label1", r.splitProp))
	if err != nil {
		return nil, err
	}
	mp, err := r.m.metadata.MeshProvider()
	if err != nil {
		return nil, err
	}
	if err := splitOp.Connect("mesh", mp); err != nil {
		return nil, err
	}
	if prev != nil {
		if err := splitOp.Connect("mesh_scoping", prev); err != nil {
			return nil, err
		}
	}
	return splitOp, nil
}

// Eval builds the operator, reads its fields_container output (one engine
// evaluation; repeated Eval calls repeat the round trip) and wraps the
// container per the configured split.
func (r *Result) Eval(ctx context.Context) (types.FieldsCollection, error) {
	op, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	out, err := op.Output("fields_container")
	if err != nil {
		return nil, err
	}
	fc, err := out.EvalFieldsContainer(ctx)
	if err != nil {
		return nil, err
	}
	switch r.split {
	case splitBody:
		return &types.BodyFieldsContainer{FieldsContainer: fc}, nil
	case splitShape:
		return &types.ElShapeFieldsContainer{FieldsContainer: fc}, nil
	default:
		return fc, nil
	}
}
