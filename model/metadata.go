package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/fempost/operator"
	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/types"
)

// ErrUnableToOpenResultFile replaces the engine's raw "results file is not
// defined in the Data sources" diagnostic with something actionable.
var ErrUnableToOpenResultFile = errors.New("unable to open result file")

// resultFileMissingDiagnostic is the engine diagnostic recognized and
// narrowed by loadResultInfo. Every other remote error passes through
// unchanged.
const resultFileMissingDiagnostic = "results file is not defined in the Data sources"

// Metadata resolves a data source into the providers the rest of the
// client depends on: the stream provider, the result info, the mesh and
// the time/frequency support.
//
// The mesh and time/freq support are cached against the data source's
// version counter: mutating or replacing the data sources invalidates
// them on the next read. Named selection lookups are never cached.
type Metadata struct {
	tr  transport.Transport
	reg *operator.Registry

	ds             *types.DataSources
	streamProvider *operator.Operator
	resultInfo     *types.ResultInfo

	mesh        *types.MeshedRegion
	meshVersion uint64

	timeFreq        *types.TimeFreqSupport
	timeFreqVersion uint64
}

func newMetadata(ctx context.Context, tr transport.Transport, reg *operator.Registry, ds *types.DataSources) (*Metadata, error) {
	md := &Metadata{tr: tr, reg: reg}
	if err := md.setDataSources(ctx, ds); err != nil {
		return nil, err
	}
	return md, nil
}

// DataSources returns the handle this metadata was derived from.
func (md *Metadata) DataSources() *types.DataSources { return md.ds }

// StreamsProvider returns the operator keeping the result file streams
// open. Its output is what other providers connect to.
func (md *Metadata) StreamsProvider() *operator.Operator { return md.streamProvider }

// ResultInfo returns the cached description of the available results.
func (md *Metadata) ResultInfo() *types.ResultInfo { return md.resultInfo }

// SetDataSources replaces the data sources and re-derives the stream
// provider and result info. Cached mesh and time/freq support are
// dropped. The swap is staged: on failure the metadata keeps its
// previous state. Callers holding a Model should go through
// Model.SetDataSources so the result registry follows.
func (md *Metadata) SetDataSources(ctx context.Context, ds *types.DataSources) error {
	return md.setDataSources(ctx, ds)
}

func (md *Metadata) setDataSources(ctx context.Context, ds *types.DataSources) error {
	if ds == nil {
		ds = types.NewDataSources()
	}
	sp, err := operator.New("stream_provider", md.tr, md.reg,
		operator.WithInput("data_sources", ds))
	if err != nil {
		return fmt.Errorf("building stream provider: %w", err)
	}
	ri, err := md.loadResultInfo(ctx, sp)
	if err != nil {
		return err
	}

	md.ds = ds
	md.streamProvider = sp
	md.resultInfo = ri
	md.mesh = nil
	md.timeFreq = nil
	return nil
}

func (md *Metadata) loadResultInfo(ctx context.Context, sp *operator.Operator) (*types.ResultInfo, error) {
	op, err := operator.New("ResultInfoProvider", md.tr, md.reg,
		operator.WithInput("streams_container", sp))
	if err != nil {
		return nil, err
	}
	out, err := op.Output("result_info")
	if err != nil {
		return nil, err
	}
	ri, err := out.EvalResultInfo(ctx)
	if err != nil {
		var rerr *transport.RemoteError
		if errors.As(err, &rerr) && strings.Contains(rerr.Message, resultFileMissingDiagnostic) {
			return nil, ErrUnableToOpenResultFile
		}
		return nil, err
	}
	return ri, nil
}

// MeshProvider returns a fresh mesh provider operator connected to the
// stream provider. The operator is not evaluated; it can be wired as an
// input to other operators.
func (md *Metadata) MeshProvider() (*operator.Operator, error) {
	return operator.New("MeshProvider", md.tr, md.reg,
		operator.WithInput("streams_container", md.streamProvider))
}

// MeshedRegion reads the mesh, caching it until the data sources change.
func (md *Metadata) MeshedRegion(ctx context.Context) (*types.MeshedRegion, error) {
	if md.mesh != nil && md.meshVersion == md.ds.Version() {
		return md.mesh, nil
	}
	mp, err := md.MeshProvider()
	if err != nil {
		return nil, err
	}
	out, err := mp.Output("mesh")
	if err != nil {
		return nil, err
	}
	mesh, err := out.EvalMeshedRegion(ctx)
	if err != nil {
		return nil, err
	}
	md.mesh = mesh
	md.meshVersion = md.ds.Version()
	return mesh, nil
}

// TimeFreqSupport reads the time/frequency support, caching it until the
// data sources change.
func (md *Metadata) TimeFreqSupport(ctx context.Context) (*types.TimeFreqSupport, error) {
	if md.timeFreq != nil && md.timeFreqVersion == md.ds.Version() {
		return md.timeFreq, nil
	}
	op, err := operator.New("TimeFreqSupportProvider", md.tr, md.reg,
		operator.WithInput("streams_container", md.streamProvider))
	if err != nil {
		return nil, err
	}
	out, err := op.Output("time_freq_support")
	if err != nil {
		return nil, err
	}
	tf, err := out.EvalTimeFreqSupport(ctx)
	if err != nil {
		return nil, err
	}
	md.timeFreq = tf
	md.timeFreqVersion = md.ds.Version()
	return tf, nil
}

// NamedSelection reads the scoping of a named selection. Lookups always
// round-trip; nothing is cached.
func (md *Metadata) NamedSelection(ctx context.Context, name string) (*types.Scoping, error) {
	op, err := operator.New("scoping_provider_by_ns", md.tr, md.reg,
		operator.WithInput("named_selection", name),
		operator.WithInput("streams_container", md.streamProvider))
	if err != nil {
		return nil, err
	}
	out, err := op.Output("mesh_scoping")
	if err != nil {
		return nil, err
	}
	return out.EvalScoping(ctx)
}

// AvailableNamedSelections lists the named selections of the mesh.
func (md *Metadata) AvailableNamedSelections(ctx context.Context) ([]string, error) {
	mesh, err := md.MeshedRegion(ctx)
	if err != nil {
		return nil, err
	}
	return mesh.AvailableNamedSelections, nil
}
