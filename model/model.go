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

// Config carries everything a Model needs. The transport is required and
// explicit: there is no process-wide default connection.
type Config struct {
	// Transport is the connection to the engine.
	Transport transport.Transport

	// Registry is the operator specification table. Nil loads the
	// embedded builtin table.
	Registry *operator.Registry

	// DataSources to open. When nil, ResultFile is used; when that is
	// empty too, the model starts over an empty data source set.
	DataSources *types.DataSources
	ResultFile  string
}

// Model wraps one data source and exposes its metadata and available
// results. Opening a model performs the initial engine round trips
// (stream provider wiring, result info load), so construction can fail.
type Model struct {
	tr       transport.Transport
	reg      *operator.Registry
	metadata *Metadata
	results  *Results
}

// New opens a model over the configured data sources.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.Transport == nil {
		return nil, errors.New("model: a transport is required")
	}
	reg := cfg.Registry
	if reg == nil {
		var err error
		reg, err = operator.LoadRegistry()
		if err != nil {
			return nil, fmt.Errorf("loading operator registry: %w", err)
		}
	}

	ds := cfg.DataSources
	if ds == nil {
		if cfg.ResultFile != "" {
			ds = types.NewDataSourcesFrom(cfg.ResultFile)
		} else {
			ds = types.NewDataSources()
		}
	}

	m := &Model{tr: cfg.Transport, reg: reg}
	md, err := newMetadata(ctx, cfg.Transport, reg, ds)
	if err != nil {
		return nil, err
	}
	m.metadata = md

	results, err := newResults(ctx, m)
	if err != nil {
		return nil, err
	}
	m.results = results
	return m, nil
}

// Metadata returns the model's metadata facade.
func (m *Model) Metadata() *Metadata { return m.metadata }

// SetDataSources points the model at different data sources: the metadata
// is re-derived and the result registry rebuilt from the new result info.
// On failure the model keeps its previous metadata and results.
func (m *Model) SetDataSources(ctx context.Context, ds *types.DataSources) error {
	if err := m.metadata.SetDataSources(ctx, ds); err != nil {
		return err
	}
	results, err := newResults(ctx, m)
	if err != nil {
		return err
	}
	m.results = results
	return nil
}

// Results returns the registry of available results.
func (m *Model) Results() *Results { return m.results }

// Operator constructs an operator by remote name and connects the model's
// streams or data sources to it when the operator declares a matching pin.
// Names absent from the specification table come back as dynamic
// operators with unvalidated pins.
func (m *Model) Operator(name string) (*operator.Operator, error) {
	op, err := operator.New(name, m.tr, m.reg)
	if errors.Is(err, transport.ErrUnknownOperator) {
		op = operator.NewDynamic(name, m.tr)
	} else if err != nil {
		return nil, err
	}
	if err := m.connectProvider(op); err != nil {
		return nil, err
	}
	return op, nil
}

// connectProvider wires the model's stream provider (preferred) or data
// sources into an operator that declares the corresponding pin.
func (m *Model) connectProvider(op *operator.Operator) error {
	if _, _, ok := op.Specification().InputPinByName("streams_container"); ok {
		return op.Connect("streams_container", m.metadata.StreamsProvider())
	}
	if _, _, ok := op.Specification().InputPinByName("data_sources"); ok {
		return op.Connect("data_sources", m.metadata.DataSources())
	}
	return nil
}

// Describe renders a human-readable summary of the model: the available
// results, the mesh size, and the number of result sets.
func (m *Model) Describe(ctx context.Context) (string, error) {
	var b strings.Builder
	ri := m.metadata.ResultInfo()
	fmt.Fprintf(&b, "Analysis: %s (%s), unit system %s\n", ri.AnalysisType, ri.PhysicsType, ri.UnitSystem)
	b.WriteString("Available results:\n")
	for _, name := range m.results.Names() {
		fmt.Fprintf(&b, "  - %s\n", name)
	}

	mesh, err := m.metadata.MeshedRegion(ctx)
	if err != nil {
		return "", fmt.Errorf("reading mesh: %w", err)
	}
	fmt.Fprintf(&b, "Mesh: %d nodes, %d elements\n", mesh.NodeCount, mesh.ElementCount)

	tf, err := m.metadata.TimeFreqSupport(ctx)
	if err != nil {
		return "", fmt.Errorf("reading time/freq support: %w", err)
	}
	fmt.Fprintf(&b, "Result sets: %d\n", tf.NSets)
	return b.String(), nil
}
