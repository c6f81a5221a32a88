package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/model"
	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/transport/transporttest"
	"github.com/vk/fempost/types"
)

// scriptStaticModel scripts the providers every model open needs: the
// stream provider and the result info with displacement, stress and
// elastic strain available.
func scriptStaticModel(t *testing.T) *transporttest.Stub {
	t.Helper()
	ri := &types.ResultInfo{
		AnalysisType: "static",
		PhysicsType:  "mechanical",
		UnitSystem:   "MKS",
		Results: []types.AvailableResult{
			{Name: "displacement", OperatorName: "U", Unit: "m", NativeLocation: types.Nodal},
			{Name: "stress", OperatorName: "S", Unit: "Pa", NativeLocation: types.ElementalNodal},
			{Name: "elastic_strain", OperatorName: "EPEL", NativeLocation: types.ElementalNodal},
		},
	}
	return transporttest.New().
		Respond("stream_provider", payloadOf(t, &types.StreamsContainer{})).
		Respond("ResultInfoProvider", payloadOf(t, ri))
}

func scriptMesh(t *testing.T, stub *transporttest.Stub, namedSelections ...string) {
	t.Helper()
	attrs := map[string]cty.Value{
		"id":            cty.StringVal("mesh-1"),
		"node_count":    cty.NumberIntVal(81),
		"element_count": cty.NumberIntVal(8),
		"unit":          cty.StringVal("m"),
	}
	if len(namedSelections) > 0 {
		vals := make([]cty.Value, len(namedSelections))
		for i, ns := range namedSelections {
			vals[i] = cty.StringVal(ns)
		}
		attrs["named_selections"] = cty.ListVal(vals)
	}
	stub.Respond("MeshProvider", transport.ObjectPayload(transport.TagMeshedRegion, attrs))
}

func scriptTimeFreq(t *testing.T, stub *transporttest.Stub, nsets int) {
	t.Helper()
	stub.Respond("TimeFreqSupportProvider", payloadOf(t, &types.TimeFreqSupport{NSets: nsets}))
}

func payloadOf(t *testing.T, v interface {
	Payload() (transport.Payload, error)
}) transport.Payload {
	t.Helper()
	p, err := v.Payload()
	require.NoError(t, err)
	return p
}

func openModel(t *testing.T, stub *transporttest.Stub) *model.Model {
	t.Helper()
	m, err := model.New(context.Background(), model.Config{
		Transport:  stub,
		ResultFile: "/tmp/file.rst",
	})
	require.NoError(t, err)
	return m
}

func TestNew_RequiresATransport(t *testing.T) {
	_, err := model.New(context.Background(), model.Config{})
	require.Error(t, err)
}

func TestNew_LoadsResultInfo(t *testing.T) {
	stub := scriptStaticModel(t)
	m := openModel(t, stub)

	ri := m.Metadata().ResultInfo()
	assert.Equal(t, "static", ri.AnalysisType)
	assert.Equal(t, "MKS", ri.UnitSystem)
	assert.Equal(t, []string{"displacement", "stress", "elastic_strain"}, m.Results().Names())

	// Opening a model evaluates the result info provider, which pulls its
	// streams from the stream provider.
	assert.Len(t, stub.CallsFor("ResultInfoProvider"), 1)
	assert.Len(t, stub.CallsFor("stream_provider"), 1)
}

func TestNew_MapsMissingResultFile(t *testing.T) {
	stub := transporttest.New().
		Respond("stream_provider", payloadOf(t, &types.StreamsContainer{})).
		Fail("ResultInfoProvider", "results file is not defined in the Data sources")

	_, err := model.New(context.Background(), model.Config{Transport: stub})
	require.ErrorIs(t, err, model.ErrUnableToOpenResultFile)
}

func TestNew_OtherRemoteErrorsPassThrough(t *testing.T) {
	stub := transporttest.New().
		Respond("stream_provider", payloadOf(t, &types.StreamsContainer{})).
		Fail("ResultInfoProvider", "file is corrupt")

	_, err := model.New(context.Background(), model.Config{Transport: stub})
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrUnableToOpenResultFile)

	var rerr *transport.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "file is corrupt", rerr.Message)
}

func TestMetadata_MeshedRegionIsCached(t *testing.T) {
	stub := scriptStaticModel(t)
	scriptMesh(t, stub, "BOLT", "FIXED_SUPPORT")
	m := openModel(t, stub)

	ctx := context.Background()
	mesh, err := m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 81, mesh.NodeCount)
	assert.Equal(t, 8, mesh.ElementCount)

	again, err := m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)
	assert.Same(t, mesh, again)
	assert.Len(t, stub.CallsFor("MeshProvider"), 1, "second read must come from the cache")

	ns, err := m.Metadata().AvailableNamedSelections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BOLT", "FIXED_SUPPORT"}, ns)
}

func TestMetadata_MutatingDataSourcesInvalidatesCaches(t *testing.T) {
	stub := scriptStaticModel(t)
	scriptMesh(t, stub)
	scriptTimeFreq(t, stub, 3)
	m := openModel(t, stub)

	ctx := context.Background()
	_, err := m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)
	_, err = m.Metadata().TimeFreqSupport(ctx)
	require.NoError(t, err)

	m.Metadata().DataSources().AddFilePath("dat", "/tmp/extra.dat")

	_, err = m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)
	_, err = m.Metadata().TimeFreqSupport(ctx)
	require.NoError(t, err)

	assert.Len(t, stub.CallsFor("MeshProvider"), 2, "mutation must drop the mesh cache")
	assert.Len(t, stub.CallsFor("TimeFreqSupportProvider"), 2, "mutation must drop the time/freq cache")
}

func TestModel_SetDataSourcesRebuildsResults(t *testing.T) {
	stub := scriptStaticModel(t)
	scriptMesh(t, stub)
	m := openModel(t, stub)

	ctx := context.Background()
	_, err := m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)

	stub.Respond("ResultInfoProvider", payloadOf(t, &types.ResultInfo{
		AnalysisType: "modal",
		Results: []types.AvailableResult{
			{Name: "displacement", OperatorName: "U", NativeLocation: types.Nodal},
		},
	}))

	require.NoError(t, m.SetDataSources(ctx, types.NewDataSourcesFrom("/tmp/other.rst")))

	assert.Equal(t, "modal", m.Metadata().ResultInfo().AnalysisType)
	assert.Equal(t, []string{"displacement"}, m.Results().Names(), "the result registry follows the new result info")
	assert.Equal(t, "/tmp/other.rst", m.Metadata().DataSources().ResultFilePath())

	_, err = m.Metadata().MeshedRegion(ctx)
	require.NoError(t, err)
	assert.Len(t, stub.CallsFor("MeshProvider"), 2, "the swap drops the mesh cache")
}

func TestModel_SetDataSourcesFailureKeepsPreviousState(t *testing.T) {
	stub := scriptStaticModel(t)
	m := openModel(t, stub)

	before := m.Metadata().DataSources()
	stub.Fail("ResultInfoProvider", "file is corrupt")

	err := m.SetDataSources(context.Background(), types.NewDataSourcesFrom("/tmp/broken.rst"))
	require.Error(t, err)

	assert.Same(t, before, m.Metadata().DataSources(), "a failed swap must not replace the data sources")
	assert.Equal(t, "static", m.Metadata().ResultInfo().AnalysisType)
	assert.Equal(t, []string{"displacement", "stress", "elastic_strain"}, m.Results().Names())
}

func TestMetadata_NamedSelectionIsNeverCached(t *testing.T) {
	stub := scriptStaticModel(t)
	stub.Respond("scoping_provider_by_ns",
		payloadOf(t, types.NewScoping([]int{5, 6}, types.Nodal)))
	m := openModel(t, stub)

	ctx := context.Background()
	s, err := m.Metadata().NamedSelection(ctx, "BOLT")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, s.IDs)

	_, err = m.Metadata().NamedSelection(ctx, "BOLT")
	require.NoError(t, err)
	assert.Len(t, stub.CallsFor("scoping_provider_by_ns"), 2)

	calls := stub.CallsFor("scoping_provider_by_ns")
	name, err := calls[0].Inputs[1].AsString()
	require.NoError(t, err)
	assert.Equal(t, "BOLT", name)
}

func TestModel_OperatorConnectsProviders(t *testing.T) {
	stub := scriptStaticModel(t)
	stub.Respond("U", payloadOf(t, &types.FieldsContainer{}))
	m := openModel(t, stub)

	op, err := m.Operator("U")
	require.NoError(t, err)

	require.NoError(t, op.Run(context.Background()))
	call, ok := stub.LastCall()
	require.True(t, ok)
	assert.Equal(t, "U", call.Operator)
	assert.Contains(t, call.Inputs, 3, "the model wires its stream provider in")
}

func TestModel_OperatorFallsBackToDynamic(t *testing.T) {
	stub := scriptStaticModel(t)
	stub.Respond("math::add", transport.DoublePayload(3))
	m := openModel(t, stub)

	op, err := m.Operator("math::add")
	require.NoError(t, err)
	require.NoError(t, op.ConnectPin(0, 1.0))
	require.NoError(t, op.ConnectPin(1, 2.0))

	v, err := op.EvalPin(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestModel_Describe(t *testing.T) {
	stub := scriptStaticModel(t)
	scriptMesh(t, stub)
	scriptTimeFreq(t, stub, 2)
	m := openModel(t, stub)

	summary, err := m.Describe(context.Background())
	require.NoError(t, err)

	assert.Contains(t, summary, "static")
	assert.Contains(t, summary, "displacement")
	assert.Contains(t, summary, "81 nodes")
	assert.Contains(t, summary, "Result sets: 2")
}

func TestResults_Lookup(t *testing.T) {
	stub := scriptStaticModel(t)
	m := openModel(t, stub)

	assert.Equal(t, 3, m.Results().Len())

	res, ok := m.Results().Get("stress")
	require.True(t, ok)
	assert.Equal(t, "S", res.Info().OperatorName)

	_, ok = m.Results().Get("temperature")
	assert.False(t, ok)

	_, err := m.Results().Displacement()
	require.NoError(t, err)
	_, err = m.Results().ElasticStrain()
	require.NoError(t, err)
}

func TestResults_GetHandsOutFreshBuilders(t *testing.T) {
	stub := scriptStaticModel(t)
	m := openModel(t, stub)

	first, ok := m.Results().Get("displacement")
	require.True(t, ok)
	first.OnLastTimeFreq()

	second, ok := m.Results().Get("displacement")
	require.True(t, ok)
	assert.NotSame(t, first, second, "selector state must not leak across lookups")
}
