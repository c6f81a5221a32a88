package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/types"
)

func TestDataSources_VersionMovesOnEveryMutation(t *testing.T) {
	ds := types.NewDataSources()
	assert.Zero(t, ds.Version())

	ds.SetResultFilePath("/tmp/file.rst")
	assert.Equal(t, uint64(1), ds.Version())

	ds.AddFilePath("dat", "/tmp/extra.dat")
	assert.Equal(t, uint64(2), ds.Version())

	ds.SetResultFilePath("/tmp/other.rst")
	assert.Equal(t, uint64(3), ds.Version())
	assert.Equal(t, "/tmp/other.rst", ds.ResultFilePath())
}

func TestScoping_PayloadRoundTrip(t *testing.T) {
	s := types.NewScoping([]int{5, 3, 8}, types.Elemental)

	p, err := s.Payload()
	require.NoError(t, err)
	assert.Equal(t, transport.TagScoping, p.Tag)

	decoded, err := types.ScopingFromPayload(p)
	require.NoError(t, err)
	assert.Equal(t, s.IDs, decoded.IDs)
	assert.Equal(t, s.Location, decoded.Location)
}

func TestField_RemotePayloadIsAHandle(t *testing.T) {
	f := &types.Field{ID: "field-7", Nature: types.NatureVector, Location: types.Nodal}
	require.True(t, f.Remote())

	p, err := f.Payload()
	require.NoError(t, err)

	id, err := p.Attr("id")
	require.NoError(t, err)
	assert.Equal(t, "field-7", id.AsString())
	_, err = p.Attr("data")
	assert.Error(t, err, "remote fields never inline data")
}

func TestField_LocalPayloadInlinesData(t *testing.T) {
	f := &types.Field{
		Nature:       types.NatureScalar,
		Location:     types.Nodal,
		ElemDataSize: 1,
		Data:         []float64{1.5, 2.5},
		Scoping:      types.NewScoping([]int{1, 2}, types.Nodal),
	}
	require.False(t, f.Remote())
	assert.Equal(t, 2, f.Len())

	p, err := f.Payload()
	require.NoError(t, err)

	decoded, err := types.FieldFromPayload(p)
	require.NoError(t, err)
	assert.False(t, decoded.Remote())
	assert.Equal(t, f.Data, decoded.Data)
	require.NotNil(t, decoded.Scoping)
	assert.Equal(t, []int{1, 2}, decoded.Scoping.IDs)
}

func TestFromPayload_DispatchesOnTheTag(t *testing.T) {
	sp, err := types.NewScoping([]int{1}, types.Nodal).Payload()
	require.NoError(t, err)

	v, err := types.FromPayload(sp)
	require.NoError(t, err)
	_, isScoping := v.(*types.Scoping)
	assert.True(t, isScoping, "got %T", v)

	_, err = types.FromPayload(transport.Payload{Tag: "no_such_tag"})
	require.Error(t, err)
}

func TestFromPayload_CoversEveryContainerTag(t *testing.T) {
	payloads := []interface {
		Payload() (transport.Payload, error)
	}{
		&types.FieldsContainer{},
		&types.ScopingsContainer{},
		&types.MeshesContainer{},
		&types.StreamsContainer{},
		&types.Stream{},
		&types.CyclicSupport{},
		&types.FieldSupport{},
	}
	for _, src := range payloads {
		p, err := src.Payload()
		require.NoError(t, err)
		v, err := types.FromPayload(p)
		require.NoError(t, err, "no decoder for tag %q", p.Tag)
		assert.IsType(t, src, v)
	}
}

func TestFieldsCollection_SplitWrappersExposeTheContainer(t *testing.T) {
	fc := &types.FieldsContainer{}

	var c types.FieldsCollection = &types.BodyFieldsContainer{FieldsContainer: fc}
	assert.Same(t, fc, c.FieldsContainerRef())

	c = &types.ElShapeFieldsContainer{FieldsContainer: fc}
	assert.Same(t, fc, c.FieldsContainerRef())
}
