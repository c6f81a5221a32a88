// Package fields contains constructors for pre-shaped field containers:
// remote reservations of scalar, vector, tensor and matrix fields, and
// local fields built from in-memory arrays.
package fields

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/types"
)

// ErrInvalidShape rejects arrays that map onto no field nature: anything
// other than a single column, three columns or six columns.
var ErrInvalidShape = errors.New("matrix must have 1, 3 or 6 columns")

// CreateScalarField reserves a remote field with one value per entity.
// Reservation is not resize: the field starts empty and grows as data is
// appended to it.
func CreateScalarField(ctx context.Context, tr transport.Transport, numEntities int, location types.Location) (*types.Field, error) {
	return create(ctx, tr, types.NatureScalar, numEntities, location, 1, nil)
}

// Create3DVectorField reserves a remote field with three components per
// entity.
func Create3DVectorField(ctx context.Context, tr transport.Transport, numEntities int, location types.Location) (*types.Field, error) {
	return create(ctx, tr, types.NatureVector, numEntities, location, 3, nil)
}

// CreateVectorField reserves a remote field with numComp components per
// entity.
func CreateVectorField(ctx context.Context, tr transport.Transport, numEntities, numComp int, location types.Location) (*types.Field, error) {
	return create(ctx, tr, types.NatureVector, numEntities, location, numComp, []int{numComp})
}

// CreateTensorField reserves a remote field with one symmetric 3*3 tensor
// (six values) per entity.
func CreateTensorField(ctx context.Context, tr transport.Transport, numEntities int, location types.Location) (*types.Field, error) {
	return create(ctx, tr, types.NatureSymMatrix, numEntities, location, 6, nil)
}

// CreateMatrixField reserves a remote field with a numLines*numCols matrix
// per entity.
func CreateMatrixField(ctx context.Context, tr transport.Transport, numEntities, numLines, numCols int, location types.Location) (*types.Field, error) {
	return create(ctx, tr, types.NatureMatrix, numEntities, location, numLines*numCols, []int{numLines, numCols})
}

func create(ctx context.Context, tr transport.Transport, nature types.Nature, numEntities int, location types.Location, elemSize int, dim []int) (*types.Field, error) {
	if numEntities < 0 {
		return nil, fmt.Errorf("number of entities must not be negative, got %d", numEntities)
	}
	if elemSize <= 0 {
		return nil, fmt.Errorf("elementary data size must be positive, got %d", elemSize)
	}
	id, err := tr.CreateField(ctx, transport.FieldRequest{
		Nature:      string(nature),
		Location:    string(location),
		ScopingSize: numEntities,
		DataSize:    numEntities * elemSize,
		Dim:         dim,
	})
	if err != nil {
		return nil, fmt.Errorf("reserving %s field: %w", nature, err)
	}
	return &types.Field{
		ID:           id,
		Nature:       nature,
		Location:     location,
		ElemDataSize: elemSize,
	}, nil
}

// FieldFromMatrix builds a local field from a dense matrix. One row per
// entity: a single column yields a scalar field, three columns a vector
// field, six columns a symmetric tensor field; anything else fails with
// ErrInvalidShape. No remote allocation happens. Scoping IDs are assigned
// sequentially from 1.
func FieldFromMatrix(m mat.Matrix) (*types.Field, error) {
	rows, cols := m.Dims()

	var nature types.Nature
	switch cols {
	case 1:
		nature = types.NatureScalar
	case 3:
		nature = types.NatureVector
	case 6:
		nature = types.NatureSymMatrix
	default:
		return nil, fmt.Errorf("%w, got %d", ErrInvalidShape, cols)
	}

	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return localField(nature, data, rows, cols), nil
}

// FieldFromSlice builds a local scalar field from a flat value slice, one
// entity per value.
func FieldFromSlice(data []float64) *types.Field {
	return localField(types.NatureScalar, append([]float64(nil), data...), len(data), 1)
}

func localField(nature types.Nature, data []float64, entities, elemSize int) *types.Field {
	ids := make([]int, entities)
	for i := range ids {
		ids[i] = i + 1
	}
	return &types.Field{
		Nature:       nature,
		Location:     types.Nodal,
		ElemDataSize: elemSize,
		Data:         data,
		Scoping:      types.NewScoping(ids, types.Nodal),
	}
}
