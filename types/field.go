package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// Field is a per-entity array of values (scalar, vector or tensor) with a
// location and a scoping. A field is either engine-resident, in which case
// only its handle ID is held here, or built locally, in which case the data
// lives in Data and is inlined into any payload that carries the field.
type Field struct {
	// ID of the engine-resident field; empty for local fields.
	ID string

	Nature   Nature
	Location Location

	// ElemDataSize is the number of values per entity (1 scalar, 3 vector,
	// 6 symmatrix, rows*cols matrix).
	ElemDataSize int

	// Local payload; nil for remote fields.
	Data    []float64
	Scoping *Scoping
}

// Remote reports whether the field lives on the engine.
func (f *Field) Remote() bool { return f.ID != "" }

// Len returns the number of entities the field holds data for.
func (f *Field) Len() int {
	if f.Scoping != nil {
		return f.Scoping.Len()
	}
	return 0
}

// Tag implements transport tagging for pin type checks.
func (f *Field) Tag() transport.Tag { return transport.TagField }

// Payload encodes the field: remote fields as a handle, local ones with
// their data inline.
func (f *Field) Payload() (transport.Payload, error) {
	if f.Remote() {
		return transport.ObjectPayload(transport.TagField, map[string]cty.Value{
			"id": cty.StringVal(f.ID),
		}), nil
	}
	data := cty.ListValEmpty(cty.Number)
	if len(f.Data) > 0 {
		vals := make([]cty.Value, len(f.Data))
		for i, v := range f.Data {
			vals[i] = cty.NumberFloatVal(v)
		}
		data = cty.ListVal(vals)
	}
	scoping := cty.ListValEmpty(cty.Number)
	if f.Scoping != nil && len(f.Scoping.IDs) > 0 {
		vals := make([]cty.Value, len(f.Scoping.IDs))
		for i, id := range f.Scoping.IDs {
			vals[i] = cty.NumberIntVal(int64(id))
		}
		scoping = cty.ListVal(vals)
	}
	return transport.ObjectPayload(transport.TagField, map[string]cty.Value{
		"nature":         cty.StringVal(string(f.Nature)),
		"location":       cty.StringVal(string(f.Location)),
		"elem_data_size": cty.NumberIntVal(int64(f.ElemDataSize)),
		"data":           data,
		"scoping_ids":    scoping,
	}), nil
}

// FieldFromPayload decodes a field payload. Handles decode to remote
// fields; inline payloads decode to local ones.
func FieldFromPayload(p transport.Payload) (*Field, error) {
	if id, err := p.Attr("id"); err == nil {
		f := &Field{ID: id.AsString()}
		if loc, err := p.Attr("location"); err == nil {
			f.Location = Location(loc.AsString())
		}
		if nat, err := p.Attr("nature"); err == nil {
			f.Nature = Nature(nat.AsString())
		}
		return f, nil
	}
	f := &Field{}
	if nat, err := p.Attr("nature"); err == nil {
		f.Nature = Nature(nat.AsString())
	}
	if loc, err := p.Attr("location"); err == nil {
		f.Location = Location(loc.AsString())
	}
	if size, err := p.Attr("elem_data_size"); err == nil {
		n, _ := size.AsBigFloat().Int64()
		f.ElemDataSize = int(n)
	}
	if data, err := p.Attr("data"); err == nil {
		for it := data.ElementIterator(); it.Next(); {
			_, v := it.Element()
			fv, _ := v.AsBigFloat().Float64()
			f.Data = append(f.Data, fv)
		}
	}
	if ids, err := p.Attr("scoping_ids"); err == nil {
		var sids []int
		for it := ids.ElementIterator(); it.Next(); {
			_, v := it.Element()
			n, _ := v.AsBigFloat().Int64()
			sids = append(sids, int(n))
		}
		f.Scoping = &Scoping{IDs: sids, Location: f.Location}
	}
	return f, nil
}
