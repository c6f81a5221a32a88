package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// Scoping is an ordered set of mesh entity IDs plus the location they live
// at. It is a plain client-side value; the full ID list travels with every
// payload that references it.
type Scoping struct {
	IDs      []int
	Location Location
}

// NewScoping builds a scoping over the given IDs at the given location.
func NewScoping(ids []int, location Location) *Scoping {
	return &Scoping{IDs: ids, Location: location}
}

// Len returns the number of entity IDs in the scoping.
func (s *Scoping) Len() int { return len(s.IDs) }

// Tag implements transport tagging for pin type checks.
func (s *Scoping) Tag() transport.Tag { return transport.TagScoping }

// Payload encodes the scoping for the wire.
func (s *Scoping) Payload() (transport.Payload, error) {
	ids := cty.ListValEmpty(cty.Number)
	if len(s.IDs) > 0 {
		vals := make([]cty.Value, len(s.IDs))
		for i, id := range s.IDs {
			vals[i] = cty.NumberIntVal(int64(id))
		}
		ids = cty.ListVal(vals)
	}
	return transport.ObjectPayload(transport.TagScoping, map[string]cty.Value{
		"ids":      ids,
		"location": cty.StringVal(string(s.Location)),
	}), nil
}

// ScopingFromPayload decodes a scoping payload.
func ScopingFromPayload(p transport.Payload) (*Scoping, error) {
	idsVal, err := p.Attr("ids")
	if err != nil {
		return nil, err
	}
	locVal, err := p.Attr("location")
	if err != nil {
		return nil, err
	}
	var ids []int
	for it := idsVal.ElementIterator(); it.Next(); {
		_, v := it.Element()
		n, _ := v.AsBigFloat().Int64()
		ids = append(ids, int(n))
	}
	return &Scoping{IDs: ids, Location: Location(locVal.AsString())}, nil
}
