package transport

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Tag identifies the wire type of a payload. The set of tags is closed:
// a pin declares which tags it accepts, and a conforming transport must
// reject anything else. Tags use the engine's own spelling so they can be
// sent verbatim as wire identifiers.
type Tag string

const (
	TagBool            Tag = "bool"
	TagInt             Tag = "int32"
	TagDouble          Tag = "double"
	TagString          Tag = "string"
	TagVectorInt       Tag = "vector<int32>"
	TagVectorDouble    Tag = "vector<double>"
	TagField           Tag = "field"
	TagFieldsContainer Tag = "fields_container"
	TagScoping         Tag = "scoping"
	TagScopingsCont    Tag = "scopings_container"
	TagMeshedRegion    Tag = "abstract_meshed_region"
	TagMeshesContainer Tag = "meshes_container"
	TagDataSources     Tag = "data_sources"
	TagStreams         Tag = "streams_container"
	TagStream          Tag = "stream"
	TagTimeFreqSupport Tag = "time_freq_support"
	TagResultInfo      Tag = "result_info"
	TagCyclicSupport   Tag = "cyclic_support"
	TagFieldSupport    Tag = "abstract_field_support"
)

// Payload is one typed value crossing the wire: a type tag plus the data
// itself, held as a cty.Value so that scalars, vectors and structured
// container handles share one representation.
type Payload struct {
	Tag   Tag
	Value cty.Value
}

// Literal payload constructors. Containers build their own payloads in the
// types package; everything below covers the primitive pin types.

func BoolPayload(v bool) Payload {
	return Payload{Tag: TagBool, Value: cty.BoolVal(v)}
}

func IntPayload(v int) Payload {
	return Payload{Tag: TagInt, Value: cty.NumberIntVal(int64(v))}
}

func DoublePayload(v float64) Payload {
	return Payload{Tag: TagDouble, Value: cty.NumberFloatVal(v)}
}

func StringPayload(v string) Payload {
	return Payload{Tag: TagString, Value: cty.StringVal(v)}
}

func IntVectorPayload(v []int) Payload {
	if len(v) == 0 {
		return Payload{Tag: TagVectorInt, Value: cty.ListValEmpty(cty.Number)}
	}
	vals := make([]cty.Value, len(v))
	for i, n := range v {
		vals[i] = cty.NumberIntVal(int64(n))
	}
	return Payload{Tag: TagVectorInt, Value: cty.ListVal(vals)}
}

func DoubleVectorPayload(v []float64) Payload {
	if len(v) == 0 {
		return Payload{Tag: TagVectorDouble, Value: cty.ListValEmpty(cty.Number)}
	}
	vals := make([]cty.Value, len(v))
	for i, f := range v {
		vals[i] = cty.NumberFloatVal(f)
	}
	return Payload{Tag: TagVectorDouble, Value: cty.ListVal(vals)}
}

// ObjectPayload builds a structured payload for container types.
func ObjectPayload(tag Tag, attrs map[string]cty.Value) Payload {
	return Payload{Tag: tag, Value: cty.ObjectVal(attrs)}
}

// AsBool unwraps a bool payload.
func (p Payload) AsBool() (bool, error) {
	if p.Tag != TagBool {
		return false, fmt.Errorf("payload is %q, not %q", p.Tag, TagBool)
	}
	return p.Value.True(), nil
}

// AsInt unwraps an int32 payload.
func (p Payload) AsInt() (int, error) {
	if p.Tag != TagInt {
		return 0, fmt.Errorf("payload is %q, not %q", p.Tag, TagInt)
	}
	n, _ := p.Value.AsBigFloat().Int64()
	return int(n), nil
}

// AsDouble unwraps a double payload.
func (p Payload) AsDouble() (float64, error) {
	if p.Tag != TagDouble {
		return 0, fmt.Errorf("payload is %q, not %q", p.Tag, TagDouble)
	}
	f, _ := p.Value.AsBigFloat().Float64()
	return f, nil
}

// AsString unwraps a string payload.
func (p Payload) AsString() (string, error) {
	if p.Tag != TagString {
		return "", fmt.Errorf("payload is %q, not %q", p.Tag, TagString)
	}
	return p.Value.AsString(), nil
}

// AsIntSlice unwraps a vector<int32> payload.
func (p Payload) AsIntSlice() ([]int, error) {
	if p.Tag != TagVectorInt {
		return nil, fmt.Errorf("payload is %q, not %q", p.Tag, TagVectorInt)
	}
	out := make([]int, 0, p.Value.LengthInt())
	for it := p.Value.ElementIterator(); it.Next(); {
		_, v := it.Element()
		n, _ := v.AsBigFloat().Int64()
		out = append(out, int(n))
	}
	return out, nil
}

// AsDoubleSlice unwraps a vector<double> payload.
func (p Payload) AsDoubleSlice() ([]float64, error) {
	if p.Tag != TagVectorDouble {
		return nil, fmt.Errorf("payload is %q, not %q", p.Tag, TagVectorDouble)
	}
	out := make([]float64, 0, p.Value.LengthInt())
	for it := p.Value.ElementIterator(); it.Next(); {
		_, v := it.Element()
		f, _ := v.AsBigFloat().Float64()
		out = append(out, f)
	}
	return out, nil
}

// Attr returns a named attribute of a structured container payload.
func (p Payload) Attr(name string) (cty.Value, error) {
	ty := p.Value.Type()
	if !ty.IsObjectType() || !ty.HasAttribute(name) {
		return cty.NilVal, fmt.Errorf("payload %q has no attribute %q", p.Tag, name)
	}
	return p.Value.GetAttr(name), nil
}

type payloadJSON struct {
	Tag   Tag             `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the payload as {"type": tag, "value": ctyjson}.
func (p Payload) MarshalJSON() ([]byte, error) {
	raw, err := ctyjson.Marshal(p.Value, p.Value.Type())
	if err != nil {
		return nil, fmt.Errorf("marshaling %q payload: %w", p.Tag, err)
	}
	return json.Marshal(payloadJSON{Tag: p.Tag, Value: raw})
}

// UnmarshalJSON decodes a payload, inferring the cty type from the JSON
// structure itself.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var pj payloadJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	ty, err := ctyjson.ImpliedType(pj.Value)
	if err != nil {
		return fmt.Errorf("inferring type of %q payload: %w", pj.Tag, err)
	}
	val, err := ctyjson.Unmarshal(pj.Value, ty)
	if err != nil {
		return fmt.Errorf("unmarshaling %q payload: %w", pj.Tag, err)
	}
	p.Tag = pj.Tag
	p.Value = val
	return nil
}
