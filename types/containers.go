package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// handle is the shared shape of engine-resident collection containers: an
// opaque ID plus the ordered label names keying the collection.
type handle struct {
	ID     string
	Labels []string
}

func (h *handle) payload(tag transport.Tag) (transport.Payload, error) {
	attrs := map[string]cty.Value{"id": cty.StringVal(h.ID)}
	if len(h.Labels) > 0 {
		vals := make([]cty.Value, len(h.Labels))
		for i, l := range h.Labels {
			vals[i] = cty.StringVal(l)
		}
		attrs["labels"] = cty.ListVal(vals)
	}
	return transport.ObjectPayload(tag, attrs), nil
}

func handleFromPayload(p transport.Payload) (handle, error) {
	id, err := p.Attr("id")
	if err != nil {
		return handle{}, err
	}
	h := handle{ID: id.AsString()}
	if labels, err := p.Attr("labels"); err == nil {
		for it := labels.ElementIterator(); it.Next(); {
			_, v := it.Element()
			h.Labels = append(h.Labels, v.AsString())
		}
	}
	return h, nil
}

// FieldsContainer is an engine-resident ordered collection of fields keyed
// by labels (typically the time step).
type FieldsContainer struct{ handle }

func (fc *FieldsContainer) Tag() transport.Tag { return transport.TagFieldsContainer }

func (fc *FieldsContainer) Payload() (transport.Payload, error) {
	return fc.payload(transport.TagFieldsContainer)
}

func FieldsContainerFromPayload(p transport.Payload) (*FieldsContainer, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &FieldsContainer{handle: h}, nil
}

// BodyFieldsContainer specializes a fields container whose fields were
// split by material body.
type BodyFieldsContainer struct{ *FieldsContainer }

// ElShapeFieldsContainer specializes a fields container whose fields were
// split by element shape (solid, shell, beam, unknown).
type ElShapeFieldsContainer struct{ *FieldsContainer }

// ScopingsContainer is an engine-resident collection of scopings.
type ScopingsContainer struct{ handle }

func (sc *ScopingsContainer) Tag() transport.Tag { return transport.TagScopingsCont }

func (sc *ScopingsContainer) Payload() (transport.Payload, error) {
	return sc.payload(transport.TagScopingsCont)
}

func ScopingsContainerFromPayload(p transport.Payload) (*ScopingsContainer, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &ScopingsContainer{handle: h}, nil
}

// MeshesContainer is an engine-resident collection of meshed regions.
type MeshesContainer struct{ handle }

func (mc *MeshesContainer) Tag() transport.Tag { return transport.TagMeshesContainer }

func (mc *MeshesContainer) Payload() (transport.Payload, error) {
	return mc.payload(transport.TagMeshesContainer)
}

func MeshesContainerFromPayload(p transport.Payload) (*MeshesContainer, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &MeshesContainer{handle: h}, nil
}

// StreamsContainer keeps the engine-side file streams open so repeated
// reads can reuse them.
type StreamsContainer struct{ handle }

func (st *StreamsContainer) Tag() transport.Tag { return transport.TagStreams }

func (st *StreamsContainer) Payload() (transport.Payload, error) {
	return st.payload(transport.TagStreams)
}

func StreamsContainerFromPayload(p transport.Payload) (*StreamsContainer, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &StreamsContainer{handle: h}, nil
}

// Stream is a single open engine-side stream.
type Stream struct{ handle }

func (s *Stream) Tag() transport.Tag { return transport.TagStream }

func (s *Stream) Payload() (transport.Payload, error) { return s.payload(transport.TagStream) }

func StreamFromPayload(p transport.Payload) (*Stream, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &Stream{handle: h}, nil
}

// CyclicSupport describes cyclic symmetry stages of a model.
type CyclicSupport struct{ handle }

func (cs *CyclicSupport) Tag() transport.Tag { return transport.TagCyclicSupport }

func (cs *CyclicSupport) Payload() (transport.Payload, error) {
	return cs.payload(transport.TagCyclicSupport)
}

func CyclicSupportFromPayload(p transport.Payload) (*CyclicSupport, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &CyclicSupport{handle: h}, nil
}

// FieldSupport is the abstract support a field's entities are defined on.
type FieldSupport struct{ handle }

func (fs *FieldSupport) Tag() transport.Tag { return transport.TagFieldSupport }

func (fs *FieldSupport) Payload() (transport.Payload, error) {
	return fs.payload(transport.TagFieldSupport)
}

func FieldSupportFromPayload(p transport.Payload) (*FieldSupport, error) {
	h, err := handleFromPayload(p)
	if err != nil {
		return nil, err
	}
	return &FieldSupport{handle: h}, nil
}
