package types

import (
	"fmt"

	"github.com/vk/fempost/transport"
)

// FromPayload decodes a payload into the container or primitive value its
// tag declares. Output bindings use this to hand callers a ready-made
// value instead of a raw payload.
func FromPayload(p transport.Payload) (any, error) {
	switch p.Tag {
	case transport.TagBool:
		return p.AsBool()
	case transport.TagInt:
		return p.AsInt()
	case transport.TagDouble:
		return p.AsDouble()
	case transport.TagString:
		return p.AsString()
	case transport.TagVectorInt:
		return p.AsIntSlice()
	case transport.TagVectorDouble:
		return p.AsDoubleSlice()
	case transport.TagField:
		return FieldFromPayload(p)
	case transport.TagFieldsContainer:
		return FieldsContainerFromPayload(p)
	case transport.TagScoping:
		return ScopingFromPayload(p)
	case transport.TagScopingsCont:
		return ScopingsContainerFromPayload(p)
	case transport.TagMeshedRegion:
		return MeshedRegionFromPayload(p)
	case transport.TagMeshesContainer:
		return MeshesContainerFromPayload(p)
	case transport.TagStreams:
		return StreamsContainerFromPayload(p)
	case transport.TagStream:
		return StreamFromPayload(p)
	case transport.TagTimeFreqSupport:
		return TimeFreqSupportFromPayload(p)
	case transport.TagResultInfo:
		return ResultInfoFromPayload(p)
	case transport.TagCyclicSupport:
		return CyclicSupportFromPayload(p)
	case transport.TagFieldSupport:
		return FieldSupportFromPayload(p)
	default:
		return nil, fmt.Errorf("no decoder for payload tag %q", p.Tag)
	}
}
