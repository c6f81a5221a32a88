package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// MeshedRegion is a handle on an engine-resident mesh, along with the
// summary counts and named selections the provider reports when the mesh
// is read.
type MeshedRegion struct {
	ID                       string
	NodeCount                int
	ElementCount             int
	Unit                     string
	AvailableNamedSelections []string
}

func (m *MeshedRegion) Tag() transport.Tag { return transport.TagMeshedRegion }

func (m *MeshedRegion) Payload() (transport.Payload, error) {
	return transport.ObjectPayload(transport.TagMeshedRegion, map[string]cty.Value{
		"id": cty.StringVal(m.ID),
	}), nil
}

// MeshedRegionFromPayload decodes a mesh provider response.
func MeshedRegionFromPayload(p transport.Payload) (*MeshedRegion, error) {
	id, err := p.Attr("id")
	if err != nil {
		return nil, err
	}
	m := &MeshedRegion{ID: id.AsString()}
	if v, err := p.Attr("node_count"); err == nil {
		n, _ := v.AsBigFloat().Int64()
		m.NodeCount = int(n)
	}
	if v, err := p.Attr("element_count"); err == nil {
		n, _ := v.AsBigFloat().Int64()
		m.ElementCount = int(n)
	}
	if v, err := p.Attr("unit"); err == nil {
		m.Unit = v.AsString()
	}
	if v, err := p.Attr("named_selections"); err == nil {
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			m.AvailableNamedSelections = append(m.AvailableNamedSelections, e.AsString())
		}
	}
	return m, nil
}
