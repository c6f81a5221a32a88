package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// AvailableResult describes one physical quantity a result file can
// provide: its scripting name, the engine operator that reads it, and the
// location its native scoping lives at.
type AvailableResult struct {
	Name           string
	OperatorName   string
	Unit           string
	Homogeneity    string
	NativeLocation Location
}

// ResultInfo is the engine's description of everything a result file
// offers. It is loaded once per data source and drives the dynamic result
// registry on the model.
type ResultInfo struct {
	AnalysisType string
	PhysicsType  string
	UnitSystem   string
	Results      []AvailableResult
}

func (ri *ResultInfo) Tag() transport.Tag { return transport.TagResultInfo }

func (ri *ResultInfo) Payload() (transport.Payload, error) {
	results := make([]cty.Value, len(ri.Results))
	for i, r := range ri.Results {
		results[i] = cty.ObjectVal(map[string]cty.Value{
			"name":            cty.StringVal(r.Name),
			"operator_name":   cty.StringVal(r.OperatorName),
			"unit":            cty.StringVal(r.Unit),
			"homogeneity":     cty.StringVal(r.Homogeneity),
			"native_location": cty.StringVal(string(r.NativeLocation)),
		})
	}
	attrs := map[string]cty.Value{
		"analysis_type": cty.StringVal(ri.AnalysisType),
		"physics_type":  cty.StringVal(ri.PhysicsType),
		"unit_system":   cty.StringVal(ri.UnitSystem),
	}
	if len(results) > 0 {
		attrs["results"] = cty.TupleVal(results)
	}
	return transport.ObjectPayload(transport.TagResultInfo, attrs), nil
}

// ResultInfoFromPayload decodes a result info provider response.
func ResultInfoFromPayload(p transport.Payload) (*ResultInfo, error) {
	ri := &ResultInfo{}
	if v, err := p.Attr("analysis_type"); err == nil {
		ri.AnalysisType = v.AsString()
	}
	if v, err := p.Attr("physics_type"); err == nil {
		ri.PhysicsType = v.AsString()
	}
	if v, err := p.Attr("unit_system"); err == nil {
		ri.UnitSystem = v.AsString()
	}
	if results, err := p.Attr("results"); err == nil {
		for it := results.ElementIterator(); it.Next(); {
			_, rv := it.Element()
			var r AvailableResult
			if rv.Type().HasAttribute("name") {
				r.Name = rv.GetAttr("name").AsString()
			}
			if rv.Type().HasAttribute("operator_name") {
				r.OperatorName = rv.GetAttr("operator_name").AsString()
			}
			if rv.Type().HasAttribute("unit") {
				r.Unit = rv.GetAttr("unit").AsString()
			}
			if rv.Type().HasAttribute("homogeneity") {
				r.Homogeneity = rv.GetAttr("homogeneity").AsString()
			}
			if rv.Type().HasAttribute("native_location") {
				r.NativeLocation = Location(rv.GetAttr("native_location").AsString())
			}
			ri.Results = append(ri.Results, r)
		}
	}
	return ri, nil
}
