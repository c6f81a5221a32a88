package operator

import (
	_ "embed"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/fempost/transport"
)

//go:embed specs.hcl
var builtinSpecs []byte

// resultProviderTemplate is the manifest entry cloned for result operators
// the engine reports but the table does not name individually. Every
// result provider shares the same pin layout.
const resultProviderTemplate = "::result_provider"

// --- manifest schema ---

// pinDefinition is one `input` or `output` block of an operator manifest.
type pinDefinition struct {
	Name     string   `hcl:"name,label"`
	Pin      int      `hcl:"pin"`
	Types    []string `hcl:"types"`
	Optional bool     `hcl:"optional,optional"`
	Doc      string   `hcl:"doc,optional"`
}

// operatorDefinition is one `operator` block: the full pin table of a
// remote operator, keyed by its engine name.
type operatorDefinition struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Config      map[string]string `hcl:"config,optional"`
	Inputs      []*pinDefinition  `hcl:"input,block"`
	Outputs     []*pinDefinition  `hcl:"output,block"`
}

type specConfig struct {
	Operators []*operatorDefinition `hcl:"operator,block"`
}

// Registry holds the parsed operator specification table. It is immutable
// after load; lookups return independent copies.
type Registry struct {
	specs map[string]*Specification
}

// LoadRegistry parses the embedded specification manifest.
func LoadRegistry() (*Registry, error) {
	return loadRegistry(builtinSpecs, "specs.hcl")
}

func loadRegistry(src []byte, filename string) (*Registry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse operator manifest %s: %s", filename, diags.Error())
	}

	var config specConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode operator manifest %s: %s", filename, diags.Error())
	}

	reg := &Registry{specs: make(map[string]*Specification, len(config.Operators))}
	for _, def := range config.Operators {
		if _, exists := reg.specs[def.Name]; exists {
			return nil, fmt.Errorf("operator %q declared twice in %s", def.Name, filename)
		}
		spec, err := specFromDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", def.Name, err)
		}
		reg.specs[def.Name] = spec
	}
	return reg, nil
}

func specFromDefinition(def *operatorDefinition) (*Specification, error) {
	spec := &Specification{
		Description:   def.Description,
		Inputs:        make(map[int]PinSpecification, len(def.Inputs)),
		Outputs:       make(map[int]PinSpecification, len(def.Outputs)),
		DefaultConfig: def.Config,
	}
	decode := func(pins []*pinDefinition, into map[int]PinSpecification) error {
		for _, pd := range pins {
			if _, dup := into[pd.Pin]; dup {
				return fmt.Errorf("pin index %d declared twice", pd.Pin)
			}
			tags := make([]transport.Tag, len(pd.Types))
			for i, t := range pd.Types {
				tags[i] = transport.Tag(t)
			}
			into[pd.Pin] = PinSpecification{
				Name:      pd.Name,
				TypeNames: tags,
				Optional:  pd.Optional,
				Document:  pd.Doc,
			}
		}
		return nil
	}
	if err := decode(def.Inputs, spec.Inputs); err != nil {
		return nil, err
	}
	if err := decode(def.Outputs, spec.Outputs); err != nil {
		return nil, err
	}
	return spec, nil
}

// Has reports whether the table names the operator.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Spec returns an independent copy of the named operator's specification,
// or transport.ErrUnknownOperator when the table does not name it.
func (r *Registry) Spec(name string) (*Specification, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, transport.ErrUnknownOperator)
	}
	return spec.Clone(), nil
}

// ResultProviderSpec returns the specification for a result provider
// operator: the table entry when one exists, otherwise a clone of the
// generic result provider template.
func (r *Registry) ResultProviderSpec(name string) (*Specification, error) {
	if spec, ok := r.specs[name]; ok {
		return spec.Clone(), nil
	}
	tmpl, ok := r.specs[resultProviderTemplate]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, transport.ErrUnknownOperator)
	}
	spec := tmpl.Clone()
	spec.Description = fmt.Sprintf("Reads or computes the %q result.", name)
	return spec, nil
}
