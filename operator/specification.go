package operator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/fempost/transport"
)

// PinSpecification describes one named, typed input or output slot of an
// operator. It is purely declarative and immutable once built.
type PinSpecification struct {
	Name      string
	TypeNames []transport.Tag
	Optional  bool
	Document  string
}

// Accepts reports whether the pin's accepted type set contains the tag.
func (p PinSpecification) Accepts(tag transport.Tag) bool {
	for _, t := range p.TypeNames {
		if t == tag {
			return true
		}
	}
	return false
}

// AcceptsAny reports whether any of the tags is in the accepted set.
func (p PinSpecification) AcceptsAny(tags []transport.Tag) bool {
	for _, t := range tags {
		if p.Accepts(t) {
			return true
		}
	}
	return false
}

// Specification maps wire pin indices to pin descriptions, separately for
// inputs and outputs. Indices are sparse and stable per operator kind:
// they are the identifiers sent to the engine, not array offsets.
type Specification struct {
	Description   string
	Inputs        map[int]PinSpecification
	Outputs       map[int]PinSpecification
	DefaultConfig map[string]string
}

// InputPin looks up an input pin by index.
func (s *Specification) InputPin(pin int) (PinSpecification, error) {
	ps, ok := s.Inputs[pin]
	if !ok {
		return PinSpecification{}, fmt.Errorf("no input pin %d declared", pin)
	}
	return ps, nil
}

// OutputPin looks up an output pin by index.
func (s *Specification) OutputPin(pin int) (PinSpecification, error) {
	ps, ok := s.Outputs[pin]
	if !ok {
		return PinSpecification{}, fmt.Errorf("no output pin %d declared", pin)
	}
	return ps, nil
}

// InputPinByName finds a declared input pin by its name.
func (s *Specification) InputPinByName(name string) (int, PinSpecification, bool) {
	for idx, ps := range s.Inputs {
		if ps.Name == name {
			return idx, ps, true
		}
	}
	return 0, PinSpecification{}, false
}

// OutputPinByName finds a declared output pin by its name.
func (s *Specification) OutputPinByName(name string) (int, PinSpecification, bool) {
	for idx, ps := range s.Outputs {
		if ps.Name == name {
			return idx, ps, true
		}
	}
	return 0, PinSpecification{}, false
}

// FirstOutputPin returns the lowest declared output pin index.
func (s *Specification) FirstOutputPin() (int, PinSpecification, bool) {
	best := -1
	for idx := range s.Outputs {
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return 0, PinSpecification{}, false
	}
	return best, s.Outputs[best], true
}

// Clone returns an independent deep copy. Registry lookups hand out clones
// so that no two operator instances share descriptor state.
func (s *Specification) Clone() *Specification {
	out := &Specification{
		Description: s.Description,
		Inputs:      make(map[int]PinSpecification, len(s.Inputs)),
		Outputs:     make(map[int]PinSpecification, len(s.Outputs)),
	}
	for idx, ps := range s.Inputs {
		ps.TypeNames = append([]transport.Tag(nil), ps.TypeNames...)
		out.Inputs[idx] = ps
	}
	for idx, ps := range s.Outputs {
		ps.TypeNames = append([]transport.Tag(nil), ps.TypeNames...)
		out.Outputs[idx] = ps
	}
	if s.DefaultConfig != nil {
		out.DefaultConfig = make(map[string]string, len(s.DefaultConfig))
		for k, v := range s.DefaultConfig {
			out.DefaultConfig[k] = v
		}
	}
	return out
}

// String renders the specification as help text: the description followed
// by the declared pins in index order.
func (s *Specification) String() string {
	var b strings.Builder
	b.WriteString(s.Description)
	b.WriteString("\n")
	writePins := func(header string, pins map[int]PinSpecification) {
		if len(pins) == 0 {
			return
		}
		b.WriteString(header)
		b.WriteString("\n")
		indices := make([]int, 0, len(pins))
		for idx := range pins {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			ps := pins[idx]
			opt := ""
			if ps.Optional {
				opt = " (optional)"
			}
			tags := make([]string, len(ps.TypeNames))
			for i, t := range ps.TypeNames {
				tags[i] = string(t)
			}
			fmt.Fprintf(&b, "  %2d  %s%s: %s\n", idx, ps.Name, opt, strings.Join(tags, ", "))
		}
	}
	writePins("inputs:", s.Inputs)
	writePins("outputs:", s.Outputs)
	return b.String()
}
