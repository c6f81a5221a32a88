package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/fempost/internal/ctxlog"
	"github.com/vk/fempost/transport"
	"github.com/vk/fempost/types"
)

// Results maps every physical quantity the result file offers onto a
// builder for its provider operator. The mapping is computed once from
// the model's result info; lookups hand out fresh Result builders.
type Results struct {
	m       *Model
	names   []string
	entries map[string]resultEntry
}

type resultEntry struct {
	info types.AvailableResult
}

// newResults registers one entry per available result. A result whose
// operator cannot be resolved is skipped rather than failing the whole
// registry; any other failure aborts, naming the result that caused it.
func newResults(ctx context.Context, m *Model) (*Results, error) {
	logger := ctxlog.FromContext(ctx)
	r := &Results{m: m, entries: make(map[string]resultEntry)}

	for _, info := range m.metadata.ResultInfo().Results {
		_, err := m.reg.ResultProviderSpec(info.OperatorName)
		if errors.Is(err, transport.ErrUnknownOperator) {
			logger.Debug("Skipping unavailable result.", "result", info.Name, "operator", info.OperatorName)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("registering result %q: %w", info.Name, err)
		}
		if _, dup := r.entries[info.Name]; dup {
			continue
		}
		r.names = append(r.names, info.Name)
		r.entries[info.Name] = resultEntry{info: info}
	}
	return r, nil
}

// Names lists the registered result names in result-info order.
func (r *Results) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of registered results.
func (r *Results) Len() int { return len(r.entries) }

// Get returns a fresh Result builder for the named quantity.
func (r *Results) Get(name string) (*Result, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return newResult(r.m, entry.info), true
}

func (r *Results) mustGet(name string) (*Result, error) {
	res, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("result %q is not available in this result file", name)
	}
	return res, nil
}

// Displacement returns a builder for the displacement result.
func (r *Results) Displacement() (*Result, error) { return r.mustGet("displacement") }

// Stress returns a builder for the stress result.
func (r *Results) Stress() (*Result, error) { return r.mustGet("stress") }

// ElasticStrain returns a builder for the elastic strain result.
func (r *Results) ElasticStrain() (*Result, error) { return r.mustGet("elastic_strain") }
