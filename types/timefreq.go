package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// TimeFreqSupport describes the time or frequency sets a result file
// holds. Set IDs are 1-based: set n corresponds to TimeFrequencies[n-1].
type TimeFreqSupport struct {
	NSets           int
	TimeFrequencies []float64
}

func (tf *TimeFreqSupport) Tag() transport.Tag { return transport.TagTimeFreqSupport }

func (tf *TimeFreqSupport) Payload() (transport.Payload, error) {
	freqs := cty.ListValEmpty(cty.Number)
	if len(tf.TimeFrequencies) > 0 {
		vals := make([]cty.Value, len(tf.TimeFrequencies))
		for i, f := range tf.TimeFrequencies {
			vals[i] = cty.NumberFloatVal(f)
		}
		freqs = cty.ListVal(vals)
	}
	return transport.ObjectPayload(transport.TagTimeFreqSupport, map[string]cty.Value{
		"n_sets":           cty.NumberIntVal(int64(tf.NSets)),
		"time_frequencies": freqs,
	}), nil
}

// TimeFreqSupportFromPayload decodes a time/freq support provider response.
func TimeFreqSupportFromPayload(p transport.Payload) (*TimeFreqSupport, error) {
	nsets, err := p.Attr("n_sets")
	if err != nil {
		return nil, err
	}
	tf := &TimeFreqSupport{}
	n, _ := nsets.AsBigFloat().Int64()
	tf.NSets = int(n)
	if freqs, err := p.Attr("time_frequencies"); err == nil {
		for it := freqs.ElementIterator(); it.Next(); {
			_, v := it.Element()
			f, _ := v.AsBigFloat().Float64()
			tf.TimeFrequencies = append(tf.TimeFrequencies, f)
		}
	}
	return tf, nil
}
