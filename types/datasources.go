package types

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fempost/transport"
)

// DataSources references the result files the engine should read. It is
// exclusively owned by whoever builds it; sharing one instance across
// models is not supported.
//
// Every mutation bumps Version. Caches derived from a data source (mesh,
// time/freq support) remember the version they were computed at and
// recompute when it moves.
type DataSources struct {
	resultPath string
	paths      map[string][]string // extra files keyed by format key
	version    uint64
}

// NewDataSources builds an empty data source set.
func NewDataSources() *DataSources {
	return &DataSources{paths: make(map[string][]string)}
}

// NewDataSourcesFrom builds a data source set opening the given result file.
func NewDataSourcesFrom(resultPath string) *DataSources {
	ds := NewDataSources()
	ds.SetResultFilePath(resultPath)
	return ds
}

// SetResultFilePath points the data sources at the main result file.
func (ds *DataSources) SetResultFilePath(path string) {
	ds.resultPath = path
	ds.version++
}

// AddFilePath registers an auxiliary file under a format key.
func (ds *DataSources) AddFilePath(key, path string) {
	ds.paths[key] = append(ds.paths[key], path)
	ds.version++
}

// ResultFilePath returns the main result file path, or "" when unset.
func (ds *DataSources) ResultFilePath() string { return ds.resultPath }

// Version returns the mutation counter.
func (ds *DataSources) Version() uint64 { return ds.version }

// Tag implements transport tagging for pin type checks.
func (ds *DataSources) Tag() transport.Tag { return transport.TagDataSources }

// Payload encodes the data sources for the wire.
func (ds *DataSources) Payload() (transport.Payload, error) {
	attrs := map[string]cty.Value{
		"result_path": cty.StringVal(ds.resultPath),
	}
	if len(ds.paths) > 0 {
		extra := make(map[string]cty.Value, len(ds.paths))
		for key, paths := range ds.paths {
			vals := make([]cty.Value, len(paths))
			for i, p := range paths {
				vals[i] = cty.StringVal(p)
			}
			extra[key] = cty.ListVal(vals)
		}
		attrs["files"] = cty.ObjectVal(extra)
	}
	return transport.ObjectPayload(transport.TagDataSources, attrs), nil
}
