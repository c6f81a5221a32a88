// Package types holds the container types that cross the client/engine
// boundary: fields, scopings, meshes, data sources and the metadata
// descriptors derived from a result file. Most of them are thin handles on
// engine-resident data; Scoping and locally built Fields are plain values.
package types
