// Package transport defines the wire contract between the client-side
// operator graph and a remote post-processing engine.
//
// An evaluation is a single request keyed by an operator name and a sparse
// map of pin-indexed typed payloads, returning the typed payload of one
// requested output pin. The payload model is deliberately small: a closed
// set of type tags plus a cty.Value carrying the data, so that every
// conforming transport (HTTP, in-process stub, ...) agrees on exactly what
// crosses the boundary.
//
// This layer performs no retries and owns no timeouts; cancellation and
// deadlines travel through the context.Context handed to each call.
package transport
