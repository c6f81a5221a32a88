package transport

import "context"

// Call is one operator evaluation request. Inputs is sparse: only connected
// pins appear, keyed by their wire pin index. Output names the single pin
// whose payload the caller wants back. Config carries opaque engine tuning
// and is never interpreted client-side.
type Call struct {
	Operator string            `json:"operator"`
	Inputs   map[int]Payload   `json:"inputs"`
	Output   int               `json:"output"`
	Config   map[string]string `json:"config,omitempty"`
}

// FieldRequest reserves a remote field. It is a reservation, not a resize:
// the engine allocates room for ScopingSize entities and DataSize values,
// and growing the field afterward is the caller's concern. Dim carries the
// per-entity component dimensionality for vector and matrix natures.
type FieldRequest struct {
	Nature      string `json:"nature"`
	Location    string `json:"location"`
	ScopingSize int    `json:"scoping_size"`
	DataSize    int    `json:"data_size"`
	Dim         []int  `json:"dimensionality,omitempty"`
}

// Transport is the connection to a remote post-processing engine. Both
// calls block until the engine answers; neither retries.
type Transport interface {
	// Run evaluates the named operator with the given connected inputs and
	// returns the payload of the requested output pin.
	Run(ctx context.Context, call Call) (Payload, error)

	// CreateField reserves a remote field and returns its handle ID.
	CreateField(ctx context.Context, req FieldRequest) (string, error)
}
