// Package operator implements the client-side operator graph: declarative
// pin specifications loaded from an embedded manifest table, a generic
// Operator graph node, and the typed Input/Output bindings that wire nodes
// together and trigger remote evaluation.
//
// There is exactly one Operator type. What a given remote computation
// accepts and produces is data, not code: its pin table lives in
// specs.hcl and is looked up by operator name at construction time.
package operator
