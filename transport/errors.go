package transport

import (
	"errors"
	"fmt"
)

// ErrUnknownOperator signals that a name resolves to no operator, either in
// the local specification table or on the remote engine.
var ErrUnknownOperator = errors.New("unknown operator")

// RemoteError wraps a failure signaled by the engine: a missing required
// input, a computation error, or an unreachable server. Message carries
// the engine's diagnostic verbatim so callers can match on specific
// substrings. Operator names the operator whose evaluation failed; it is
// empty for requests outside an evaluation, such as a field reservation.
type RemoteError struct {
	Operator string
	Message  string
}

func (e *RemoteError) Error() string {
	if e.Operator == "" {
		return fmt.Sprintf("remote request failed: %s", e.Message)
	}
	return fmt.Sprintf("remote evaluation of %q failed: %s", e.Operator, e.Message)
}
