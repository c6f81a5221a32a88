package operator

import (
	"fmt"
	"strings"

	"github.com/vk/fempost/transport"
)

// TypeMismatchError reports a connect-time type violation: the offered
// value's wire tag is outside the pin's declared accepted set. It is
// raised locally, before any network call.
type TypeMismatchError struct {
	Operator string
	Pin      string
	Got      transport.Tag
	Accepted []transport.Tag
}

func (e *TypeMismatchError) Error() string {
	tags := make([]string, len(e.Accepted))
	for i, t := range e.Accepted {
		tags[i] = string(t)
	}
	return fmt.Sprintf("cannot connect %q to pin %q of operator %q: accepted types are [%s]",
		e.Got, e.Pin, e.Operator, strings.Join(tags, ", "))
}
