package simulator

import (
	"errors"
	"strings"
)

// ErrDomainInvariant marks an internal precondition that validated input
// should have made unreachable, such as zero monthly savings. It signals a
// programming or configuration error, never a user mistake.
var ErrDomainInvariant = errors.New("domain invariant violated")

// ValidationError is returned by Simulate when the input breaks one or more
// domain rules. The calculation is not attempted.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "invalid simulation input: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable message of every violation in rule order.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return messages
}
