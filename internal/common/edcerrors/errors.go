// Package edcerrors contains the error types returned across the decision
// module boundary. The simulator-facing entry points map any error of these
// types (or any other error) to a nonzero status; the types exist so tests
// and callers can distinguish the fatal classes with errors.As.
package edcerrors

import "fmt"

// ErrMalformedConfig indicates the configuration string handed to init could
// not be parsed. Fatal at init.
type ErrMalformedConfig struct {
	Config  string
	Message string
}

func (err *ErrMalformedConfig) Error() string {
	return fmt.Sprintf("malformed configuration %q: %s", err.Config, err.Message)
}

// ErrProtocolViolation indicates the simulator sent an event sequence the
// protocol forbids, e.g. a duplicate SimulationBegins or a submission before
// simulation start. Fatal at take_decisions.
type ErrProtocolViolation struct {
	Event   string
	Message string
}

func (err *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation on %s: %s", err.Event, err.Message)
}
