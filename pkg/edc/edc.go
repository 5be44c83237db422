// Package edc exposes the decision module lifecycle the simulator drives:
// an engine is created from the configuration string at init, invoked once
// per wakeup with a serialized event batch, and torn down at deinit.
package edc

import (
	"github.com/pkg/errors"

	"github.com/easysched-project/easysched/internal/scheduler"
	"github.com/easysched-project/easysched/internal/scheduler/configuration"
	"github.com/easysched-project/easysched/pkg/api"
)

// FormatBinary selects the binary wire format when set in the init flags.
const FormatBinary uint32 = 1

// EDC owns one engine instance and its wire codec. It is not safe for
// concurrent use; the protocol is strictly single-threaded.
type EDC struct {
	engine  *scheduler.Engine
	codec   api.Codec
	builder *api.MessageBuilder
	// Previous output; owned by the EDC until the next call or Close.
	output []byte
	closed bool
}

// New configures an engine from the raw argument bytes and format flags.
// A returned error is fatal; no engine is created.
func New(args []byte, flags uint32) (*EDC, error) {
	config, err := configuration.Parse(string(args))
	if err != nil {
		return nil, err
	}
	return &EDC{
		engine:  scheduler.NewEngine(config),
		codec:   api.NewCodec(flags&FormatBinary != 0),
		builder: api.NewMessageBuilder(),
	}, nil
}

// NewWithConfig builds an EDC from an already-parsed scheduling
// configuration, bypassing the configuration-string grammar.
func NewWithConfig(config configuration.SchedulingConfig, flags uint32) *EDC {
	return &EDC{
		engine:  scheduler.NewEngine(config),
		codec:   api.NewCodec(flags&FormatBinary != 0),
		builder: api.NewMessageBuilder(),
	}
}

// Engine returns the underlying engine, e.g. for metrics registration.
func (e *EDC) Engine() *scheduler.Engine {
	return e.engine
}

// TakeDecisions runs one decision cycle over a serialized event batch and
// returns the serialized decisions. The returned buffer is owned by the
// EDC and valid until the next call or Close.
func (e *EDC) TakeDecisions(input []byte) ([]byte, error) {
	if e.closed || e.engine == nil {
		return nil, errors.New("take_decisions called outside the init/deinit bracket")
	}
	var msg api.Message
	if err := e.codec.Unmarshal(input, &msg); err != nil {
		return nil, errors.WithMessage(err, "cannot decode event batch")
	}
	e.builder.Clear(msg.Now)
	if err := e.engine.HandleMessage(&msg, e.builder); err != nil {
		return nil, err
	}
	output, err := e.codec.Marshal(e.builder.Message())
	if err != nil {
		return nil, errors.WithMessage(err, "cannot encode decisions")
	}
	e.output = output
	return output, nil
}

// Close releases all engine state. It is idempotent.
func (e *EDC) Close() error {
	e.engine = nil
	e.builder = nil
	e.output = nil
	e.closed = true
	return nil
}
