package mail

import (
	"context"

	"go.uber.org/zap"
)

// Sink delivers one assembled message.
type Sink interface {
	Send(ctx context.Context, msg *Message) error
	Name() string
}

// Dispatcher tries the primary sink and falls back on error. A broken
// mail setup must never turn a successful scan into a failed run, so a
// fallback delivery counts as success.
type Dispatcher struct {
	primary  Sink
	fallback Sink
	logger   *zap.Logger
}

// NewDispatcher wires a primary sink with an optional fallback. A nil
// fallback means primary errors are returned to the caller.
func NewDispatcher(primary, fallback Sink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{primary: primary, fallback: fallback, logger: logger}
}

// Dispatch delivers msg and returns the name of the sink that took it.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) (string, error) {
	err := d.primary.Send(ctx, msg)
	if err == nil {
		return d.primary.Name(), nil
	}

	if d.fallback == nil {
		return "", err
	}

	d.logger.Warn("mail delivery failed, using fallback",
		zap.String("sink", d.primary.Name()),
		zap.Error(err))

	if ferr := d.fallback.Send(ctx, msg); ferr != nil {
		return "", ferr
	}
	return d.fallback.Name(), nil
}
