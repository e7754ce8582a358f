package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avelin/estate-notify/internal/core/domain"
	apperrors "github.com/avelin/estate-notify/internal/core/errors"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// Dispatcher is the single consumer of the push channel. Each frame runs
// through normalize → dedup → policy → side effects → history append, in
// arrival order, on one goroutine. Two events can never race past the dedup
// filter.
type Dispatcher struct {
	dedup     *DedupFilter
	policies  *PolicyResolver
	history   *HistoryBuffer
	executors []ports.SideEffectExecutor
	logger    *slog.Logger
}

// NewDispatcher wires the delivery pipeline.
func NewDispatcher(
	dedup *DedupFilter,
	policies *PolicyResolver,
	history *HistoryBuffer,
	executors []ports.SideEffectExecutor,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		dedup:     dedup,
		policies:  policies,
		history:   history,
		executors: executors,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Run consumes frames until the context is cancelled or the channel closes.
// Cancellation wins over frames still buffered: once teardown starts, nothing
// else is delivered. Run as a goroutine; it is the only writer of the dedup
// filter and history buffer.
func (d *Dispatcher) Run(ctx context.Context, frames <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-frames:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			d.dispatch(ctx, raw)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, raw []byte) {
	n, err := ParseFrame(raw)
	if err != nil {
		if errors.Is(err, apperrors.ErrControlFrame) {
			d.logger.Debug("control frame filtered")
			return
		}
		// Malformed payloads are dropped locally; the connection stays up.
		d.logger.Warn("dropping malformed frame", "error", err)
		return
	}
	d.Deliver(ctx, *n)
}

// Deliver runs one notification through dedup, policy resolution and every
// side-effect executor. Executor failures are independent: one failing never
// prevents the others from running for the same event.
func (d *Dispatcher) Deliver(ctx context.Context, n domain.Notification) {
	if !d.dedup.ShouldProcess(n.IdentityKey()) {
		d.logger.Debug("duplicate suppressed", "type", n.Type, "identity", n.IdentityKey())
		return
	}

	policy := d.policies.Resolve(n.Type)

	for _, ex := range d.executors {
		if err := ex.Execute(ctx, n, policy); err != nil {
			d.logger.Warn("side effect failed",
				"executor", ex.Name(),
				"type", n.Type,
				"error", err,
			)
		}
	}

	d.history.Append(n)
}

// Reset clears per-session state on teardown.
func (d *Dispatcher) Reset() {
	d.dedup.Clear()
	d.history.Clear()
}
