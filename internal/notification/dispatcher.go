package notification

import (
	"context"
	"fmt"

	"adyen-notify-be/internal/logger"

	"go.uber.org/zap"
)

// Processor handles one kind of payment event. Implementations must be
// idempotent: the repository only filters literal duplicate deliveries, so
// reapplying a semantically equivalent event has to be a safe no-op.
type Processor interface {
	Name() string
	Handles(code EventCode) bool
	Process(ctx context.Context, item Item) error
}

// Hook observes a notification around processing. Hooks are invoked in
// registration order; a hook cannot veto or fail the dispatch.
type Hook interface {
	Notify(ctx context.Context, stored *StoredNotification)
}

// ProcessingResult is the per-item outcome of a dispatch.
type ProcessingResult struct {
	NotificationID int64
	PSPReference   string
	EventCode      EventCode
	Status         Status
	Detail         string
	Err            error
}

// Dispatcher routes stored notifications to the processors registered for
// their event code. The registry is fixed at construction; hooks may be
// added before the dispatcher is put in service.
type Dispatcher struct {
	repo       Repository
	processors []Processor
	preHooks   []Hook
	postHooks  []Hook
}

func NewDispatcher(repo Repository, processors ...Processor) *Dispatcher {
	return &Dispatcher{
		repo:       repo,
		processors: processors,
	}
}

func (d *Dispatcher) RegisterPreHook(h Hook) {
	d.preHooks = append(d.preHooks, h)
}

func (d *Dispatcher) RegisterPostHook(h Hook) {
	d.postHooks = append(d.postHooks, h)
}

// Dispatch runs every matching processor in registration order and finalizes
// the record. A processor failure marks this notification FAILED but must not
// leak out: isolation between items in a batch is the caller's contract.
// Having no matching processor is not an error; the record is closed with a
// note so the event is never redelivered for it.
func (d *Dispatcher) Dispatch(ctx context.Context, stored *StoredNotification) ProcessingResult {
	result := ProcessingResult{
		NotificationID: stored.ID,
		PSPReference:   stored.Item.PSPReference,
		EventCode:      stored.Item.EventCode,
	}

	log := logger.FromCtx(ctx).With(
		zap.Int64("notification_id", stored.ID),
		zap.String("psp_reference", stored.Item.PSPReference),
		zap.String("event_code", string(stored.Item.EventCode)),
	)

	d.runHooks(ctx, d.preHooks, stored)

	matched := 0
	var procErr error
	for _, p := range d.processors {
		if !p.Handles(stored.Item.EventCode) {
			continue
		}
		matched++

		if err := d.invoke(ctx, p, stored.Item); err != nil {
			if _, ok := err.(*ProcessingError); !ok {
				err = &ProcessingError{Processor: p.Name(), Err: err}
			}
			procErr = err
			break
		}
	}

	switch {
	case matched == 0:
		note := "no handler registered for event " + string(stored.Item.EventCode)
		result.Status = StatusProcessed
		result.Detail = note
		stored.Status = StatusProcessed
		stored.Note = note
		log.Info("notification has no handler, closing as processed")
		result.Err = d.repo.MarkProcessed(ctx, stored.ID, note)

	case procErr != nil:
		result.Status = StatusFailed
		result.Detail = procErr.Error()
		stored.Status = StatusFailed
		stored.ErrorDetail = procErr.Error()
		log.Error("notification processing failed", zap.Error(procErr))
		if err := d.repo.MarkFailed(ctx, stored.ID, procErr.Error()); err != nil {
			log.Error("failed to mark notification failed", zap.Error(err))
			result.Err = err
		}

	default:
		result.Status = StatusProcessed
		stored.Status = StatusProcessed
		log.Info("notification processed")
		result.Err = d.repo.MarkProcessed(ctx, stored.ID, "")
	}

	d.runHooks(ctx, d.postHooks, stored)

	return result
}

// invoke shields the dispatch loop from panicking processors; an unexpected
// panic becomes a ProcessingError like any other failure.
func (d *Dispatcher) invoke(ctx context.Context, p Processor, item Item) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &ProcessingError{Processor: p.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	return p.Process(ctx, item)
}

func (d *Dispatcher) runHooks(ctx context.Context, hooks []Hook, stored *StoredNotification) {
	for _, h := range hooks {
		h.Notify(ctx, stored)
	}
}
