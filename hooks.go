package fattailsync

import (
	"sync"

	"github.com/centraldesktop/fattailsync/internal/reconcile"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Hook function types for sync events
type (
	// EntityCreatedHook is called when an Edge account, workspace or milestone is created
	EntityCreatedHook func(kind, id string, row int)

	// RecordLinkedHook is called when a FatTail client, order or drop receives an Edge handle
	RecordLinkedHook func(kind, id string, row int)

	// RowSkippedHook is called when a row is abandoned
	RowSkippedHook func(err *errors.RowError)

	// WarningHook is called for conditions that do not stop the row
	WarningHook func(row int, err error)
)

// hooks manages event callbacks for a sync pass
type hooks struct {
	mu              sync.RWMutex
	onEntityCreated []EntityCreatedHook
	onRecordLinked  []RecordLinkedHook
	onRowSkipped    []RowSkippedHook
	onWarning       []WarningHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnEntityCreated registers a callback for created Edge entities
func (h *hooks) OnEntityCreated(fn EntityCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEntityCreated = append(h.onEntityCreated, fn)
}

// OnRecordLinked registers a callback for linked FatTail records
func (h *hooks) OnRecordLinked(fn RecordLinkedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordLinked = append(h.onRecordLinked, fn)
}

// OnRowSkipped registers a callback for skipped rows
func (h *hooks) OnRowSkipped(fn RowSkippedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRowSkipped = append(h.onRowSkipped, fn)
}

// OnWarning registers a callback for row warnings
func (h *hooks) OnWarning(fn WarningHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onWarning = append(h.onWarning, fn)
}

// dispatch forwards an engine event to the registered hooks
func (h *hooks) dispatch(ev reconcile.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch ev.Type {
	case reconcile.EventEntityCreated:
		for _, hook := range h.onEntityCreated {
			hook(ev.Kind, ev.ID, ev.Row)
		}
	case reconcile.EventRecordLinked:
		for _, hook := range h.onRecordLinked {
			hook(ev.Kind, ev.ID, ev.Row)
		}
	case reconcile.EventRowSkipped:
		var rowErr *errors.RowError
		if !errors.As(ev.Err, &rowErr) {
			rowErr = &errors.RowError{Row: ev.Row, Err: ev.Err}
		}
		for _, hook := range h.onRowSkipped {
			hook(rowErr)
		}
	case reconcile.EventWarning:
		for _, hook := range h.onWarning {
			hook(ev.Row, ev.Err)
		}
	}
}
