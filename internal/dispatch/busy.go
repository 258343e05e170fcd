package dispatch

import "sync/atomic"

// BusySignal is the process-wide "operation in progress" state shown to
// the presentation layer. It is advisory: it communicates progress so the
// UI can gate further input, while exclusivity is enforced by the
// per-entity locks. It starts inactive and must be cleared on every exit
// path of every command.
type BusySignal struct {
	Active  bool   `json:"active"`
	Message string `json:"message"`
}

// Busy is an observable holder for the current BusySignal.
type Busy struct {
	state atomic.Pointer[BusySignal]
}

// NewBusy returns a Busy in the inactive state.
func NewBusy() *Busy {
	b := &Busy{}
	b.state.Store(&BusySignal{})
	return b
}

// Set activates the signal with a human-readable progress message.
func (b *Busy) Set(message string) {
	b.state.Store(&BusySignal{Active: true, Message: message})
}

// Clear deactivates the signal.
func (b *Busy) Clear() {
	b.state.Store(&BusySignal{})
}

// State returns the current signal value.
func (b *Busy) State() BusySignal {
	return *b.state.Load()
}
