package track

import (
	"context"
	"time"

	"witherwatch.gg/internal/protocol"
)

// Update is one feed-link message routed to the tick goroutine.
// Exactly one field is set.
type Update struct {
	Run    *protocol.RunStateMsg
	Graph  *protocol.GraphMsg
	Blocks *protocol.BlocksMsg
}

// Runtime confines a Tracker to a single goroutine. Feed updates and
// operator commands arrive over channels and are applied between
// ticks, so no locking discipline is needed anywhere in the tracking
// core.
type Runtime struct {
	tr       *Tracker
	interval time.Duration

	updates   chan Update
	statusCh  chan chan Status
	toggleCh  chan chan bool
	enabledCh chan chan bool
	resetCh   chan chan struct{}
}

func NewRuntime(tr *Tracker, tickRateHz int) *Runtime {
	if tickRateHz <= 0 {
		tickRateHz = 5
	}
	return &Runtime{
		tr:        tr,
		interval:  time.Second / time.Duration(tickRateHz),
		updates:   make(chan Update, 64),
		statusCh:  make(chan chan Status),
		toggleCh:  make(chan chan bool),
		enabledCh: make(chan chan bool),
		resetCh:   make(chan chan struct{}),
	}
}

// Run drives the tick loop until ctx is done.
func (rt *Runtime) Run(ctx context.Context) {
	ticker := time.NewTicker(rt.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rt.tr.Reset()
			return
		case <-ticker.C:
			rt.tr.StepOnce()
		case u := <-rt.updates:
			rt.apply(u)
		case resp := <-rt.statusCh:
			resp <- rt.tr.Status()
		case resp := <-rt.toggleCh:
			resp <- rt.tr.ToggleAutoNav()
		case resp := <-rt.enabledCh:
			resp <- rt.tr.ToggleEnabled()
		case done := <-rt.resetCh:
			rt.tr.Reset()
			close(done)
		}
	}
}

func (rt *Runtime) apply(u Update) {
	switch {
	case u.Run != nil:
		rt.tr.ApplyRunState(*u.Run)
	case u.Graph != nil:
		rt.tr.ApplyGraph(*u.Graph)
	case u.Blocks != nil:
		rt.tr.ApplyBlocks(*u.Blocks)
	}
}

// Apply queues a feed update. Drops the update when the queue is full
// rather than blocking the transport reader.
func (rt *Runtime) Apply(u Update) bool {
	select {
	case rt.updates <- u:
		return true
	default:
		return false
	}
}

// Status fetches a snapshot from the tick goroutine.
func (rt *Runtime) Status() Status {
	resp := make(chan Status, 1)
	rt.statusCh <- resp
	return <-resp
}

// ToggleAutoNav flips auto-navigation and reports the new state.
func (rt *Runtime) ToggleAutoNav() bool {
	resp := make(chan bool, 1)
	rt.toggleCh <- resp
	return <-resp
}

// ToggleEnabled flips the whole feature and reports the new state.
func (rt *Runtime) ToggleEnabled() bool {
	resp := make(chan bool, 1)
	rt.enabledCh <- resp
	return <-resp
}

// Reset clears all run state, as on world unload.
func (rt *Runtime) Reset() {
	done := make(chan struct{})
	rt.resetCh <- done
	<-done
}
