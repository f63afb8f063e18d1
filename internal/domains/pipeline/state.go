package pipeline

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
)

const (
	stateReceived     = "received"
	stateTranscribing = "transcribing"
	stateCacheCheck   = "cache_check"
	stateCacheHit     = "cache_hit"
	stateComputing    = "computing"
	stateSynthesizing = "synthesizing"
	stateCacheWrite   = "cache_write"
	stateFallback     = "fallback"
	stateDone         = "done"
)

const (
	evTranscribe = "transcribe"
	evCheckCache = "check_cache"
	evHit        = "hit"
	evCompute    = "compute"
	evSynthesize = "synthesize"
	evWriteCache = "write_cache"
	evFinish     = "finish"
	evFail       = "fail"
)

// turnState tracks one request. The worker and the deadline watchdog both
// fire events; whichever reaches done first wins and later events are no-ops.
type turnState struct {
	machine *fsm.FSM

	mu    sync.Mutex
	trail []string
}

func newTurnState() *turnState {
	ts := &turnState{trail: []string{stateReceived}}
	ts.machine = fsm.NewFSM(
		stateReceived,
		fsm.Events{
			{Name: evTranscribe, Src: []string{stateReceived}, Dst: stateTranscribing},
			{Name: evCheckCache, Src: []string{stateTranscribing}, Dst: stateCacheCheck},
			{Name: evHit, Src: []string{stateCacheCheck}, Dst: stateCacheHit},
			{Name: evCompute, Src: []string{stateCacheCheck}, Dst: stateComputing},
			{Name: evSynthesize, Src: []string{stateComputing}, Dst: stateSynthesizing},
			{Name: evWriteCache, Src: []string{stateSynthesizing}, Dst: stateCacheWrite},
			{Name: evFinish, Src: []string{stateCacheHit, stateCacheWrite, stateFallback}, Dst: stateDone},
			{Name: evFail, Src: []string{
				stateReceived, stateTranscribing, stateCacheCheck, stateCacheHit,
				stateComputing, stateSynthesizing, stateCacheWrite,
			}, Dst: stateFallback},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				ts.mu.Lock()
				ts.trail = append(ts.trail, e.Dst)
				ts.mu.Unlock()
			},
		},
	)
	return ts
}

// fire reports whether the transition happened.
func (ts *turnState) fire(event string) bool {
	return ts.machine.Event(context.Background(), event) == nil
}

// fallback forces the turn into fallback then done. It is false when the
// turn already finished.
func (ts *turnState) fallback() bool {
	if !ts.fire(evFail) {
		return false
	}
	return ts.fire(evFinish)
}

func (ts *turnState) current() string {
	return ts.machine.Current()
}

func (ts *turnState) snapshot() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.trail))
	copy(out, ts.trail)
	return out
}
