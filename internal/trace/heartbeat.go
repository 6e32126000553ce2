package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events. Heartbeats without span
// ends in between mean a file is stuck in the parser.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	progress func() string
	stopCh   chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// StartHeartbeat starts the heartbeat goroutine. progress, if non-nil, is
// appended to every beat's detail (e.g. "12/40 templates").
func StartHeartbeat(tracer Tracer, interval time.Duration, progress func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		progress: progress,
		stopCh:   make(chan struct{}),
	}
	h.done.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.done.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	for {
		select {
		case <-ticker.C:
			beat++
			h.tracer.Emit(h.event(beat))
		case <-h.stopCh:
			return
		}
	}
}

func (h *Heartbeat) event(beat uint64) *Event {
	detail := "#" + strconv.FormatUint(beat, 10)
	if h.progress != nil {
		if p := h.progress(); p != "" {
			detail += " " + p
		}
	}
	return &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    goroutineID(),
		Name:   "heartbeat",
		Detail: detail,
	}
}

// Stop ends the goroutine and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.done.Wait()
}
