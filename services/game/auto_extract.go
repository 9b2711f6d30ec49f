package game

import (
	game_constants "Tombola/constants/game"
	"sync"
	"time"
)

// autoExtractor runs one ticker per room. Each ticker owns a stop channel;
// whoever removes the channel from the map closes it.
type autoExtractor struct {
	mu    sync.Mutex
	stops map[string]chan struct{}
}

func newAutoExtractor() *autoExtractor {
	return &autoExtractor{stops: make(map[string]chan struct{})}
}

// start calls tick every interval until tick returns false or the room is
// stopped. tick receives the stop channel of its own ticker. It reports false
// if the room already had a ticker.
func (a *autoExtractor) start(code string, interval time.Duration, tick func(stop chan struct{}) bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.stops[code]; ok {
		return false
	}
	stop := make(chan struct{})
	a.stops[code] = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				if !tick(stop) {
					a.release(code, stop)
					return
				}
			}
		}
	}()
	return true
}

// stop is idempotent and reports whether a ticker was running.
func (a *autoExtractor) stop(code string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	stop, ok := a.stops[code]
	if !ok {
		return false
	}
	delete(a.stops, code)
	close(stop)
	return true
}

// release drops the ticker only if it is still the registered one.
func (a *autoExtractor) release(code string, stop chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stops[code] == stop {
		delete(a.stops, code)
		close(stop)
	}
}

// owns reports whether stop is the channel of the ticker registered for code.
func (a *autoExtractor) owns(code string, stop chan struct{}) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stops[code] == stop
}

func (a *autoExtractor) running(code string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.stops[code]
	return ok
}

func (a *autoExtractor) stopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for code, stop := range a.stops {
		delete(a.stops, code)
		close(stop)
	}
}

func (e *Engine) autoStatus(code string, enabled bool) AutoExtractStatusPayload {
	return AutoExtractStatusPayload{
		RoomCode:        code,
		Enabled:         enabled,
		IntervalSeconds: e.opts.AutoExtractInterval.Seconds(),
	}
}

// stopAuto stops the ticker of the room and tells the admin, if one was running.
func (e *Engine) stopAuto(b *batch) {
	if e.auto.stop(b.room.Code) {
		e.log.Infof("[AUTO-EXTRACT] room %s stopped", b.room.Code)
		b.toAdmin(EventAutoExtractStatus, e.autoStatus(b.room.Code, false))
	}
}

func (e *Engine) autoExtract(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventExtractionError, err)
	}
	defer r.mu.Unlock()

	if err := requireAdmin(r, cmd.ConnID); err != nil {
		return e.fail(r, r.Code, cmd.ConnID, EventExtractionError, err)
	}
	b := newBatch(r)
	if !cmd.Enabled {
		if !e.auto.running(r.Code) {
			b.toAdmin(EventAutoExtractStatus, e.autoStatus(r.Code, false))
		}
		e.stopAuto(b)
		return e.emit(b)
	}
	if len(r.draws.drawn) >= game_constants.MaxNumber {
		return e.fail(r, r.Code, cmd.ConnID, EventExtractionError, ErrExtractionExhausted)
	}

	code := r.Code
	if e.auto.start(code, e.opts.AutoExtractInterval, func(stop chan struct{}) bool { return e.autoTick(code, stop) }) {
		e.log.Infof("[AUTO-EXTRACT] room %s every %s", code, e.opts.AutoExtractInterval)
	}
	e.touch(r)
	b.toAdmin(EventAutoExtractStatus, e.autoStatus(code, true))
	return e.emit(b)
}

// autoTick is one timed extraction. It returns false when the ticker must end.
func (e *Engine) autoTick(code string, stop chan struct{}) bool {
	r, err := e.lockRoom(code)
	if err != nil {
		return false
	}
	defer r.mu.Unlock()

	// stopped, or replaced by a newer ticker, while waiting for the lock
	if !e.auto.owns(code, stop) {
		return false
	}
	b := newBatch(r)
	err = e.extractLocked(b)
	if err != nil {
		b.toAdmin(EventExtractionError, errorPayload(err))
	}
	e.emit(b)
	return err == nil && !r.finished
}
