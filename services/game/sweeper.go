package game

import (
	"context"
	"time"
)

// Sweep evicts rooms idle for longer than maxIdle and returns their codes.
// Remaining players and the admin get room-closed.
func (e *Engine) Sweep(maxIdle time.Duration) []string {
	e.mu.RLock()
	rooms := make([]*Room, 0, len(e.rooms))
	for _, r := range e.rooms {
		rooms = append(rooms, r)
	}
	e.mu.RUnlock()

	now := e.opts.Now()
	var evicted []string
	for _, r := range rooms {
		r.mu.Lock()
		if !r.closed && now.Sub(r.LastActive) > maxIdle {
			e.closeLocked(r, "idle")
			evicted = append(evicted, r.Code)
		}
		r.mu.Unlock()
	}
	return evicted
}

// closeLocked removes a locked room from the registry.
func (e *Engine) closeLocked(r *Room, reason string) {
	b := newBatch(r)
	e.stopAuto(b)

	// players leave the socket room in the same batch, so each one is
	// addressed directly
	closed := RoomClosedPayload{RoomCode: r.Code, Reason: reason}
	for _, id := range r.order {
		b.toConn(id, EventRoomClosed, closed)
	}
	b.toAdmin(EventRoomClosed, closed)
	b.Left = append([]string(nil), r.order...)
	b.Removed = true

	r.closed = true
	r.Active = false
	e.mu.Lock()
	delete(e.rooms, r.Code)
	for _, id := range r.order {
		if e.seats[id] == r.Code {
			delete(e.seats, id)
		}
	}
	e.mu.Unlock()

	e.log.Infof("[ROOM-CLOSED] %s (%s), %d players", r.Code, reason, len(r.order))
	e.emit(b)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (e *Engine) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if codes := e.Sweep(maxIdle); len(codes) > 0 {
					e.log.Infof("[SWEEP] evicted %d rooms: %v", len(codes), codes)
				}
			}
		}
	}()
}
