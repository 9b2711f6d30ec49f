package game

import (
	game_constants "Tombola/constants/game"
	"Tombola/utils/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Options struct {
	DefaultMaxPlayers   int
	MaxPlayersLimit     int
	MaxCardsPerPlayer   int
	ManualMark          bool // players mark their own cards
	DedupScope          string
	AutoExtractInterval time.Duration

	Rand   Rand
	Now    func() time.Time
	Logger *zap.SugaredLogger
}

// DefaultOptions returns the settings used when the configuration is empty.
func DefaultOptions() Options {
	return Options{
		DefaultMaxPlayers:   game_constants.DefaultMaxPlayers,
		MaxPlayersLimit:     game_constants.DefaultMaxPlayersLimit,
		MaxCardsPerPlayer:   game_constants.DefaultMaxCardsPerPlayer,
		DedupScope:          game_constants.DedupByTypeAndRow,
		AutoExtractInterval: game_constants.DefaultAutoExtract,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxPlayersLimit <= 0 {
		o.MaxPlayersLimit = def.MaxPlayersLimit
	}
	if o.DefaultMaxPlayers <= 0 || o.DefaultMaxPlayers > o.MaxPlayersLimit {
		o.DefaultMaxPlayers = min(def.DefaultMaxPlayers, o.MaxPlayersLimit)
	}
	if o.MaxCardsPerPlayer <= 0 {
		o.MaxCardsPerPlayer = def.MaxCardsPerPlayer
	}
	if o.DedupScope == "" {
		o.DedupScope = def.DedupScope
	}
	if o.AutoExtractInterval <= 0 {
		o.AutoExtractInterval = def.AutoExtractInterval
	}
	if o.Rand == nil {
		o.Rand = DefaultRand()
	} else if _, ok := o.Rand.(globalRand); !ok {
		o.Rand = &lockedRand{r: o.Rand}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.Log
	}
	return o
}

// Engine owns every room. It is the only place game state changes.
type Engine struct {
	opts Options
	sink Sink
	log  *zap.SugaredLogger
	auto *autoExtractor

	mu    sync.RWMutex
	rooms map[string]*Room
	seats map[string]string // player connection -> room code
}

// NewEngine builds an engine. sink may be nil, in which case notifications
// are only returned by Handle.
func NewEngine(opts Options, sink Sink) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		opts:  opts,
		sink:  sink,
		log:   opts.Logger,
		auto:  newAutoExtractor(),
		rooms: make(map[string]*Room),
		seats: make(map[string]string),
	}
}

// Shutdown stops every auto extraction. Rooms stay readable.
func (e *Engine) Shutdown() {
	e.auto.stopAll()
}

// batch collects the notifications of one command on a locked room.
type batch struct {
	Batch
	room *Room
}

func newBatch(r *Room) *batch {
	return &batch{Batch: Batch{RoomCode: r.Code}, room: r}
}

func (b *batch) toRoom(event string, payload any) {
	b.Notifications = append(b.Notifications, Notification{
		Audience: AudienceRoom, RoomCode: b.room.Code, Event: event, Payload: payload,
	})
}

func (b *batch) toConn(conn, event string, payload any) {
	b.Notifications = append(b.Notifications, Notification{
		Audience: AudienceConn, RoomCode: b.room.Code, ConnID: conn, Event: event, Payload: payload,
	})
}

// toAdmin is dropped when no admin is connected to the room.
func (b *batch) toAdmin(event string, payload any) {
	if b.room.adminConn == "" {
		return
	}
	b.toConn(b.room.adminConn, event, payload)
}

func (b *batch) roomUpdate() {
	b.toAdmin(EventRoomUpdate, RoomUpdatePayload{
		Players:    b.room.roster(),
		DrawnCount: len(b.room.draws.drawn),
	})
}

// emit hands the batch to the sink. Callers hold the room lock, so batches of
// one room reach the sink in the order they were produced.
func (e *Engine) emit(b *batch) []Notification {
	if !b.Removed {
		b.Summary = b.room.summary()
	}
	e.publish(b.Batch)
	return b.Notifications
}

func (e *Engine) publish(b Batch) {
	if e.sink == nil || (len(b.Notifications) == 0 && b.Summary == nil && !b.Removed) {
		return
	}
	if err := e.sink.Publish(context.Background(), b); err != nil {
		e.log.Errorf("[DISPATCH-ERROR] room %s: %v", b.RoomCode, err)
	}
}

// fail reports err to conn only. Unknown rooms get a batch of their own.
func (e *Engine) fail(r *Room, code, conn, event string, err error) []Notification {
	var ge *GameError
	if !errors.As(err, &ge) {
		e.log.Errorf("[%s] room %s conn %s: %v", strings.ToUpper(event), code, conn, err)
	} else {
		e.log.Debugf("[%s] room %s conn %s: %s", strings.ToUpper(event), code, conn, ge.Code)
	}
	n := Notification{Audience: AudienceConn, RoomCode: code, ConnID: conn, Event: event, Payload: errorPayload(err)}
	if r == nil {
		e.publish(Batch{RoomCode: code, Notifications: []Notification{n}})
		return []Notification{n}
	}
	b := newBatch(r)
	b.Notifications = append(b.Notifications, n)
	return e.emit(b)
}

// lockRoom returns the room locked. The caller must unlock it.
func (e *Engine) lockRoom(code string) (*Room, error) {
	e.mu.RLock()
	r, ok := e.rooms[code]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (e *Engine) touch(r *Room) {
	r.LastActive = e.opts.Now()
}

func requireAdmin(r *Room, conn string) error {
	if conn == "" || r.adminConn != conn {
		return ErrNotRoomAdmin
	}
	return nil
}

// claimSeat binds conn to a room. A connection sits in one room at a time.
func (e *Engine) claimSeat(conn, code string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, taken := e.seats[conn]; taken {
		return false
	}
	e.seats[conn] = code
	return true
}

func (e *Engine) releaseSeat(conn, code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seats[conn] == code {
		delete(e.seats, conn)
	}
}

func (e *Engine) seatOf(conn string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	code, ok := e.seats[conn]
	return code, ok
}

// newRoomCode needs e.mu held for writing.
func (e *Engine) newRoomCode() (string, error) {
	charset := game_constants.RoomCodeCharset
	buf := make([]byte, game_constants.RoomCodeLength)
	for i := 0; i < game_constants.RoomCodeRetries; i++ {
		for j := range buf {
			buf[j] = charset[e.opts.Rand.IntN(len(charset))]
		}
		if _, taken := e.rooms[string(buf)]; !taken {
			return string(buf), nil
		}
	}
	return "", fmt.Errorf("%w after %d tries", ErrNoRoomCode, game_constants.RoomCodeRetries)
}

func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > game_constants.MaxNameLength {
		return "", false
	}
	return name, true
}

func (e *Engine) createRoom(cmd Command) []Notification {
	name, ok := validName(cmd.Name)
	if !ok {
		return e.fail(nil, "", cmd.ConnID, EventExtractionError, ErrInvalidRoomName)
	}
	maxPlayers := cmd.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = e.opts.DefaultMaxPlayers
	}
	if maxPlayers < 1 || maxPlayers > e.opts.MaxPlayersLimit {
		return e.fail(nil, "", cmd.ConnID, EventExtractionError, ErrInvalidMaxPlayers)
	}

	r := newRoom("", name, maxPlayers, e.opts.Rand, e.opts.DedupScope, e.opts.Now())
	r.adminConn = cmd.ConnID
	r.mu.Lock()
	defer r.mu.Unlock()

	e.mu.Lock()
	code, err := e.newRoomCode()
	if err == nil {
		r.Code = code
		e.rooms[code] = r
	}
	e.mu.Unlock()
	if err != nil {
		return e.fail(nil, "", cmd.ConnID, EventExtractionError, err)
	}

	e.log.Infof("[CREATE-ROOM] %s %q max %d by %s", r.Code, r.Name, r.MaxPlayers, cmd.ConnID)
	b := newBatch(r)
	b.toConn(cmd.ConnID, EventRoomCreated, RoomCreatedPayload{RoomCode: r.Code, Name: r.Name, MaxPlayers: r.MaxPlayers})
	return e.emit(b)
}

func (e *Engine) adminRoomData(r *Room) AdminRoomDataPayload {
	return AdminRoomDataPayload{
		RoomCode:         r.Code,
		Name:             r.Name,
		MaxPlayers:       r.MaxPlayers,
		Players:          r.roster(),
		ExtractedNumbers: r.draws.drawnCopy(),
		LastNumber:       r.draws.last(),
		WinHistory:       r.wins.historyCopy(),
		AutoExtract:      e.auto.running(r.Code),
	}
}

// adminJoin binds conn as the admin of an existing room, replacing any
// previous admin connection.
func (e *Engine) adminJoin(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventExtractionError, err)
	}
	defer r.mu.Unlock()

	if r.adminConn != cmd.ConnID {
		e.log.Infof("[ADMIN-JOIN] room %s admin %s -> %s", r.Code, r.adminConn, cmd.ConnID)
	}
	r.adminConn = cmd.ConnID
	e.touch(r)

	b := newBatch(r)
	b.toAdmin(EventAdminRoomData, e.adminRoomData(r))
	return e.emit(b)
}

func (e *Engine) join(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventJoinError, err)
	}
	defer r.mu.Unlock()

	if _, seated := r.players[cmd.ConnID]; seated {
		return e.fail(r, r.Code, cmd.ConnID, EventJoinError, ErrAlreadyInRoom)
	}
	if len(r.players) >= r.MaxPlayers {
		return e.fail(r, r.Code, cmd.ConnID, EventJoinError, ErrRoomFull)
	}
	name, ok := validName(cmd.Name)
	if !ok {
		return e.fail(r, r.Code, cmd.ConnID, EventJoinError, ErrInvalidPlayerName)
	}
	if cmd.CardCount < 1 || cmd.CardCount > e.opts.MaxCardsPerPlayer {
		return e.fail(r, r.Code, cmd.ConnID, EventJoinError, ErrInvalidCardCount)
	}
	if !e.claimSeat(cmd.ConnID, r.Code) {
		return e.fail(r, r.Code, cmd.ConnID, EventJoinError, ErrAlreadyInRoom)
	}

	p := &Player{ID: cmd.ConnID, Name: name, JoinedAt: e.opts.Now()}
	for i := 0; i < cmd.CardCount; i++ {
		card, err := GenerateCard(e.opts.Rand)
		if err != nil {
			e.releaseSeat(cmd.ConnID, r.Code)
			return e.fail(r, r.Code, cmd.ConnID, EventJoinError, err)
		}
		p.Cards = append(p.Cards, card)
	}
	r.addPlayer(p)
	e.touch(r)
	e.log.Infof("[JOIN] %s (%s) joined %s with %d cards", p.Name, p.ID, r.Code, len(p.Cards))

	// Numbers drawn before the join are marked right away.
	var wins []WinRecord
	if !e.opts.ManualMark && len(r.draws.drawn) > 0 {
		for _, n := range r.draws.drawn {
			p.markAll(n)
		}
		p.recount()
		wins = scanPlayer(r.wins, p, e.opts.Now())
	}

	b := newBatch(r)
	b.toConn(p.ID, EventJoinedRoom, JoinedRoomPayload{
		RoomCode:     r.Code,
		RoomName:     r.Name,
		Players:      r.roster(),
		Cards:        p.cardsCopy(),
		LastDrawn:    r.draws.last(),
		DrawnNumbers: r.draws.drawnCopy(),
		WinHistory:   r.wins.historyCopy(),
	})
	b.toRoom(EventPlayerJoined, PlayerJoinedPayload{ID: p.ID, Name: p.Name, CardCount: len(p.Cards)})
	e.announce(b, wins)
	b.roomUpdate()
	b.Joined = []string{p.ID}
	return e.emit(b)
}

// leave removes conn from the room. Leaving twice, or leaving a room that no
// longer exists, does nothing.
func (e *Engine) leave(conn, code string) []Notification {
	if code == "" {
		var ok bool
		if code, ok = e.seatOf(conn); !ok {
			return nil
		}
	}
	r, err := e.lockRoom(code)
	if err != nil {
		e.releaseSeat(conn, code)
		return nil
	}
	defer r.mu.Unlock()

	p, ok := r.removePlayer(conn)
	if !ok {
		return nil
	}
	e.releaseSeat(conn, r.Code)
	e.touch(r)
	e.log.Infof("[LEAVE] %s (%s) left %s", p.Name, p.ID, r.Code)

	b := newBatch(r)
	b.Left = []string{conn}
	b.toRoom(EventPlayerLeft, PlayerLeftPayload{PlayerID: p.ID, PlayerName: p.Name})
	b.toConn(conn, EventLeftRoom, LeftRoomPayload{RoomCode: r.Code})
	b.roomUpdate()
	return e.emit(b)
}

// disconnect releases the seat of conn and unbinds it from every room it
// administers.
func (e *Engine) disconnect(conn string) []Notification {
	out := e.leave(conn, "")

	e.mu.RLock()
	rooms := make([]*Room, 0, len(e.rooms))
	for _, r := range e.rooms {
		rooms = append(rooms, r)
	}
	e.mu.RUnlock()

	for _, r := range rooms {
		r.mu.Lock()
		if !r.closed && r.adminConn == conn {
			r.adminConn = ""
			if e.auto.stop(r.Code) {
				e.log.Infof("[AUTO-EXTRACT] room %s stopped, admin disconnected", r.Code)
			}
			e.log.Infof("[ADMIN-LEFT] room %s has no admin", r.Code)
		}
		r.mu.Unlock()
	}
	return out
}

func (e *Engine) extract(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventExtractionError, err)
	}
	defer r.mu.Unlock()

	if err := requireAdmin(r, cmd.ConnID); err != nil {
		return e.fail(r, r.Code, cmd.ConnID, EventExtractionError, err)
	}
	b := newBatch(r)
	if err := e.extractLocked(b); err != nil {
		b.toConn(cmd.ConnID, EventExtractionError, errorPayload(err))
	}
	return e.emit(b)
}

// extractLocked draws the next number of b.room and applies it. On error the
// batch may already hold an auto extraction status.
func (e *Engine) extractLocked(b *batch) error {
	r := b.room
	n, err := r.draws.draw()
	if err != nil {
		if errors.Is(err, ErrDrawFailed) {
			e.log.Errorf("[EXTRACT-ERROR] room %s: %v", r.Code, err)
		}
		e.stopAuto(b)
		return err
	}
	e.touch(r)
	e.log.Infof("[EXTRACT] room %s drew %d (%d/%d)", r.Code, n, len(r.draws.drawn), game_constants.MaxNumber)

	b.toRoom(EventNumberExtracted, NumberExtractedPayload{Number: n, DrawnCount: len(r.draws.drawn)})
	b.toAdmin(EventNumberExtractedAdmin, NumberExtractedAdminPayload{Number: n, DrawnNumbers: r.draws.drawnCopy()})

	if !e.opts.ManualMark {
		now := e.opts.Now()
		for _, p := range r.seated() {
			if !p.markAll(n) {
				continue
			}
			p.recount()
			e.announce(b, scanPlayer(r.wins, p, now))
		}
	}
	b.roomUpdate()
	if len(r.draws.drawn) == game_constants.MaxNumber {
		e.stopAuto(b)
	}
	return nil
}

// announce adds the notifications of new prizes. The first tombola also ends
// the game.
func (e *Engine) announce(b *batch, wins []WinRecord) {
	r := b.room
	for _, w := range wins {
		if w.Type != Tombola {
			e.log.Infof("[WIN] room %s %s by %s card %d row %d", r.Code, w.Type, w.PlayerName, w.CardIndex, *w.RowIndex)
			p := WinDetectedPayload{Type: w.Type, PlayerID: w.PlayerID, PlayerName: w.PlayerName, CardIndex: w.CardIndex, RowIndex: w.RowIndex, Timestamp: w.Timestamp}
			b.toRoom(EventWinDetected, p)
			b.toAdmin(EventWinDetected, p)
			continue
		}

		e.log.Infof("[TOMBOLA] room %s won by %s card %d", r.Code, w.PlayerName, w.CardIndex)
		won := PlayerWonPayload{Type: w.Type, PlayerID: w.PlayerID, PlayerName: w.PlayerName, CardIndex: w.CardIndex, Timestamp: w.Timestamp}
		b.toRoom(EventPlayerWon, won)
		b.toAdmin(EventPlayerWon, won)

		r.finished = true
		finished := GameFinishedPayload{
			Room:         *r.summary(),
			Winner:       w,
			DrawnNumbers: r.draws.drawnCopy(),
			WinHistory:   r.wins.historyCopy(),
		}
		b.toRoom(EventGameFinished, finished)
		b.toAdmin(EventGameFinished, finished)
		e.stopAuto(b)
	}
}

func (e *Engine) reset(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventExtractionError, err)
	}
	defer r.mu.Unlock()

	if err := requireAdmin(r, cmd.ConnID); err != nil {
		return e.fail(r, r.Code, cmd.ConnID, EventExtractionError, err)
	}
	b := newBatch(r)
	e.stopAuto(b)
	r.resetGame(e.opts.Rand)
	e.touch(r)
	e.log.Infof("[RESET] room %s", r.Code)

	b.toRoom(EventExtractionReset, ExtractionResetPayload{RoomCode: r.Code})
	b.toAdmin(EventExtractionResetAdmin, ExtractionResetPayload{RoomCode: r.Code})
	b.roomUpdate()
	return e.emit(b)
}

func (e *Engine) mark(cmd Command) []Notification {
	r, err := e.lockRoom(cmd.RoomCode)
	if err != nil {
		return e.fail(nil, cmd.RoomCode, cmd.ConnID, EventMarkError, err)
	}
	defer r.mu.Unlock()

	p, ok := r.players[cmd.ConnID]
	if !ok {
		return e.fail(r, r.Code, cmd.ConnID, EventMarkError, ErrNotInRoom)
	}
	if cmd.Number < 1 || cmd.Number > game_constants.MaxNumber {
		return e.fail(r, r.Code, cmd.ConnID, EventMarkError, ErrInvalidNumber)
	}
	if cmd.CardIndex < 0 || cmd.CardIndex >= len(p.Cards) {
		return e.fail(r, r.Code, cmd.ConnID, EventMarkError, ErrInvalidCardIndex)
	}
	if !r.draws.has(cmd.Number) {
		return e.fail(r, r.Code, cmd.ConnID, EventMarkError, ErrNumberNotYetDrawn)
	}
	err = p.Cards[cmd.CardIndex].Mark(cmd.Number)
	if errors.Is(err, ErrAlreadyMarked) {
		// repeated marks are silent
		e.log.Debugf("[MARK] %s already marked %d on card %d", p.ID, cmd.Number, cmd.CardIndex)
		return nil
	}
	if err != nil {
		return e.fail(r, r.Code, cmd.ConnID, EventMarkError, err)
	}
	p.recount()
	e.touch(r)

	b := newBatch(r)
	b.toConn(p.ID, EventCardMarked, CardMarkedPayload{CardIndex: cmd.CardIndex, Number: cmd.Number, MarkedCount: p.MarkedCount})
	e.announce(b, scanPlayer(r.wins, p, e.opts.Now()))
	b.roomUpdate()
	return e.emit(b)
}

// Lookup returns a summary of the room, if it exists.
func (e *Engine) Lookup(code string) (RoomSummary, bool) {
	r, err := e.lockRoom(NormalizeRoomCode(code))
	if err != nil {
		return RoomSummary{}, false
	}
	defer r.mu.Unlock()
	return *r.summary(), true
}

// IsDrawn reports whether number was already drawn in the room.
func (e *Engine) IsDrawn(code string, number int) (bool, error) {
	if number < 1 || number > game_constants.MaxNumber {
		return false, ErrInvalidNumber
	}
	r, err := e.lockRoom(NormalizeRoomCode(code))
	if err != nil {
		return false, err
	}
	defer r.mu.Unlock()
	return r.draws.has(number), nil
}

// Rooms lists every live room.
func (e *Engine) Rooms() []RoomSummary {
	e.mu.RLock()
	codes := make([]string, 0, len(e.rooms))
	for code := range e.rooms {
		codes = append(codes, code)
	}
	e.mu.RUnlock()

	out := make([]RoomSummary, 0, len(codes))
	for _, code := range codes {
		if s, ok := e.Lookup(code); ok {
			out = append(out, s)
		}
	}
	return out
}
