package game

import (
	game_constants "Tombola/constants/game"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu      sync.Mutex
	batches []Batch
}

func (r *recorder) Publish(_ context.Context, b Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
	return nil
}

func (r *recorder) last() Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *recorder) {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = seeded(99)
	}
	opts.Logger = zap.NewNop().Sugar()
	rec := &recorder{}
	e := NewEngine(opts, rec)
	t.Cleanup(e.Shutdown)
	return e, rec
}

func filter(ns []Notification, event string, audience Audience) []Notification {
	var out []Notification
	for _, n := range ns {
		if n.Event == event && n.Audience == audience {
			out = append(out, n)
		}
	}
	return out
}

func one(t *testing.T, ns []Notification, event string, audience Audience) Notification {
	t.Helper()
	found := filter(ns, event, audience)
	require.Len(t, found, 1, "expected one %s to %s", event, audience)
	return found[0]
}

func createRoom(t *testing.T, e *Engine, admin, name string, maxPlayers int) string {
	t.Helper()
	ns := e.Handle(Command{Kind: CmdCreateRoom, ConnID: admin, Name: name, MaxPlayers: maxPlayers})
	created := one(t, ns, EventRoomCreated, AudienceConn)
	assert.Equal(t, admin, created.ConnID)
	return created.Payload.(RoomCreatedPayload).RoomCode
}

func joinRoom(t *testing.T, e *Engine, conn, code, name string, cards int) JoinedRoomPayload {
	t.Helper()
	ns := e.Handle(Command{Kind: CmdJoinRoom, ConnID: conn, RoomCode: code, Name: name, CardCount: cards})
	return one(t, ns, EventJoinedRoom, AudienceConn).Payload.(JoinedRoomPayload)
}

func errorCode(t *testing.T, ns []Notification, event string) string {
	t.Helper()
	return one(t, ns, event, AudienceConn).Payload.(ErrorPayload).Code
}

func TestCreateRoom(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Xmas", 5)

	assert.Len(t, code, game_constants.RoomCodeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(game_constants.RoomCodeCharset, c))
	}
	summary, ok := e.Lookup(strings.ToLower(code))
	require.True(t, ok)
	assert.Equal(t, "Xmas", summary.Name)
	assert.Equal(t, 5, summary.MaxPlayers)
	assert.Zero(t, summary.Players)
	assert.True(t, summary.Active)
}

func TestCreateRoomValidation(t *testing.T) {
	e, _ := newTestEngine(t, Options{MaxPlayersLimit: 10})
	tests := []struct {
		name       string
		roomName   string
		maxPlayers int
		code       string
	}{
		{"empty name", "  ", 5, "INVALID_ROOM_NAME"},
		{"negative max", "Xmas", -1, "INVALID_MAX_PLAYERS"},
		{"above limit", "Xmas", 11, "INVALID_MAX_PLAYERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := e.Handle(Command{Kind: CmdCreateRoom, ConnID: "admin", Name: tt.roomName, MaxPlayers: tt.maxPlayers})
			assert.Equal(t, tt.code, errorCode(t, ns, EventExtractionError))
		})
	}
	assert.Empty(t, e.Rooms())

	code := createRoom(t, e, "admin", "Default", 0)
	summary, _ := e.Lookup(code)
	assert.Equal(t, 10, summary.MaxPlayers)
}

func TestJoinBoundary(t *testing.T) {
	e, rec := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Small", 2)

	joined := joinRoom(t, e, "c1", code, "Anna", 1)
	assert.Equal(t, "Small", joined.RoomName)
	assert.Len(t, joined.Cards, 1)
	assert.Equal(t, []string{"c1"}, rec.last().Joined)

	ns := e.Handle(Command{Kind: CmdJoinRoom, ConnID: "c2", RoomCode: code, Name: "Bob", CardCount: 2})
	joined = one(t, ns, EventJoinedRoom, AudienceConn).Payload.(JoinedRoomPayload)
	assert.Len(t, joined.Players, 2)
	assert.Len(t, joined.Cards, 2)
	assert.Equal(t, "Bob", one(t, ns, EventPlayerJoined, AudienceRoom).Payload.(PlayerJoinedPayload).Name)
	update := one(t, ns, EventRoomUpdate, AudienceConn)
	assert.Equal(t, "admin", update.ConnID)

	ns = e.Handle(Command{Kind: CmdJoinRoom, ConnID: "c3", RoomCode: code, Name: "Carl", CardCount: 1})
	require.Len(t, ns, 1)
	assert.Equal(t, "c3", ns[0].ConnID)
	assert.Equal(t, "ROOM_FULL", ns[0].Payload.(ErrorPayload).Code)

	summary, _ := e.Lookup(code)
	assert.Equal(t, 2, summary.Players)
}

func TestJoinErrors(t *testing.T) {
	e, _ := newTestEngine(t, Options{MaxCardsPerPlayer: 3})
	code := createRoom(t, e, "admin", "Room", 5)
	other := createRoom(t, e, "admin", "Other", 5)
	joinRoom(t, e, "c1", code, "Anna", 1)

	tests := []struct {
		name string
		cmd  Command
		code string
	}{
		{"unknown room", Command{RoomCode: "NOPE42", Name: "Bob", CardCount: 1}, "ROOM_NOT_FOUND"},
		{"empty name", Command{RoomCode: code, Name: "", CardCount: 1}, "INVALID_PLAYER_NAME"},
		{"zero cards", Command{RoomCode: code, Name: "Bob", CardCount: 0}, "INVALID_CARD_COUNT"},
		{"too many cards", Command{RoomCode: code, Name: "Bob", CardCount: 4}, "INVALID_CARD_COUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			cmd.Kind = CmdJoinRoom
			cmd.ConnID = "c2"
			assert.Equal(t, tt.code, errorCode(t, e.Handle(cmd), EventJoinError))
		})
	}

	ns := e.Handle(Command{Kind: CmdJoinRoom, ConnID: "c1", RoomCode: code, Name: "Anna", CardCount: 1})
	assert.Equal(t, "ALREADY_IN_ROOM", errorCode(t, ns, EventJoinError))
	ns = e.Handle(Command{Kind: CmdJoinRoom, ConnID: "c1", RoomCode: other, Name: "Anna", CardCount: 1})
	assert.Equal(t, "ALREADY_IN_ROOM", errorCode(t, ns, EventJoinError))
}

func TestExtractRequiresAdmin(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	joinRoom(t, e, "c1", code, "Anna", 1)

	for _, kind := range []CommandKind{CmdExtract, CmdReset, CmdAutoExtract} {
		ns := e.Handle(Command{Kind: kind, ConnID: "c1", RoomCode: code, Enabled: true})
		assert.Equal(t, "NOT_ROOM_ADMIN", errorCode(t, ns, EventExtractionError), string(kind))
	}
	summary, _ := e.Lookup(code)
	assert.Zero(t, summary.DrawnCount)
}

func TestExtractUntilExhausted(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)

	seen := map[int]bool{}
	for i := 1; i <= 90; i++ {
		ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
		p := one(t, ns, EventNumberExtracted, AudienceRoom).Payload.(NumberExtractedPayload)
		assert.False(t, seen[p.Number])
		seen[p.Number] = true
		assert.Equal(t, i, p.DrawnCount)
		admin := one(t, ns, EventNumberExtractedAdmin, AudienceConn).Payload.(NumberExtractedAdminPayload)
		assert.Len(t, admin.DrawnNumbers, i)
	}

	ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	assert.Equal(t, "EXTRACTION_EXHAUSTED", errorCode(t, ns, EventExtractionError))
	assert.Empty(t, filter(ns, EventNumberExtracted, AudienceRoom))
}

// Full game: the admin draws until Anna fills her card.
func TestXmasGameThenReset(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Xmas", 10)
	joined := joinRoom(t, e, "anna", code, "Anna", 1)
	card := joined.Cards[0]
	assert.Empty(t, joined.DrawnNumbers)
	assert.Nil(t, joined.LastDrawn)

	var all []Notification
	onCard := map[int]bool{}
	for _, c := range card.Numbers {
		onCard[c.Number] = true
	}
	finished := false
	for i := 0; i < 90 && !finished; i++ {
		ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
		all = append(all, ns...)
		finished = len(filter(ns, EventGameFinished, AudienceRoom)) > 0
	}
	require.True(t, finished)

	wins := filter(all, EventWinDetected, AudienceRoom)
	assert.Len(t, wins, 12, "four prizes on each of three rows")
	assert.Len(t, filter(all, EventWinDetected, AudienceConn), 12)
	won := one(t, all, EventPlayerWon, AudienceRoom).Payload.(PlayerWonPayload)
	assert.Equal(t, Tombola, won.Type)
	assert.Equal(t, "Anna", won.PlayerName)
	over := one(t, all, EventGameFinished, AudienceRoom).Payload.(GameFinishedPayload)
	require.Len(t, over.WinHistory, 13)
	for i, w := range wins {
		p := w.Payload.(WinDetectedPayload)
		assert.NotEqual(t, Tombola, p.Type)
		assert.Equal(t, "Anna", p.PlayerName)
		assert.Equal(t, 0, p.CardIndex)
		assert.Equal(t, over.WinHistory[i].Timestamp, p.Timestamp)
	}
	assert.Equal(t, over.WinHistory[12].Timestamp, won.Timestamp)
	for n := range onCard {
		assert.Contains(t, over.DrawnNumbers, n)
	}

	// extraction goes on after the tombola without new prizes
	ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	if len(over.DrawnNumbers) < 90 {
		one(t, ns, EventNumberExtracted, AudienceRoom)
	}
	assert.Empty(t, filter(ns, EventWinDetected, AudienceRoom))
	assert.Empty(t, filter(ns, EventPlayerWon, AudienceRoom))

	ns = e.Handle(Command{Kind: CmdReset, ConnID: "admin", RoomCode: code})
	one(t, ns, EventExtractionReset, AudienceRoom)
	one(t, ns, EventExtractionResetAdmin, AudienceConn)
	update := one(t, ns, EventRoomUpdate, AudienceConn).Payload.(RoomUpdatePayload)
	assert.Zero(t, update.DrawnCount)
	require.Len(t, update.Players, 1)
	assert.Zero(t, update.Players[0].MarkedCount)

	// same card, every cell cleared
	after := seatedCards(t, e, code, "anna")
	require.Len(t, after, 1)
	assert.Equal(t, numbersOf(card), numbersOf(after[0]))
	assert.Zero(t, after[0].MarkedCount())

	// the prizes are up for grabs again
	var ambo *WinDetectedPayload
	draws := 0
	for ambo == nil && draws < 90 {
		ns = e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
		one(t, ns, EventNumberExtracted, AudienceRoom)
		draws++
		for _, n := range filter(ns, EventWinDetected, AudienceRoom) {
			p := n.Payload.(WinDetectedPayload)
			require.Equal(t, Ambo, p.Type)
			ambo = &p
		}
	}
	require.NotNil(t, ambo, "no ambo after reset")
	assert.Equal(t, "Anna", ambo.PlayerName)

	ns = e.Handle(Command{Kind: CmdAdminJoin, ConnID: "admin", RoomCode: code})
	data := one(t, ns, EventAdminRoomData, AudienceConn).Payload.(AdminRoomDataPayload)
	assert.Len(t, data.ExtractedNumbers, draws)
	require.Len(t, data.WinHistory, 1)
	assert.Equal(t, Ambo, data.WinHistory[0].Type)
	require.Len(t, data.Players, 1)
	assert.Equal(t, "Anna", data.Players[0].Name)
}

// seatedCards copies the cards the engine holds for a seated connection.
func seatedCards(t *testing.T, e *Engine, code, conn string) []*Card {
	t.Helper()
	r, err := e.lockRoom(code)
	require.NoError(t, err)
	defer r.mu.Unlock()
	p, ok := r.players[conn]
	require.True(t, ok, "%s is not seated in %s", conn, code)
	return p.cardsCopy()
}

func numbersOf(c *Card) []int {
	out := make([]int, len(c.Numbers))
	for i, cell := range c.Numbers {
		out[i] = cell.Number
	}
	return out
}

func TestResetTwiceEqualsOnce(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	joinRoom(t, e, "c1", code, "Anna", 2)
	for i := 0; i < 30; i++ {
		e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	}

	e.Handle(Command{Kind: CmdReset, ConnID: "admin", RoomCode: code})
	onceData := one(t, e.Handle(Command{Kind: CmdAdminJoin, ConnID: "admin", RoomCode: code}), EventAdminRoomData, AudienceConn)
	once, _ := e.Lookup(code)

	e.Handle(Command{Kind: CmdReset, ConnID: "admin", RoomCode: code})
	twiceData := one(t, e.Handle(Command{Kind: CmdAdminJoin, ConnID: "admin", RoomCode: code}), EventAdminRoomData, AudienceConn)
	twice, _ := e.Lookup(code)

	assert.Equal(t, onceData.Payload, twiceData.Payload)
	assert.Equal(t, once.DrawnCount, twice.DrawnCount)
	assert.Nil(t, twice.LastDrawn)
	assert.False(t, twice.Finished)
}

func TestManualMarkAmboExactlyOnce(t *testing.T) {
	e, _ := newTestEngine(t, Options{ManualMark: true})
	code := createRoom(t, e, "admin", "Room", 5)
	card := joinRoom(t, e, "c1", code, "Anna", 1).Cards[0]

	mark := func(n int) []Notification {
		return e.Handle(Command{Kind: CmdMark, ConnID: "c1", RoomCode: code, CardIndex: 0, Number: n})
	}
	row0 := rowCells(card, 0)

	ns := mark(row0[0].Number)
	assert.Equal(t, "NUMBER_NOT_YET_DRAWN", errorCode(t, ns, EventMarkError))

	for i := 0; i < 90; i++ {
		ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
		assert.Empty(t, filter(ns, EventWinDetected, AudienceRoom))
	}

	ns = mark(row0[0].Number)
	assert.Equal(t, 1, one(t, ns, EventCardMarked, AudienceConn).Payload.(CardMarkedPayload).MarkedCount)
	assert.Empty(t, filter(ns, EventWinDetected, AudienceRoom))

	ns = mark(row0[1].Number)
	ambo := one(t, ns, EventWinDetected, AudienceRoom).Payload.(WinDetectedPayload)
	assert.Equal(t, Ambo, ambo.Type)
	assert.Equal(t, 0, *ambo.RowIndex)

	assert.Nil(t, mark(row0[1].Number), "marking twice is a silent no-op")

	ns = mark(row0[2].Number)
	terna := one(t, ns, EventWinDetected, AudienceRoom).Payload.(WinDetectedPayload)
	assert.Equal(t, Terna, terna.Type)

	row1 := rowCells(card, 1)
	mark(row1[0].Number)
	ns = mark(row1[1].Number)
	ambo = one(t, ns, EventWinDetected, AudienceRoom).Payload.(WinDetectedPayload)
	assert.Equal(t, 1, *ambo.RowIndex)
}

func TestMarkErrors(t *testing.T) {
	e, _ := newTestEngine(t, Options{ManualMark: true})
	code := createRoom(t, e, "admin", "Room", 5)
	card := joinRoom(t, e, "c1", code, "Anna", 1).Cards[0]
	for i := 0; i < 90; i++ {
		e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	}
	notOnCard := 1
	for card.Find(notOnCard) != nil {
		notOnCard++
	}

	tests := []struct {
		name string
		cmd  Command
		code string
	}{
		{"not seated", Command{ConnID: "c9", RoomCode: code, Number: 5}, "NOT_IN_ROOM"},
		{"unknown room", Command{ConnID: "c1", RoomCode: "ZZZZZZ", Number: 5}, "ROOM_NOT_FOUND"},
		{"number too high", Command{ConnID: "c1", RoomCode: code, Number: 91}, "INVALID_NUMBER"},
		{"bad card index", Command{ConnID: "c1", RoomCode: code, CardIndex: 1, Number: 5}, "INVALID_CARD_INDEX"},
		{"not on card", Command{ConnID: "c1", RoomCode: code, Number: notOnCard}, "NUMBER_NOT_ON_CARD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			cmd.Kind = CmdMark
			assert.Equal(t, tt.code, errorCode(t, e.Handle(cmd), EventMarkError))
		})
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	e, rec := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	joinRoom(t, e, "c1", code, "Anna", 1)
	joinRoom(t, e, "c2", code, "Bob", 1)

	ns := e.Handle(Command{Kind: CmdLeaveRoom, ConnID: "c1", RoomCode: code})
	left := one(t, ns, EventPlayerLeft, AudienceRoom).Payload.(PlayerLeftPayload)
	assert.Equal(t, "Anna", left.PlayerName)
	assert.Equal(t, "c1", one(t, ns, EventLeftRoom, AudienceConn).ConnID)
	assert.Equal(t, []string{"c1"}, rec.last().Left)

	assert.Nil(t, e.Handle(Command{Kind: CmdLeaveRoom, ConnID: "c1", RoomCode: code}))
	assert.Nil(t, e.Handle(Command{Kind: CmdDisconnect, ConnID: "c1"}))

	ns = e.Handle(Command{Kind: CmdDisconnect, ConnID: "c2"})
	one(t, ns, EventPlayerLeft, AudienceRoom)
	summary, _ := e.Lookup(code)
	assert.Zero(t, summary.Players)

	// seat released, so the connection may join again
	joinRoom(t, e, "c1", code, "Anna", 1)
}

func TestAdminDisconnect(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	joinRoom(t, e, "c1", code, "Anna", 1)

	e.Handle(Command{Kind: CmdDisconnect, ConnID: "admin"})
	ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	assert.Equal(t, "NOT_ROOM_ADMIN", errorCode(t, ns, EventExtractionError))

	// without an admin, nothing goes to a connection except the room group
	ns = e.Handle(Command{Kind: CmdLeaveRoom, ConnID: "c1", RoomCode: code})
	assert.Empty(t, filter(ns, EventRoomUpdate, AudienceConn))

	ns = e.Handle(Command{Kind: CmdAdminJoin, ConnID: "admin2", RoomCode: code})
	one(t, ns, EventAdminRoomData, AudienceConn)
	ns = e.Handle(Command{Kind: CmdExtract, ConnID: "admin2", RoomCode: code})
	one(t, ns, EventNumberExtracted, AudienceRoom)
}

func TestLateJoinerIsMarked(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	for i := 0; i < 45; i++ {
		e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	}
	joined := joinRoom(t, e, "c1", code, "Anna", 1)
	assert.Len(t, joined.DrawnNumbers, 45)
	require.NotNil(t, joined.LastDrawn)

	drawn := map[int]bool{}
	for _, n := range joined.DrawnNumbers {
		drawn[n] = true
	}
	for _, cell := range joined.Cards[0].Numbers {
		assert.Equal(t, drawn[cell.Number], cell.Marked, "number %d", cell.Number)
	}
}

func TestSweepEvictsIdleRooms(t *testing.T) {
	now := time.Date(2025, 12, 24, 20, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	e, rec := newTestEngine(t, Options{Now: clock})
	idle := createRoom(t, e, "admin", "Idle", 5)
	joinRoom(t, e, "c1", idle, "Anna", 1)
	joinRoom(t, e, "c2", idle, "Bruno", 2)

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()
	busy := createRoom(t, e, "admin", "Busy", 5)

	evicted := e.Sweep(time.Hour)
	assert.Equal(t, []string{idle}, evicted)

	closed := rec.last()
	assert.True(t, closed.Removed)
	assert.Nil(t, closed.Summary)
	assert.Equal(t, []string{"c1", "c2"}, closed.Left)
	// the seats leave the socket room in this batch, so nothing goes to it
	assert.Empty(t, filter(closed.Notifications, EventRoomClosed, AudienceRoom))
	var told []string
	for _, n := range filter(closed.Notifications, EventRoomClosed, AudienceConn) {
		told = append(told, n.ConnID)
		assert.Equal(t, RoomClosedPayload{RoomCode: idle, Reason: "idle"}, n.Payload)
	}
	assert.ElementsMatch(t, []string{"c1", "c2", "admin"}, told)

	_, ok := e.Lookup(idle)
	assert.False(t, ok)
	_, ok = e.Lookup(busy)
	assert.True(t, ok)

	joinRoom(t, e, "c1", busy, "Anna", 1)
}

func TestAutoExtract(t *testing.T) {
	e, _ := newTestEngine(t, Options{AutoExtractInterval: 5 * time.Millisecond})
	code := createRoom(t, e, "admin", "Room", 5)

	ns := e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: true})
	status := one(t, ns, EventAutoExtractStatus, AudienceConn).Payload.(AutoExtractStatusPayload)
	assert.True(t, status.Enabled)

	require.Eventually(t, func() bool {
		s, _ := e.Lookup(code)
		return s.DrawnCount >= 3
	}, 2*time.Second, 5*time.Millisecond)

	ns = e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: false})
	status = one(t, ns, EventAutoExtractStatus, AudienceConn).Payload.(AutoExtractStatusPayload)
	assert.False(t, status.Enabled)
	assert.False(t, e.auto.running(code))

	stopped, _ := e.Lookup(code)
	time.Sleep(30 * time.Millisecond)
	after, _ := e.Lookup(code)
	assert.Equal(t, stopped.DrawnCount, after.DrawnCount)
}

func TestAutoTickFromReplacedTicker(t *testing.T) {
	e, _ := newTestEngine(t, Options{AutoExtractInterval: time.Hour})
	code := createRoom(t, e, "admin", "Room", 5)

	e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: true})
	e.auto.mu.Lock()
	old := e.auto.stops[code]
	e.auto.mu.Unlock()
	require.NotNil(t, old)

	e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: false})
	e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: true})
	require.True(t, e.auto.running(code))
	assert.False(t, e.auto.owns(code, old))

	// a tick of the first ticker that was waiting on the room lock
	assert.False(t, e.autoTick(code, old))
	s, _ := e.Lookup(code)
	assert.Zero(t, s.DrawnCount)

	e.auto.mu.Lock()
	current := e.auto.stops[code]
	e.auto.mu.Unlock()
	assert.True(t, e.autoTick(code, current))
	s, _ = e.Lookup(code)
	assert.Equal(t, 1, s.DrawnCount)
}

func TestAutoExtractStopsWhenExhausted(t *testing.T) {
	e, _ := newTestEngine(t, Options{AutoExtractInterval: time.Millisecond})
	code := createRoom(t, e, "admin", "Room", 5)
	e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: true})

	require.Eventually(t, func() bool {
		s, _ := e.Lookup(code)
		return s.DrawnCount == 90 && !e.auto.running(code)
	}, 5*time.Second, 5*time.Millisecond)

	ns := e.Handle(Command{Kind: CmdAutoExtract, ConnID: "admin", RoomCode: code, Enabled: true})
	assert.Equal(t, "EXTRACTION_EXHAUSTED", errorCode(t, ns, EventExtractionError))
}

func TestIsDrawn(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	code := createRoom(t, e, "admin", "Room", 5)
	ns := e.Handle(Command{Kind: CmdExtract, ConnID: "admin", RoomCode: code})
	n := one(t, ns, EventNumberExtracted, AudienceRoom).Payload.(NumberExtractedPayload).Number

	drawn, err := e.IsDrawn(code, n)
	require.NoError(t, err)
	assert.True(t, drawn)

	_, err = e.IsDrawn(code, 0)
	assert.ErrorIs(t, err, ErrInvalidNumber)
	_, err = e.IsDrawn("NOPE00", 5)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
