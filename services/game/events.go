package game

import (
	"context"
	"time"
)

// Event names shared with the clients.
const (
	EventRoomCreated          = "room-created"
	EventJoinedRoom           = "joined-room"
	EventJoinError            = "join-error"
	EventPlayerJoined         = "player-joined"
	EventPlayerLeft           = "player-left"
	EventLeftRoom             = "left-room"
	EventNumberExtracted      = "number-extracted"
	EventNumberExtractedAdmin = "number-extracted-admin"
	EventExtractionReset      = "extraction-reset"
	EventExtractionResetAdmin = "extraction-reset-admin"
	EventExtractionError      = "extraction-error"
	EventWinDetected          = "win-detected"
	EventPlayerWon            = "player-won"
	EventGameFinished         = "game-finished"
	EventRoomUpdate           = "room-update"
	EventMarkError            = "mark-error"
	EventCardMarked           = "card-marked"
	EventAdminRoomData        = "admin-room-data"
	EventAutoExtractStatus    = "auto-extract-status"
	EventRoomClosed           = "room-closed"
)

type Audience int

const (
	// AudienceRoom reaches every player seated in RoomCode.
	AudienceRoom Audience = iota
	// AudienceConn reaches a single connection. Admin notifications are
	// resolved to the admin connection before they leave the engine.
	AudienceConn
)

func (a Audience) String() string {
	if a == AudienceRoom {
		return "room"
	}
	return "conn"
}

// Notification is one event to deliver. Payloads only hold copies of room
// state, never pointers into it.
type Notification struct {
	Audience Audience
	RoomCode string
	ConnID   string
	Event    string
	Payload  any
}

// Batch is everything one command produced for one room, in delivery order.
type Batch struct {
	RoomCode string
	// Summary is the room after the command. It is nil for batches that
	// only carry an error for an unknown room.
	Summary *RoomSummary
	// Removed is set when the room was evicted by this batch.
	Removed bool
	// Left connections stop receiving room notifications before delivery,
	// Joined ones start receiving them after.
	Left          []string
	Joined        []string
	Notifications []Notification
}

// Sink receives every batch the engine produces, while the room lock is held.
type Sink interface {
	Publish(ctx context.Context, b Batch) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, b Batch) error

func (f SinkFunc) Publish(ctx context.Context, b Batch) error { return f(ctx, b) }

type RoomSummary struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Players    int       `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	DrawnCount int       `json:"drawnCount"`
	LastDrawn  *int      `json:"lastDrawn"`
	Active     bool      `json:"active"`
	Finished   bool      `json:"finished"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

type PlayerInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CardCount   int    `json:"cardCount"`
	MarkedCount int    `json:"markedCount"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

func errorPayload(err error) ErrorPayload {
	ge := AsGameError(err)
	return ErrorPayload{Reason: ge.Message, Code: ge.Code}
}

type RoomCreatedPayload struct {
	RoomCode   string `json:"roomCode"`
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
}

type JoinedRoomPayload struct {
	RoomCode     string       `json:"roomCode"`
	RoomName     string       `json:"roomName"`
	Players      []PlayerInfo `json:"players"`
	Cards        []*Card      `json:"cards"`
	LastDrawn    *int         `json:"lastDrawn"`
	DrawnNumbers []int        `json:"drawnNumbers"`
	WinHistory   []WinRecord  `json:"winHistory"`
}

type PlayerJoinedPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
}

type PlayerLeftPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type LeftRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type NumberExtractedPayload struct {
	Number     int `json:"number"`
	DrawnCount int `json:"drawnCount"`
}

type NumberExtractedAdminPayload struct {
	Number       int   `json:"number"`
	DrawnNumbers []int `json:"drawnNumbers"`
}

type ExtractionResetPayload struct {
	RoomCode string `json:"roomCode"`
}

type WinDetectedPayload struct {
	Type       WinType   `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	CardIndex  int       `json:"cardIndex"`
	RowIndex   *int      `json:"rowIndex,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type PlayerWonPayload struct {
	Type       WinType   `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	CardIndex  int       `json:"cardIndex"`
	Timestamp  time.Time `json:"timestamp"`
}

type GameFinishedPayload struct {
	Room         RoomSummary `json:"room"`
	Winner       WinRecord   `json:"winner"`
	DrawnNumbers []int       `json:"drawnNumbers"`
	WinHistory   []WinRecord `json:"winHistory"`
}

type RoomUpdatePayload struct {
	Players    []PlayerInfo `json:"players"`
	DrawnCount int          `json:"drawnCount"`
}

type CardMarkedPayload struct {
	CardIndex   int `json:"cardIndex"`
	Number      int `json:"number"`
	MarkedCount int `json:"markedCount"`
}

type AdminRoomDataPayload struct {
	RoomCode         string       `json:"roomCode"`
	Name             string       `json:"name"`
	MaxPlayers       int          `json:"maxPlayers"`
	Players          []PlayerInfo `json:"players"`
	ExtractedNumbers []int        `json:"extractedNumbers"`
	LastNumber       *int         `json:"lastNumber"`
	WinHistory       []WinRecord  `json:"winHistory"`
	AutoExtract      bool         `json:"autoExtract"`
}

type AutoExtractStatusPayload struct {
	RoomCode        string  `json:"roomCode"`
	Enabled         bool    `json:"enabled"`
	IntervalSeconds float64 `json:"intervalSeconds"`
}

type RoomClosedPayload struct {
	RoomCode string `json:"roomCode"`
	Reason   string `json:"reason"`
}
