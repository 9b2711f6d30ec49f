package game

import "errors"

// GameError is a recoverable error delivered to the connection that issued
// the command. Code is stable and meant for clients, Message is human readable.
type GameError struct {
	Code    string
	Message string
}

func (e *GameError) Error() string {
	return e.Code + ": " + e.Message
}

func newGameError(code, message string) *GameError {
	return &GameError{Code: code, Message: message}
}

var (
	ErrRoomNotFound        = newGameError("ROOM_NOT_FOUND", "Room not found")
	ErrRoomFull            = newGameError("ROOM_FULL", "Room is full")
	ErrNumberNotYetDrawn   = newGameError("NUMBER_NOT_YET_DRAWN", "This number has not been drawn yet")
	ErrAlreadyMarked       = newGameError("ALREADY_MARKED", "Number already marked")
	ErrExtractionExhausted = newGameError("EXTRACTION_EXHAUSTED", "All 90 numbers have been drawn")
	ErrInvalidCardIndex    = newGameError("INVALID_CARD_INDEX", "Card does not exist")
	ErrNumberNotOnCard     = newGameError("NUMBER_NOT_ON_CARD", "Number is not on this card")
	ErrNotInRoom           = newGameError("NOT_IN_ROOM", "You are not in this room")
	ErrAlreadyInRoom       = newGameError("ALREADY_IN_ROOM", "You already joined a room")
	ErrNotRoomAdmin        = newGameError("NOT_ROOM_ADMIN", "Only the room admin can do this")
	ErrInvalidRoomName     = newGameError("INVALID_ROOM_NAME", "Room name is required")
	ErrInvalidMaxPlayers   = newGameError("INVALID_MAX_PLAYERS", "Invalid maximum number of players")
	ErrInvalidPlayerName   = newGameError("INVALID_PLAYER_NAME", "Player name is required")
	ErrInvalidCardCount    = newGameError("INVALID_CARD_COUNT", "Invalid number of cards")
	ErrInvalidNumber       = newGameError("INVALID_NUMBER", "Numbers go from 1 to 90")
	ErrInternal            = newGameError("INTERNAL", "Internal server error")
)

// Internal invariant violations. These are bugs, never user errors: they are
// logged loudly and surfaced to clients as ErrInternal.
var (
	ErrCardInvariant = errors.New("generated card violates card invariants")
	ErrDrawFailed    = errors.New("could not draw a number")
	ErrNoRoomCode    = errors.New("no free room code")
)

// AsGameError maps any error to the GameError reported to clients.
func AsGameError(err error) *GameError {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge
	}
	return ErrInternal
}
