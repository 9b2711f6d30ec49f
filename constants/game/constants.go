package game_constants

import "time"

// Board and card geometry
const (
	MaxNumber    = 90
	CardRows     = 3
	CardColumns  = 9
	CellsPerRow  = 5
	CellsPerCard = CardRows * CellsPerRow // 15
	MinPerColumn = 1
	MaxPerColumn = 3
	RebalanceCap = 64 // max cell moves while balancing rows
)

// Room codes
const (
	RoomCodeLength  = 6
	RoomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	RoomCodeRetries = 1000
)

// Defaults used when the configuration leaves a value unset
const (
	DefaultMaxPlayers        = 20
	DefaultMaxPlayersLimit   = 100
	DefaultMaxCardsPerPlayer = 6
	DefaultAutoExtract       = 5 * time.Second
	DefaultRoomIdleTimeout   = 6 * time.Hour
	DefaultRoomSweepInterval = 10 * time.Minute
	MaxNameLength            = 40
)

// Dedup scopes for sub-tombola wins
const (
	DedupByTypeAndRow = "type_row"
	DedupByType       = "type"
)
