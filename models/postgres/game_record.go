package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'GameRecord' is a finished game: the room it was played in, the
 * drawn sequence and every prize awarded, stored as JSON.
 */
type GameRecord struct {
	ID           string         `gorm:"primaryKey;size:36;not null" json:"id"`
	RoomCode     string         `gorm:"size:6;not null;index:idx_game_records_room" json:"roomCode"`
	RoomName     string         `gorm:"size:50;not null" json:"roomName"`
	WinnerName   string         `gorm:"size:50" json:"winnerName"`
	PlayerCount  int            `gorm:"not null" json:"playerCount"`
	DrawnCount   int            `gorm:"not null" json:"drawnCount"`
	DrawnNumbers datatypes.JSON `gorm:"type:jsonb" json:"drawnNumbers"`
	WinHistory   datatypes.JSON `gorm:"type:jsonb" json:"winHistory"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `gorm:"index:idx_game_records_finished" json:"finishedAt"`
}

func (g *GameRecord) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
