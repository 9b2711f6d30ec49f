package sync

import (
	"Tombola/models/postgres"
	"Tombola/services/game"
	"Tombola/utils/logger"
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SyncManager archives finished games to PostgreSQL. Live rooms stay in
// memory; only the outcome of a game is kept.
type SyncManager struct {
	db *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB) *SyncManager {
	return &SyncManager{db: db}
}

// Publish stores every game-finished notification of the batch.
func (sm *SyncManager) Publish(ctx context.Context, b game.Batch) error {
	for _, n := range b.Notifications {
		if n.Event != game.EventGameFinished || n.Audience != game.AudienceRoom {
			continue
		}
		finished, ok := n.Payload.(game.GameFinishedPayload)
		if !ok {
			continue
		}
		if err := sm.ArchiveGame(ctx, finished); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveGame inserts one finished game
func (sm *SyncManager) ArchiveGame(ctx context.Context, finished game.GameFinishedPayload) error {
	drawn, err := json.Marshal(finished.DrawnNumbers)
	if err != nil {
		return fmt.Errorf("error marshaling drawn numbers: %w", err)
	}
	wins, err := json.Marshal(finished.WinHistory)
	if err != nil {
		return fmt.Errorf("error marshaling win history: %w", err)
	}

	record := postgres.GameRecord{
		RoomCode:     finished.Room.Code,
		RoomName:     finished.Room.Name,
		WinnerName:   finished.Winner.PlayerName,
		PlayerCount:  finished.Room.Players,
		DrawnCount:   len(finished.DrawnNumbers),
		DrawnNumbers: datatypes.JSON(drawn),
		WinHistory:   datatypes.JSON(wins),
		StartedAt:    finished.Room.CreatedAt,
		FinishedAt:   finished.Winner.Timestamp,
	}
	if err := sm.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error archiving game of room %s: %w", record.RoomCode, err)
	}
	logger.Infof("[ARCHIVE] room %s game %s won by %s", record.RoomCode, record.ID, record.WinnerName)
	return nil
}

// RecentGames returns the last finished games, newest first.
func (sm *SyncManager) RecentGames(ctx context.Context, limit int) ([]postgres.GameRecord, error) {
	var records []postgres.GameRecord
	err := sm.db.WithContext(ctx).Order("finished_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error listing games: %w", err)
	}
	return records, nil
}
