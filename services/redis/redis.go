package redis

import (
	"Tombola/services/game"
	redis_utils "Tombola/services/redis/utils"
	"Tombola/utils/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient mirrors the room directory into Redis so other tools can list
// live rooms without talking to the game server.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisClient accepts a plain host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int, ttl time.Duration) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(Addr, "://") {
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}, nil
}

// SaveRoomSummary stores a room summary
// Key format: "room:{code}:summary"
func (rc *RedisClient) SaveRoomSummary(summary *game.RoomSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error marshaling room summary: %w", err)
	}
	return rc.client.Set(rc.ctx, redis_utils.FormatRoomKey(summary.Code), data, rc.ttl).Err()
}

// GetRoomSummary returns nil, nil when the room is not mirrored.
func (rc *RedisClient) GetRoomSummary(roomCode string) (*game.RoomSummary, error) {
	data, err := rc.client.Get(rc.ctx, redis_utils.FormatRoomKey(roomCode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting room summary: %w", err)
	}

	var summary game.RoomSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("error unmarshaling room summary: %w", err)
	}
	return &summary, nil
}

// ListRoomSummaries returns every mirrored room.
func (rc *RedisClient) ListRoomSummaries() ([]game.RoomSummary, error) {
	keys, err := rc.scanKeys(redis_utils.RoomKeyPattern)
	if err != nil {
		return nil, err
	}
	out := make([]game.RoomSummary, 0, len(keys))
	for _, key := range keys {
		data, err := rc.client.Get(rc.ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error getting %s: %w", key, err)
		}
		var summary game.RoomSummary
		if err := json.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("error unmarshaling %s: %w", key, err)
		}
		out = append(out, summary)
	}
	return out, nil
}

// AppendWins pushes prizes to the room's win list.
// Key format: "room:{code}:wins"
func (rc *RedisClient) AppendWins(roomCode string, wins []game.WinRecord) error {
	if len(wins) == 0 {
		return nil
	}
	key := redis_utils.FormatRoomWinsKey(roomCode)
	pipe := rc.client.TxPipeline()
	for _, w := range wins {
		data, err := json.Marshal(w)
		if err != nil {
			return fmt.Errorf("error marshaling win: %w", err)
		}
		pipe.RPush(rc.ctx, key, data)
	}
	pipe.Expire(rc.ctx, key, rc.ttl)
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("error appending wins: %w", err)
	}
	return nil
}

func (rc *RedisClient) GetWins(roomCode string) ([]game.WinRecord, error) {
	raw, err := rc.client.LRange(rc.ctx, redis_utils.FormatRoomWinsKey(roomCode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting wins: %w", err)
	}
	out := make([]game.WinRecord, 0, len(raw))
	for _, item := range raw {
		var w game.WinRecord
		if err := json.Unmarshal([]byte(item), &w); err != nil {
			return nil, fmt.Errorf("error unmarshaling win: %w", err)
		}
		out = append(out, w)
	}
	return out, nil
}

// DeleteRoom removes every key of a room
func (rc *RedisClient) DeleteRoom(roomCode string) error {
	pipe := rc.client.Pipeline()
	pipe.Del(rc.ctx, redis_utils.FormatRoomKey(roomCode))
	pipe.Del(rc.ctx, redis_utils.FormatRoomWinsKey(roomCode))
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("error deleting room data: %w", err)
	}
	return nil
}

// Publish keeps the mirror in step with the engine. It runs on the async
// dispatcher queue.
func (rc *RedisClient) Publish(_ context.Context, b game.Batch) error {
	if b.RoomCode == "" {
		return nil
	}
	if b.Removed {
		return rc.DeleteRoom(b.RoomCode)
	}
	if b.Summary == nil {
		return nil
	}

	var wins []game.WinRecord
	for _, n := range b.Notifications {
		if n.Audience != game.AudienceRoom {
			continue
		}
		switch p := n.Payload.(type) {
		case game.WinDetectedPayload:
			wins = append(wins, game.WinRecord{Type: p.Type, PlayerID: p.PlayerID, PlayerName: p.PlayerName, CardIndex: p.CardIndex, RowIndex: p.RowIndex, Timestamp: p.Timestamp})
		case game.PlayerWonPayload:
			wins = append(wins, game.WinRecord{Type: p.Type, PlayerID: p.PlayerID, PlayerName: p.PlayerName, CardIndex: p.CardIndex, Timestamp: p.Timestamp})
		case game.ExtractionResetPayload:
			if err := rc.client.Del(rc.ctx, redis_utils.FormatRoomWinsKey(b.RoomCode)).Err(); err != nil {
				return fmt.Errorf("error clearing wins: %w", err)
			}
		}
	}
	if err := rc.SaveRoomSummary(b.Summary); err != nil {
		return err
	}
	if err := rc.AppendWins(b.RoomCode, wins); err != nil {
		return err
	}
	logger.Debugf("[REDIS] mirrored room %s (%d players, %d drawn)", b.RoomCode, b.Summary.Players, b.Summary.DrawnCount)
	return nil
}
