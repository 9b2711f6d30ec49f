package controllers

import (
	"Tombola/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoomMirror reads the room snapshots kept in Redis.
type RoomMirror interface {
	ListRoomSummaries() ([]game.RoomSummary, error)
	GetRoomSummary(roomCode string) (*game.RoomSummary, error)
	GetWins(roomCode string) ([]game.WinRecord, error)
}

// @Summary Mirrored rooms
// @Description Room snapshots as stored in Redis. 503 when Redis is not configured.
// @Tags admin
// @Produce json
// @Success 200 {array} game.RoomSummary
// @Failure 503 {object} object{error=string}
// @Router /api/admin/mirror/rooms [get]
func ListMirroredRooms(mirror RoomMirror) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mirror == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Room mirror is not configured"})
			return
		}
		rooms, err := mirror.ListRoomSummaries()
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, rooms)
	}
}

// @Summary Mirrored room
// @Description Snapshot and prize list of one room as stored in Redis.
// @Tags admin
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} object{room=game.RoomSummary,wins=[]game.WinRecord}
// @Failure 404 {object} object{error=string}
// @Failure 503 {object} object{error=string}
// @Router /api/admin/mirror/rooms/{code} [get]
func GetMirroredRoom(mirror RoomMirror) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mirror == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Room mirror is not configured"})
			return
		}
		code := game.NormalizeRoomCode(c.Param("code"))
		summary, err := mirror.GetRoomSummary(code)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if summary == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Message})
			return
		}
		wins, err := mirror.GetWins(code)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": summary, "wins": wins})
	}
}
