package controllers

import (
	"Tombola/services/game"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RoomDirectory is the read side of the game engine.
type RoomDirectory interface {
	Lookup(code string) (game.RoomSummary, bool)
	IsDrawn(code string, number int) (bool, error)
	Rooms() []game.RoomSummary
}

// @Summary Check a room before joining
// @Description Existence and occupancy of a room. Unknown codes return exists=false with 200.
// @Tags room
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} object{exists=bool,code=string,name=string,players=int,maxPlayers=int,drawnCount=int,active=bool}
// @Router /api/room/{code} [get]
func GetRoom(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := game.NormalizeRoomCode(c.Param("code"))
		summary, ok := rooms.Lookup(code)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"exists": false, "code": code})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"exists":     true,
			"code":       summary.Code,
			"name":       summary.Name,
			"players":    summary.Players,
			"maxPlayers": summary.MaxPlayers,
			"drawnCount": summary.DrawnCount,
			"active":     summary.Active,
		})
	}
}

// @Summary Check whether a number was drawn
// @Tags room
// @Produce json
// @Param code path string true "Room code"
// @Param number path int true "Number between 1 and 90"
// @Success 200 {object} object{number=int,drawn=bool}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/room/{code}/drawn/{number} [get]
func GetDrawn(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidNumber.Message})
			return
		}
		drawn, err := rooms.IsDrawn(game.NormalizeRoomCode(c.Param("code")), number)
		switch {
		case errors.Is(err, game.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Message})
			return
		case errors.Is(err, game.ErrInvalidNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidNumber.Message})
			return
		case err != nil:
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"number": number, "drawn": drawn})
	}
}

// @Summary List live rooms
// @Tags admin
// @Produce json
// @Success 200 {array} game.RoomSummary
// @Failure 401 {object} object{error=string}
// @Router /api/admin/rooms [get]
func ListRooms(rooms RoomDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, rooms.Rooms())
	}
}
