package handlers

import (
	"Tombola/services/game"
	socketio_utils "Tombola/services/socket_io/utils"
	"Tombola/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

var errAdminRequired = game.ErrorPayload{Reason: "Admin authentication required", Code: "UNAUTHORIZED"}

// fill copies event arguments into the command.
type fill func(p socketio_utils.Payload, cmd *game.Command) error

// command builds the listener for one client event. Notifications reach the
// clients through the engine sink, so the handler only parses and forwards.
func command(engine *game.Engine, client *socket.Socket, kind game.CommandKind, adminOnly, isAdmin bool, parse fill) func(args ...interface{}) {
	return func(args ...interface{}) {
		if adminOnly && !isAdmin {
			logger.Warnf("[%s-ERROR] socket %s is not an admin", kind, client.Id())
			client.Emit(game.EventExtractionError, errAdminRequired)
			return
		}

		payload, err := socketio_utils.ParsePayload(args)
		if err != nil {
			logger.Warnf("[%s-ERROR] %v", kind, err)
			client.Emit("error", gin.H{"error": err.Error()})
			return
		}

		cmd := game.Command{Kind: kind, ConnID: string(client.Id()), RoomCode: payload.RoomCode()}
		if parse != nil {
			if err := parse(payload, &cmd); err != nil {
				logger.Warnf("[%s-ERROR] %v", kind, err)
				client.Emit("error", gin.H{"error": err.Error()})
				return
			}
		}
		engine.Handle(cmd)
	}
}

func HandleCreateRoom(engine *game.Engine, client *socket.Socket, isAdmin bool) func(args ...interface{}) {
	return command(engine, client, game.CmdCreateRoom, true, isAdmin, func(p socketio_utils.Payload, cmd *game.Command) error {
		cmd.Name = p.Text("name")
		if cmd.Name == "" {
			cmd.Name = p.Text("roomName")
		}
		var err error
		cmd.MaxPlayers, err = p.Int("maxPlayers", 0)
		return err
	})
}

func HandleAdminJoin(engine *game.Engine, client *socket.Socket, isAdmin bool) func(args ...interface{}) {
	return command(engine, client, game.CmdAdminJoin, true, isAdmin, nil)
}

func HandleJoinRoom(engine *game.Engine, client *socket.Socket) func(args ...interface{}) {
	return command(engine, client, game.CmdJoinRoom, false, false, func(p socketio_utils.Payload, cmd *game.Command) error {
		cmd.Name = p.Text("playerName")
		if cmd.Name == "" {
			cmd.Name = p.Text("name")
		}
		var err error
		cmd.CardCount, err = p.Int("cardCount", 1)
		return err
	})
}

func HandleLeaveRoom(engine *game.Engine, client *socket.Socket) func(args ...interface{}) {
	return command(engine, client, game.CmdLeaveRoom, false, false, nil)
}

func HandleExtractNumber(engine *game.Engine, client *socket.Socket, isAdmin bool) func(args ...interface{}) {
	return command(engine, client, game.CmdExtract, true, isAdmin, nil)
}

func HandleResetExtraction(engine *game.Engine, client *socket.Socket, isAdmin bool) func(args ...interface{}) {
	return command(engine, client, game.CmdReset, true, isAdmin, nil)
}

func HandleAutoExtract(engine *game.Engine, client *socket.Socket, isAdmin bool) func(args ...interface{}) {
	return command(engine, client, game.CmdAutoExtract, true, isAdmin, func(p socketio_utils.Payload, cmd *game.Command) error {
		cmd.Enabled = p.Bool("enabled")
		return nil
	})
}

func HandleMarkNumber(engine *game.Engine, client *socket.Socket) func(args ...interface{}) {
	return command(engine, client, game.CmdMark, false, false, func(p socketio_utils.Payload, cmd *game.Command) error {
		var err error
		if cmd.CardIndex, err = p.Int("cardIndex", 0); err != nil {
			return err
		}
		cmd.Number, err = p.Int("number", 0)
		return err
	})
}
