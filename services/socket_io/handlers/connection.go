package handlers

import (
	"Tombola/services/game"
	socketio_types "Tombola/services/socket_io/types"
	"Tombola/utils/logger"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandleDisconnecting releases the seat and any admin role of the socket
// before it is dropped from the connection map.
func HandleDisconnecting(engine *game.Engine, client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		id := string(client.Id())
		logger.Infof("[DISCONNECT] socket %s disconnecting: %v", id, args)
		engine.Handle(game.Command{Kind: game.CmdDisconnect, ConnID: id})
		sio.RemoveConnection(id)
	}
}
