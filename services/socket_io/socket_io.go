package socket_io

import (
	"Tombola/config"
	"Tombola/services/game"
	"Tombola/services/socket_io/handlers"
	socketio_types "Tombola/services/socket_io/types"
	socketio_utils "Tombola/services/socket_io/utils"
	"Tombola/utils/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start registers the event listeners and mounts socket.io on the router.
func (sio *MySocketServer) Start(router *gin.Engine, engine *game.Engine, cfg *config.Config) {
	log.DEBUG = cfg.SocketDebug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		id := string(client.Id())

		isAdmin := socketio_utils.VerifyAdminConnection(client, cfg.Admin)
		server.AddConnection(id, client)
		logger.Infof("[CONNECT] socket %s connected (admin=%t, total=%d)", id, isAdmin, server.ConnectionCount())

		// Operator events
		client.On(string(game.CmdCreateRoom), handlers.HandleCreateRoom(engine, client, isAdmin))
		client.On(string(game.CmdAdminJoin), handlers.HandleAdminJoin(engine, client, isAdmin))
		client.On(string(game.CmdExtract), handlers.HandleExtractNumber(engine, client, isAdmin))
		client.On(string(game.CmdReset), handlers.HandleResetExtraction(engine, client, isAdmin))
		client.On(string(game.CmdAutoExtract), handlers.HandleAutoExtract(engine, client, isAdmin))

		// Player events
		client.On(string(game.CmdJoinRoom), handlers.HandleJoinRoom(engine, client))
		client.On(string(game.CmdLeaveRoom), handlers.HandleLeaveRoom(engine, client))
		client.On(string(game.CmdMark), handlers.HandleMarkNumber(engine, client))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(engine, client, server))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	logger.Info("Socket server started")
}

func (sio *MySocketServer) Close() {
	sio.Sio_server.Close(nil)
}
