package socketio_types

import (
	"Tombola/services/game"
	"context"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer holds the socket.io server and the live connections keyed by
// socket id. It is the sink that turns engine batches into emits.
type SocketServer struct {
	Sio_server *socket.Server
	// socket id -> connection
	Connections map[string]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Sio_server:  socket.NewServer(nil, nil),
		Connections: make(map[string]*socket.Socket),
	}
}

// RoomName is the socket.io group of a tombola room.
func RoomName(code string) socket.Room {
	return socket.Room("room:" + code)
}

func (s *SocketServer) AddConnection(id string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[id] = client
}

func (s *SocketServer) RemoveConnection(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
}

func (s *SocketServer) GetConnection(id string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.Connections[id]
	return client, exists
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}

// Publish delivers a batch. Connections listed in Left stop receiving room
// emits before delivery; connections in Joined start after it, so a joiner
// never gets its own player-joined.
func (s *SocketServer) Publish(_ context.Context, b game.Batch) error {
	room := RoomName(b.RoomCode)
	for _, id := range b.Left {
		if client, ok := s.GetConnection(id); ok {
			client.Leave(room)
		}
	}

	for _, n := range b.Notifications {
		switch n.Audience {
		case game.AudienceRoom:
			s.Sio_server.To(RoomName(n.RoomCode)).Emit(n.Event, n.Payload)
		case game.AudienceConn:
			if client, ok := s.GetConnection(n.ConnID); ok {
				client.Emit(n.Event, n.Payload)
			}
		}
	}

	for _, id := range b.Joined {
		if client, ok := s.GetConnection(id); ok {
			client.Join(room)
		}
	}
	return nil
}
