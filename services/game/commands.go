package game

import (
	"strings"
)

type CommandKind string

const (
	CmdCreateRoom  CommandKind = "create-room"
	CmdAdminJoin   CommandKind = "admin-join"
	CmdJoinRoom    CommandKind = "join-room"
	CmdLeaveRoom   CommandKind = "leave-room"
	CmdExtract     CommandKind = "extract-number"
	CmdReset       CommandKind = "reset-extraction"
	CmdMark        CommandKind = "mark-number"
	CmdAutoExtract CommandKind = "auto-extract"
	CmdDisconnect  CommandKind = "disconnect"
)

// Command is a request from one connection. Only the fields of its Kind are
// read.
type Command struct {
	Kind       CommandKind
	ConnID     string
	RoomCode   string
	Name       string // room name on create, player name on join
	MaxPlayers int
	CardCount  int
	CardIndex  int
	Number     int
	Enabled    bool
}

// NormalizeRoomCode trims and upper-cases a code typed by a user.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Handle applies cmd and returns the notifications it produced, in the order
// they were handed to the sink.
func (e *Engine) Handle(cmd Command) []Notification {
	cmd.RoomCode = NormalizeRoomCode(cmd.RoomCode)
	switch cmd.Kind {
	case CmdCreateRoom:
		return e.createRoom(cmd)
	case CmdAdminJoin:
		return e.adminJoin(cmd)
	case CmdJoinRoom:
		return e.join(cmd)
	case CmdLeaveRoom:
		return e.leave(cmd.ConnID, cmd.RoomCode)
	case CmdExtract:
		return e.extract(cmd)
	case CmdReset:
		return e.reset(cmd)
	case CmdMark:
		return e.mark(cmd)
	case CmdAutoExtract:
		return e.autoExtract(cmd)
	case CmdDisconnect:
		return e.disconnect(cmd.ConnID)
	default:
		e.log.Warnf("[ENGINE] unknown command %q from %s", cmd.Kind, cmd.ConnID)
		return nil
	}
}
