package socketio_utils

import (
	"Tombola/services/game"
	"fmt"
	"strconv"
	"strings"
)

// Payload is the first argument of a client event. A bare string is taken
// as a room code, so emit("admin-join", "ABC123") and
// emit("admin-join", {roomCode: "ABC123"}) are the same.
type Payload map[string]interface{}

func ParsePayload(args []interface{}) (Payload, error) {
	if len(args) < 1 || args[0] == nil {
		return Payload{}, nil
	}
	switch v := args[0].(type) {
	case map[string]interface{}:
		return Payload(v), nil
	case string:
		return Payload{"roomCode": v}, nil
	default:
		return nil, fmt.Errorf("unexpected payload of type %T", args[0])
	}
}

func (p Payload) Text(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (p Payload) RoomCode() string {
	return game.NormalizeRoomCode(p.Text("roomCode"))
}

// Int reads a whole number sent as a JSON number or a numeric string.
// Missing keys return def.
func (p Payload) Int(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s must be a number", key)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s must be a number", key)
}

func (p Payload) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	}
	return false
}
