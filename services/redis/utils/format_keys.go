package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

const RoomKeyPattern = "room:*:summary"

func FormatRoomKey(roomCode string) string {
	return fmt.Sprintf("room:%s:summary", roomCode)
}

func FormatRoomWinsKey(roomCode string) string {
	return fmt.Sprintf("room:%s:wins", roomCode)
}
