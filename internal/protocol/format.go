package protocol

import (
	"fmt"
	"strings"
)

// FormatChatMessage renders a chat line for display.
func FormatChatMessage(msg ChatMessage) string {
	return fmt.Sprintf("<%s> %s", msg.User, msg.Message)
}

// FormatPresence renders a join/leave announcement for display. It works
// for both presence and confirm messages, which share the same shape.
func FormatPresence(user, status string) string {
	if status == StatusJoin {
		return user + " joined"
	}
	return user + " left"
}

// FormatUsers renders the online-user list for display.
func FormatUsers(users []string) string {
	if len(users) == 0 {
		return "There are no users online"
	}
	return fmt.Sprintf("Online users (%d): %s", len(users), strings.Join(users, ", "))
}
