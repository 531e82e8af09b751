package realtime

import "strings"

// Room addressing schemes. A room is an ephemeral broadcast group; membership
// is connection-scoped and vanishes on disconnect.

// UserRoom names the personal room for a single user.
func UserRoom(userID string) string {
	return "user_" + strings.TrimSpace(userID)
}

// BatchRoom names the room shared by clients currently viewing a batch.
func BatchRoom(batchID string) string {
	return "batch_" + strings.TrimSpace(batchID)
}

// RoleRoom names the room shared by all connected principals of a role.
func RoleRoom(role string) string {
	return "role_" + strings.ToLower(strings.TrimSpace(role))
}
