package protocol

// Validators narrow an arbitrary decoded JSON value (as produced by
// json.Unmarshal into any) to one message variant. A value must pass the
// base check before any variant check is meaningful, and the shared
// users/presence base checks compose under the presence and confirm
// variants. A recognized type with missing or mis-typed fields fails its
// variant check; it is never partially trusted.

// IsMessageBase reports whether v is a mapping with a string `type` field.
func IsMessageBase(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["type"].(string)
	return ok
}

func kindOf(v any) (map[string]any, Kind, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, "", false
	}
	t, ok := m["type"].(string)
	if !ok {
		return nil, "", false
	}
	return m, Kind(t), true
}

// IsUsernameMessage reports whether v is a well-formed username claim.
func IsUsernameMessage(v any) bool {
	m, kind, ok := kindOf(v)
	if !ok || kind != KindUsername {
		return false
	}
	_, ok = m["username"].(string)
	return ok
}

// IsUsersMessageBase reports whether v carries a `users` list of strings.
func IsUsersMessageBase(v any) bool {
	m, _, ok := kindOf(v)
	if !ok {
		return false
	}
	users, ok := m["users"].([]any)
	if !ok {
		return false
	}
	for _, u := range users {
		if _, ok := u.(string); !ok {
			return false
		}
	}
	return true
}

// IsUsersMessage reports whether v is a well-formed user-list message.
func IsUsersMessage(v any) bool {
	if !IsUsersMessageBase(v) {
		return false
	}
	_, kind, _ := kindOf(v)
	return kind == KindUsers
}

// IsPresenceMessageBase reports whether v has the shape shared by presence
// and confirm messages: a users list, a user string, and a join or leave
// status.
func IsPresenceMessageBase(v any) bool {
	if !IsUsersMessageBase(v) {
		return false
	}
	m := v.(map[string]any)
	if _, ok := m["user"].(string); !ok {
		return false
	}
	status, ok := m["status"].(string)
	if !ok {
		return false
	}
	return status == StatusJoin || status == StatusLeave
}

// IsPresenceMessage reports whether v is a well-formed presence broadcast.
func IsPresenceMessage(v any) bool {
	if !IsPresenceMessageBase(v) {
		return false
	}
	_, kind, _ := kindOf(v)
	return kind == KindPresence
}

// IsConfirmMessage reports whether v is a well-formed claim confirmation,
// which additionally requires status "join".
func IsConfirmMessage(v any) bool {
	if !IsPresenceMessageBase(v) {
		return false
	}
	m, kind, _ := kindOf(v)
	return kind == KindConfirm && m["status"] == StatusJoin
}

// IsChatMessage reports whether v is a well-formed chat line.
func IsChatMessage(v any) bool {
	m, kind, ok := kindOf(v)
	if !ok || kind != KindChat {
		return false
	}
	if _, ok := m["user"].(string); !ok {
		return false
	}
	_, ok = m["message"].(string)
	return ok
}

// IsCursorMessage reports whether v is a well-formed pointer sample.
func IsCursorMessage(v any) bool {
	m, kind, ok := kindOf(v)
	if !ok || kind != KindCursor {
		return false
	}
	if _, ok := m["id"].(string); !ok {
		return false
	}
	if _, ok := m["x"].(float64); !ok {
		return false
	}
	if _, ok := m["y"].(float64); !ok {
		return false
	}
	_, ok = m["isDrawing"].(bool)
	return ok
}

// Validate reports whether msg, reduced to its decoded-JSON form, passes
// the validator for its own kind. Builders always produce valid messages;
// this exists so hand-assembled values can be checked the same way frames
// off the wire are.
func Validate(v any, kind Kind) bool {
	switch kind {
	case KindUsername:
		return IsUsernameMessage(v)
	case KindUsers:
		return IsUsersMessage(v)
	case KindPresence:
		return IsPresenceMessage(v)
	case KindConfirm:
		return IsConfirmMessage(v)
	case KindChat:
		return IsChatMessage(v)
	case KindCursor:
		return IsCursorMessage(v)
	default:
		return false
	}
}
