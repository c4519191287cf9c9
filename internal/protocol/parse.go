package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Parse error taxonomy. Callers drop the frame and log in every case; none
// of these produce a reply to the sender.
var (
	// ErrMalformed marks frames that do not decode to a mapping with a
	// string `type` field.
	ErrMalformed = errors.New("malformed frame")
	// ErrUnknownKind marks frames whose `type` is outside the vocabulary.
	ErrUnknownKind = errors.New("unrecognized message type")
	// ErrInvalid marks frames with a known `type` that fail its
	// variant validator.
	ErrInvalid = errors.New("invalid message")
)

// Parse decodes one wire frame into its typed variant. It is the single
// narrowing boundary: past a nil error, the returned Message is exactly
// the variant its discriminant declares, with every field present and
// well-typed.
func Parse(data []byte) (Message, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	_, kind, ok := kindOf(v)
	if !ok {
		return nil, ErrMalformed
	}

	switch kind {
	case KindUsername, KindUsers, KindPresence, KindConfirm, KindChat, KindCursor:
		if !Validate(v, kind) {
			return nil, fmt.Errorf("%w: %s", ErrInvalid, kind)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	// The guard has established every field, so decoding into the
	// concrete struct cannot fail on shape.
	switch kind {
	case KindUsername:
		var msg UsernameMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	case KindUsers:
		var msg UsersMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	case KindPresence:
		var msg PresenceMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	case KindConfirm:
		var msg ConfirmMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	case KindChat:
		var msg ChatMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	case KindCursor:
		var msg CursorMessage
		json.Unmarshal(data, &msg)
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
