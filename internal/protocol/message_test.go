package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, msg Message) any {
	data, err := Encode(msg)
	require.NoError(t, err)

	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

// Every builder's output must pass its own validator and fail every other
// variant's validator.
func TestBuilderValidatorRoundTrip(t *testing.T) {
	users := []string{"alice", "bob"}
	messages := map[Kind]Message{
		KindUsername: NewUsernameMessage("alice"),
		KindUsers:    NewUsersMessage(users),
		KindPresence: NewPresenceMessage(users, "bob", StatusLeave),
		KindConfirm:  NewConfirmMessage(users, "bob"),
		KindChat:     NewChatMessage("alice", "hello"),
		KindCursor:   NewCursorMessage("s1", 10, 20, true),
	}

	for built, msg := range messages {
		v := decode(t, msg)
		assert.True(t, IsMessageBase(v))
		for other := range messages {
			assert.Equal(t, built == other, Validate(v, other),
				"%s message against %s validator", built, other)
		}
	}
}

func TestValidatorsRejectMissingFields(t *testing.T) {
	invalid := []string{
		`{"type":"username"}`,
		`{"type":"users"}`,
		`{"type":"users","users":"alice"}`,
		`{"type":"users","users":["alice",7]}`,
		`{"type":"presence","users":["alice"],"status":"join"}`,
		`{"type":"presence","users":["alice"],"user":"alice"}`,
		`{"type":"presence","users":["alice"],"user":"alice","status":"away"}`,
		`{"type":"confirm","users":["alice"],"user":"alice","status":"leave"}`,
		`{"type":"chat","message":"hi"}`,
		`{"type":"chat","user":"alice"}`,
		`{"type":"chat","user":"alice","message":7}`,
		`{"type":"cursor","id":"a","x":1,"y":2}`,
		`{"type":"cursor","id":"a","x":"1","y":2,"isDrawing":false}`,
		`{"type":"cursor","x":1,"y":2,"isDrawing":true}`,
	}

	for _, raw := range invalid {
		var v any
		require.NoError(t, json.Unmarshal([]byte(raw), &v))

		m := v.(map[string]any)
		assert.False(t, Validate(v, Kind(m["type"].(string))), "should reject %s", raw)
	}
}

func TestConfirmRequiresJoinStatus(t *testing.T) {
	v := decode(t, NewConfirmMessage([]string{"alice"}, "alice"))
	assert.True(t, IsConfirmMessage(v))
	assert.True(t, IsPresenceMessageBase(v))

	m := v.(map[string]any)
	m["status"] = StatusLeave
	assert.True(t, IsPresenceMessageBase(v), "leave is a valid presence base status")
	assert.False(t, IsConfirmMessage(v))
}

func TestIsMessageBase(t *testing.T) {
	cases := map[string]bool{
		`{"type":"anything"}`: true,
		`{"type":7}`:          false,
		`{"kind":"cursor"}`:   false,
		`"cursor"`:            false,
		`[1,2,3]`:             false,
		`null`:                false,
	}
	for raw, want := range cases {
		var v any
		require.NoError(t, json.Unmarshal([]byte(raw), &v))
		assert.Equal(t, want, IsMessageBase(v), raw)
	}
}

func TestParseDispatchesToTypedVariant(t *testing.T) {
	msg, err := Parse([]byte(`{"type":"cursor","id":"ignored","x":10,"y":20,"isDrawing":true}`))
	require.NoError(t, err)

	cursor, ok := msg.(CursorMessage)
	require.True(t, ok)
	assert.Equal(t, "ignored", cursor.ID)
	assert.Equal(t, 10.0, cursor.X)
	assert.Equal(t, 20.0, cursor.Y)
	assert.True(t, cursor.IsDrawing)

	msg, err = Parse([]byte(`{"type":"chat","user":"alice","message":"hi"}`))
	require.NoError(t, err)
	chat, ok := msg.(ChatMessage)
	require.True(t, ok)
	assert.Equal(t, "alice", chat.User)
	assert.Equal(t, "hi", chat.Message)
}

func TestParseErrorTaxonomy(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse([]byte(`[1,2,3]`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse([]byte(`{"username":"alice"}`))
	assert.ErrorIs(t, err, ErrMalformed, "missing discriminant")

	_, err = Parse([]byte(`{"type":"teleport","x":1}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Parse([]byte(`{"type":"username"}`))
	assert.ErrorIs(t, err, ErrInvalid, "recognized type, missing fields")
}

func TestEncodeEmptyUserList(t *testing.T) {
	data, err := Encode(NewUsersMessage(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"users","users":[]}`, string(data))
}
