package codec

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/take-eleven/internal/protocol"
)

func TestForName(t *testing.T) {
	t.Parallel()

	w, err := ForName("")
	require.NoError(t, err)
	assert.Equal(t, WireJSON, w.Name())
	assert.Equal(t, websocket.TextMessage, w.FrameType())

	w, err = ForName("proto")
	require.NoError(t, err)
	assert.Equal(t, WireProto, w.Name())
	assert.Equal(t, websocket.BinaryMessage, w.FrameType())

	_, err = ForName("xml")
	assert.ErrorIs(t, err, ErrUnknownWire)
}

func TestWire_ActionRoundTrip(t *testing.T) {
	t.Parallel()

	target := 2
	in := MustNewMessage(protocol.MsgAction, protocol.ActionPayload{
		ID:       "p1",
		Stacks:   []protocol.StackInfo{{PileNo: 0, Cards: []int{42}}, {PileNo: 3, Cards: []int{}}},
		TargetNo: &target,
	})

	for _, w := range []Wire{JSON{}, Proto{}} {
		t.Run(w.Name(), func(t *testing.T) {
			t.Parallel()

			data, err := w.Encode(in)
			require.NoError(t, err)

			out, err := w.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, protocol.MsgAction, out.Type)

			payload, err := ParsePayload[protocol.ActionPayload](out)
			require.NoError(t, err)
			assert.Equal(t, "p1", payload.ID)
			require.Len(t, payload.Stacks, 2)
			assert.Equal(t, []int{42}, payload.Stacks[0].Cards)
			assert.Equal(t, 3, payload.Stacks[1].PileNo)
			assert.Empty(t, payload.Stacks[1].Cards)
			require.NotNil(t, payload.TargetNo)
			assert.Equal(t, 2, *payload.TargetNo)
		})
	}
}

func TestWire_NoPayload(t *testing.T) {
	t.Parallel()

	in := MustNewMessage(protocol.MsgGetOnlineCount, nil)
	for _, w := range []Wire{JSON{}, Proto{}} {
		data, err := w.Encode(in)
		require.NoError(t, err)

		out, err := w.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, protocol.MsgGetOnlineCount, out.Type)
		assert.Empty(t, out.Payload)
	}
}

func TestWire_DecodeGarbage(t *testing.T) {
	t.Parallel()

	_, err := JSON{}.Decode([]byte("{not json"))
	require.Error(t, err)

	_, err = Proto{}.Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestJSON_EncodeHasNoTrailingNewline(t *testing.T) {
	t.Parallel()

	data, err := JSON{}.Encode(MustNewMessage(protocol.MsgPong, protocol.PongPayload{ClientTimestamp: 1}))
	require.NoError(t, err)
	assert.NotEqual(t, byte('\n'), data[len(data)-1])
	assert.JSONEq(t, `{"type":"pong","payload":{"client_timestamp":1,"server_timestamp":0}}`, string(data))
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeActNotYourTurn)
	assert.Equal(t, protocol.MsgError, msg.Type)

	payload, err := ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeActNotYourTurn, payload.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeActNotYourTurn], payload.Message)

	msg = NewErrorMessageWithText(protocol.ErrCodeUnknown, "boom")
	payload, err = ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "boom", payload.Message)
}
