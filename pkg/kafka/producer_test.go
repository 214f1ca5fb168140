package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	msg, err := Message("order_events", "17", map[string]any{"type": "order_created", "orderID": 17})
	require.NoError(t, err)

	assert.Equal(t, "order_events", msg.Topic)
	assert.Equal(t, []byte("17"), msg.Key)
	assert.False(t, msg.Time.IsZero())

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "order_created", body["type"])
	assert.EqualValues(t, 17, body["orderID"])
}

func TestMessage_Unmarshalable(t *testing.T) {
	t.Parallel()

	_, err := Message("t", "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}
