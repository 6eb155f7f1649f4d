package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypePaused, map[string]bool{"paused": true})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"paused","data":{"paused":true}}`, string(data))
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("no race in progress")

	assert.Equal(t, TypeError, msg.Type)
	assert.JSONEq(t, `{"message":"no race in progress"}`, string(msg.Data))
}

func TestSendMessage_DropsWhenFull(t *testing.T) {
	c := &Client{ID: "slow", Send: make(chan []byte, 2)}

	for i := 0; i < 5; i++ {
		c.SendMessage(NewErrorMessage("x"))
	}

	assert.Len(t, c.Send, 2)
	assert.Equal(t, int64(3), c.Dropped())
}

func TestHub_RoutesAndUnregisters(t *testing.T) {
	h := NewHub()
	received := make(chan *ClientMessage, 1)
	disconnected := make(chan *Client, 1)
	h.OnMessage = func(cm *ClientMessage) { received <- cm }
	h.OnDisconnect = func(c *Client) { disconnected <- c }
	go h.Run()

	c := &Client{ID: "c1", Hub: h, Send: make(chan []byte, 1)}
	h.Register <- c
	h.Incoming <- &ClientMessage{Client: c, Data: []byte(`{"type":"pause"}`)}

	select {
	case cm := <-received:
		assert.Same(t, c, cm.Client)
	case <-time.After(time.Second):
		t.Fatal("message not routed")
	}

	h.Unregister <- c
	select {
	case got := <-disconnected:
		assert.Same(t, c, got)
	case <-time.After(time.Second):
		t.Fatal("disconnect not reported")
	}
	_, open := <-c.Send
	assert.False(t, open, "send channel is closed on unregister")
	assert.NotPanics(t, func() { c.SendMessage(NewErrorMessage("late")) })
}
