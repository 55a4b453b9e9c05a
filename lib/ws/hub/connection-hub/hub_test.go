package connectionhub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	wsmodels "case-flow-backend/models/ws"
)

func newTestHub(userID string) (*impl, clientSession) {
	_, cancel := context.WithCancel(context.Background())
	sess := clientSession{
		sendCh: make(chan wsmodels.ServerMessage, 16),
		stop:   cancel,
	}
	hub := &impl{clients: map[string]clientSession{userID: sess}}
	return hub, sess
}

func TestHub(t *testing.T) {
	t.Run(`message lands in the session buffer`, func(t *testing.T) {
		hub, sess := newTestHub("user-1")
		hub.SendMessage(wsmodels.ServerMessage{ToUserID: "user-1", Title: "hello"})
		require.Len(t, sess.sendCh, 1)
		require.Equal(t, "hello", (<-sess.sendCh).Title)
	})

	t.Run(`message for an unknown user is dropped`, func(t *testing.T) {
		hub, sess := newTestHub("user-1")
		hub.SendMessage(wsmodels.ServerMessage{ToUserID: "user-2", Title: "hello"})
		require.Empty(t, sess.sendCh)
	})

	t.Run(`send racing a disconnect does not panic`, func(t *testing.T) {
		hub, sess := newTestHub("user-1")
		hub.DeleteClient("user-1")
		require.False(t, hub.IsConnected("user-1"))
		require.NotPanics(t, func() {
			hub.SendMessage(wsmodels.ServerMessage{ToUserID: "user-1", Title: "late"})
		})
		require.Empty(t, sess.sendCh)
	})

	t.Run(`full buffer does not block the dispatcher`, func(t *testing.T) {
		hub, sess := newTestHub("user-1")
		for idx := 0; idx < cap(sess.sendCh); idx++ {
			hub.SendMessage(wsmodels.ServerMessage{ToUserID: "user-1"})
		}
		// must return instead of blocking on the stalled session
		hub.SendMessage(wsmodels.ServerMessage{ToUserID: "user-1", Title: "overflow"})
		require.Len(t, sess.sendCh, cap(sess.sendCh))
	})
}
