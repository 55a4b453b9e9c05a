package connectionhub

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	wsmodels "case-flow-backend/models/ws"
)

type clientSession struct {
	sendCh chan wsmodels.ServerMessage
	stop   context.CancelFunc
}

func newSession(conn *websocket.Conn) clientSession {
	ctx, cancel := context.WithCancel(context.Background())
	sess := clientSession{
		sendCh: make(chan wsmodels.ServerMessage, 16),
		stop:   cancel,
	}
	go sess.writeLoop(ctx, conn)
	return sess
}

func (s clientSession) writeLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.sendCh:
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Warn("websocket write failed")
				return
			}
		}
	}
}
