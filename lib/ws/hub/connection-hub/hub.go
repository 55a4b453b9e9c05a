package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	"case-flow-backend/db"
	inappstore "case-flow-backend/lib/notify/inapp-store"
	wsmodels "case-flow-backend/models/ws"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string)
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]clientSession{},
		store:   inappstore.NewInstance(db.DB),
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]clientSession // keyed by userID
	store   inappstore.Provider
}

func (i *impl) DeleteClient(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok {
		return
	}
	delete(i.clients, userID)
	// the write loop exits on the cancelled context; the channel is left
	// open so a racing SendMessage can never hit a closed channel
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	go i.sendUnread(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	i.mu.Lock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.Unlock()
	if !ok {
		return
	}
	select {
	case sess.sendCh <- msg:
	default:
		// the client is gone or not draining; the feed row is persisted
		// and will be replayed on the next connect
		log.WithField("user_id", msg.ToUserID).Warn("websocket send buffer full, message dropped")
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.clients[userID]
	return ok
}

// sendUnread replays unread feed rows to a freshly connected client.
func (i *impl) sendUnread(userID string) {
	list, err := i.store.List(userID, true, 100)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to load unread notifications")
		return
	}
	for _, rec := range list {
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			ID:       rec.ID,
			Code:     rec.EventCode,
			Title:    rec.Title,
			Body:     rec.Body,
		}
		if rec.CaseID != nil {
			msg.CaseID = *rec.CaseID
		}
		i.SendMessage(msg)
	}
}
