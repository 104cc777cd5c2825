// Package feed streams duel events to websocket clients and forwards the
// intents they send back to the game.
package feed

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wordwar/duel/service/internal/game"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// ActionFunc handles an intent read from a seat's connection.
type ActionFunc func(playerID uuid.UUID, action game.PlayerAction) error

// Hub fans GameEvents out to connected clients. A client that names a seat
// with ?player=<uuid> also receives that seat's private events and may send
// PlayerAction messages; any other client is a read-only spectator.
type Hub struct {
	OnAction  ActionFunc
	OnConnect func(playerID uuid.UUID) // uuid.Nil for spectators

	// OriginPatterns lists extra hosts allowed to open a connection.
	OriginPatterns []string

	mu      sync.Mutex
	clients map[*client]struct{}
	log     *logrus.Entry
}

type client struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan game.GameEvent

	// set before send is closed by the hub
	closeCode   websocket.StatusCode
	closeReason string
}

// NewHub returns a hub with no clients.
func NewHub(log *logrus.Entry) *Hub {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.WithField("component", "feed"),
	}
}

// Broadcast queues ev for every client.
func (h *Hub) Broadcast(ev game.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.queueLocked(c, ev)
	}
}

// SendTo queues ev for the clients of one seat only.
func (h *Hub) SendTo(playerID uuid.UUID, ev game.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.playerID == playerID && playerID != uuid.Nil {
			h.queueLocked(c, ev)
		}
	}
}

// Clients is the number of open connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// queueLocked drops a client whose buffer is full rather than stall the game.
func (h *Hub) queueLocked(c *client, ev game.GameEvent) {
	select {
	case c.send <- ev:
	default:
		h.log.WithField("player", c.playerID.String()).Warn("client too slow, dropping connection")
		h.dropLocked(c, websocket.StatusPolicyViolation, "too slow")
	}
}

func (h *Hub) dropLocked(c *client, code websocket.StatusCode, reason string) {
	c.closeCode, c.closeReason = code, reason
	delete(h.clients, c)
	close(c.send)
}

// CloseAll disconnects every client, telling them the server is going away.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c, websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"player": c.playerID.String(), "clients": n}).Info("client connected")
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		h.dropLocked(c, websocket.StatusNormalClosure, "")
	}
	h.mu.Unlock()
	h.log.WithField("player", c.playerID.String()).Info("client disconnected")
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := uuid.Nil
	if v := r.URL.Query().Get("player"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid player id", http.StatusBadRequest)
			return
		}
		playerID = id
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.OriginPatterns})
	if err != nil {
		h.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	c := &client{playerID: playerID, conn: conn, send: make(chan game.GameEvent, sendBuffer)}
	h.add(c)
	defer h.remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.writeLoop(ctx, c)

	if h.OnConnect != nil {
		h.OnConnect(playerID)
	}
	h.readLoop(ctx, c)
}

func (h *Hub) writeLoop(ctx context.Context, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.send:
			if !ok {
				c.conn.Close(c.closeCode, c.closeReason)
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, ev)
			cancel()
			if err != nil {
				h.log.WithError(err).WithField("player", c.playerID.String()).Debug("write failed")
				return
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	log := h.log.WithField("player", c.playerID.String())
	for {
		var action game.PlayerAction
		if err := wsjson.Read(ctx, c.conn, &action); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Debug("client closed connection")
			default:
				if !errors.Is(err, context.Canceled) {
					log.WithError(err).Info("read failed")
				}
			}
			return
		}
		if c.playerID == uuid.Nil {
			log.WithField("action", action.Type).Debug("ignoring action from spectator")
			continue
		}
		if h.OnAction == nil {
			continue
		}
		if err := h.OnAction(c.playerID, action); err != nil {
			log.WithError(err).WithField("action", action.Type).Debug("action rejected")
		}
	}
}
