package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventBuffer  = 8
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// EventHub fans controller events out to the websocket clients of a session.
type EventHub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for sessionID. The returned func unsubscribes.
func (h *EventHub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], ch)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every listener of sessionID; slow listeners drop it.
func (h *EventHub) Publish(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- ev:
		default:
			logWarn("Dropped %s event for session %s: subscriber is full", ev.Type, sessionID)
		}
	}
}

// Notifier binds Publish to one session for use as GameOptions.Notify.
func (h *EventHub) Notifier(sessionID string) func(Event) {
	return func(ev Event) { h.Publish(sessionID, ev) }
}

// Subscribers returns the listener count for sessionID.
func (h *EventHub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkSameOrigin,
}

// eventsHandler streams the session's controller events over a websocket.
func (app *App) eventsHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logWarn("Websocket upgrade failed for session %s: %v", sessionID, err)
		return
	}
	events, unsubscribe := app.Hub.Subscribe(sessionID)
	logInfo("Websocket connected for session: %s", sessionID)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		unsubscribe()
		_ = conn.Close()
		logInfo("Websocket closed for session: %s", sessionID)
	}()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// checkSameOrigin accepts requests without an Origin header or from this host.
func checkSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
}

