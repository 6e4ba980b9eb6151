package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Emitter is the fan-out surface services depend on. Passing an empty channel
// broadcasts to every connected client.
type Emitter interface {
	Emit(event string, payload any, channel string)
}

const relayChannel = "hotel-ops:realtime"

// envelope is the wire format, both to clients and across the Redis relay.
type envelope struct {
	Origin  string          `json:"origin,omitempty"`
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// Hub broadcasts domain events to websocket clients partitioned by channel.
// Delivery is fire-and-forget: no persistence, no backpressure — a client
// whose send buffer fills up is dropped.
//
// With a Redis address configured, emits are relayed through pub/sub so every
// process delivers them to its own clients. An unreachable broker degrades the
// hub to single-process delivery.
type Hub struct {
	id  string
	log zerolog.Logger
	rdb *redis.Client

	mu       sync.RWMutex
	clients  map[*client]struct{}
	channels map[string]map[*client]struct{}

	upgrader websocket.Upgrader
}

func NewHub(redisAddr string, log zerolog.Logger) *Hub {
	h := &Hub{
		id:       uuid.NewString(),
		log:      log.With().Str("component", "realtime").Logger(),
		clients:  make(map[*client]struct{}),
		channels: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the dashboard origin; auth happens
			// at join time, not at upgrade time.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("redis unreachable, falling back to single-process delivery")
			_ = rdb.Close()
		} else {
			h.rdb = rdb
			go h.relayLoop()
			h.log.Info().Str("addr", redisAddr).Msg("redis relay connected")
		}
	}

	return h
}

// Emit broadcasts an event. Local clients receive it directly; with a relay
// attached it is also published for the other processes.
func (h *Hub) Emit(event string, payload any, channel string) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal event payload")
		return
	}
	env := envelope{Origin: h.id, Event: event, Channel: channel, Data: data}

	h.deliver(env)

	if h.rdb != nil {
		raw, _ := json.Marshal(env)
		if err := h.rdb.Publish(context.Background(), relayChannel, raw).Err(); err != nil {
			h.log.Warn().Err(err).Str("event", event).Msg("relay publish failed")
		}
	}
}

// relayLoop applies events published by other processes to local clients.
func (h *Hub) relayLoop() {
	sub := h.rdb.Subscribe(context.Background(), relayChannel)
	for msg := range sub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.log.Warn().Err(err).Msg("relay: bad envelope")
			continue
		}
		if env.Origin == h.id {
			continue // already delivered locally on Emit
		}
		h.deliver(env)
	}
}

// deliver fans a frame out to the targeted clients. Sends happen while the
// read lock is held and send channels are closed only behind the write lock,
// so a send can never race a close.
func (h *Hub) deliver(env envelope) {
	frame, err := json.Marshal(envelope{Event: env.Event, Channel: env.Channel, Data: env.Data})
	if err != nil {
		return
	}

	var slow []*client
	h.mu.RLock()
	targets := h.clients
	if env.Channel != "" {
		targets = h.channels[env.Channel]
	}
	for c := range targets {
		select {
		case c.send <- frame:
		default:
			// Slow consumer: drop the connection rather than block.
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(c)
	}
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	h.readPump(c)
}

// ClientCount returns how many clients are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection and the relay.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.channels = make(map[string]map[*client]struct{})
	h.mu.Unlock()

	// Detached above, so no deliver can target these anymore.
	for _, c := range clients {
		close(c.send)
		_ = c.conn.Close()
	}
	if h.rdb != nil {
		_ = h.rdb.Close()
	}
}

type joinMessage struct {
	Action  string `json:"action"` // "join" or "leave"
	Channel string `json:"channel"`
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(1024)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg joinMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Action {
		case "join":
			h.join(c, msg.Channel)
		case "leave":
			h.leave(c, msg.Channel)
		}
	}
}

func (h *Hub) join(c *client, channel string) {
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*client]struct{})
	}
	h.channels[channel][c] = struct{}{}
}

func (h *Hub) leave(c *client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.channels[channel]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}

// drop detaches a client and closes it. The hub is the sole owner of the send
// channel: it is closed only here and in Close, never by a delivery or read
// path directly, and only after the client left the maps under the write lock.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, attached := h.clients[c]
	delete(h.clients, c)
	for name, members := range h.channels {
		delete(members, c)
		if len(members) == 0 {
			delete(h.channels, name)
		}
	}
	h.mu.Unlock()

	if attached {
		close(c.send)
	}
	_ = c.conn.Close()
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
