package ws

import (
	"encoding/json"
	"log"
	"sync"

	"mine_empire/internal/domain"
)

type envelope struct {
	account string
	data    []byte
}

// Hub fans journal events out to connected websocket clients. A client
// subscribed with an account only receives that account's events; an empty
// account subscribes to the full firehose.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c.account != "" && c.account != env.account {
					continue
				}
				select {
				case c.send <- env.data:
				default:
					// slow consumer, drop the message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishEvent queues an event for delivery. Never blocks the caller.
func (h *Hub) PublishEvent(ev *domain.MiningEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: event marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- envelope{account: ev.Account, data: data}:
	default:
		log.Println("ws: broadcast queue full, event dropped")
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
