package chat

import (
	"annam-mithra-backend/domain"
	"sync"
)

const subscriptionBuffer = 16

type (
	// Subscription is one listener's channel of chat events. Callers must
	// Unsubscribe on teardown or the registry leaks.
	Subscription struct {
		C chan domain.ChatEvent

		roomKey string
		uid     string
	}

	// Hub fans chat events out to in-process subscribers: per-room
	// listeners (open conversations) and per-user listeners (room lists).
	Hub struct {
		mu    sync.RWMutex
		rooms map[string]map[*Subscription]struct{}
		users map[string]map[*Subscription]struct{}
	}
)

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscription]struct{}),
		users: make(map[string]map[*Subscription]struct{}),
	}
}

func (h *Hub) SubscribeRoom(roomKey string) *Subscription {
	sub := &Subscription{C: make(chan domain.ChatEvent, subscriptionBuffer), roomKey: roomKey}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomKey] == nil {
		h.rooms[roomKey] = make(map[*Subscription]struct{})
	}
	h.rooms[roomKey][sub] = struct{}{}
	return sub
}

func (h *Hub) SubscribeUser(uid string) *Subscription {
	sub := &Subscription{C: make(chan domain.ChatEvent, subscriptionBuffer), uid: uid}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[uid] == nil {
		h.users[uid] = make(map[*Subscription]struct{})
	}
	h.users[uid][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.roomKey != "" {
		if subs, ok := h.rooms[sub.roomKey]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.rooms, sub.roomKey)
			}
		}
	}
	if sub.uid != "" {
		if subs, ok := h.users[sub.uid]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.users, sub.uid)
			}
		}
	}
}

func (h *Hub) PublishRoom(roomKey string, event domain.ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[roomKey] {
		send(sub, event)
	}
}

func (h *Hub) PublishUser(uid string, event domain.ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.users[uid] {
		send(sub, event)
	}
}

// send never blocks a publisher; slow subscribers drop events.
func send(sub *Subscription, event domain.ChatEvent) {
	select {
	case sub.C <- event:
	default:
	}
}
