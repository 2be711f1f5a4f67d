package room

import (
	"encoding/json"
	"fmt"
	"sync"

	"live-auction/utils"
)

// Outbound event names
const (
	EventState        = "state"
	EventBidAccepted  = "bidAccepted"
	EventBidRejected  = "bidRejected"
	EventControlEvent = "controlEvent"
)

// Envelope is the frame every message travels in
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Encode marshals event and data into one frame
func Encode(event string, data any) ([]byte, error) {
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return b, nil
}

// Subscriber is one connection that can receive frames
type Subscriber interface {
	ID() string
	// Send queues a frame without blocking. It returns false when the
	// subscriber cannot keep up or is already closed.
	Send(frame []byte) bool
	Close()
}

// Hub maps auction ids to the subscribers watching them. It also tracks every
// live connection, joined or not, so Shutdown can close them all.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[string]Subscriber // key: auctionID -> subscriberID
	memberships map[string]map[string]struct{}   // key: subscriberID -> auctionIDs
	connections map[string]Subscriber            // key: subscriberID
	closed      bool
}

// Stats describes room membership at one instant
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveRooms      int            `json:"active_rooms"`
	Rooms            map[string]int `json:"rooms"`
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[string]Subscriber),
		memberships: make(map[string]map[string]struct{}),
		connections: make(map[string]Subscriber),
	}
}

// Attach registers a live connection. It returns false once the hub is shut
// down; the caller then closes the connection itself.
func (h *Hub) Attach(sub Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.connections[sub.ID()] = sub
	return true
}

// Subscribe adds sub to the room of auctionID. Subscribing twice is harmless.
func (h *Hub) Subscribe(auctionID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.Close()
		return
	}
	h.connections[sub.ID()] = sub

	members, ok := h.rooms[auctionID]
	if !ok {
		members = make(map[string]Subscriber)
		h.rooms[auctionID] = members
	}
	members[sub.ID()] = sub

	joined, ok := h.memberships[sub.ID()]
	if !ok {
		joined = make(map[string]struct{})
		h.memberships[sub.ID()] = joined
	}
	joined[auctionID] = struct{}{}

	utils.Debug("room: subscriber joined", map[string]any{
		"auction_id":    auctionID,
		"subscriber_id": sub.ID(),
		"members":       len(members),
	})
}

// Disconnect removes the subscriber from every room it joined and forgets the connection
func (h *Hub) Disconnect(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for auctionID := range h.memberships[subscriberID] {
		members := h.rooms[auctionID]
		delete(members, subscriberID)
		if len(members) == 0 {
			delete(h.rooms, auctionID)
		}
	}
	delete(h.memberships, subscriberID)
	delete(h.connections, subscriberID)
}

// Shutdown closes every tracked connection and refuses new ones. Calling it
// again does nothing.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]Subscriber, 0, len(h.connections))
	for _, sub := range h.connections {
		subs = append(subs, sub)
	}
	h.rooms = make(map[string]map[string]Subscriber)
	h.memberships = make(map[string]map[string]struct{})
	h.connections = make(map[string]Subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	utils.Info("room: hub shut down", map[string]any{"closed_connections": len(subs)})
}

// Unicast sends one message to a single subscriber
func (h *Hub) Unicast(sub Subscriber, event string, data any) error {
	frame, err := Encode(event, data)
	if err != nil {
		return err
	}
	if !sub.Send(frame) {
		h.evict(sub)
		return fmt.Errorf("unicast %s to %s: subscriber not keeping up", event, sub.ID())
	}
	return nil
}

// Publish encodes the message once and queues it for every member of the room.
// Members whose buffer is full are dropped and closed instead of stalling the room.
func (h *Hub) Publish(auctionID, event string, data any) error {
	frame, err := Encode(event, data)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]Subscriber, 0, len(h.rooms[auctionID]))
	for _, sub := range h.rooms[auctionID] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if !sub.Send(frame) {
			utils.Warn("room: send buffer full, dropping subscriber", map[string]any{
				"auction_id":    auctionID,
				"subscriber_id": sub.ID(),
			})
			h.evict(sub)
		}
	}

	utils.Debug("room: event broadcast", map[string]any{
		"auction_id": auctionID,
		"event":      event,
		"recipients": len(targets),
	})
	return nil
}

// Members returns the number of subscribers in the room of auctionID
func (h *Hub) Members(auctionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[auctionID])
}

// Stats returns current room sizes
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{
		TotalConnections: len(h.memberships),
		ActiveRooms:      len(h.rooms),
		Rooms:            make(map[string]int, len(h.rooms)),
	}
	for auctionID, members := range h.rooms {
		stats.Rooms[auctionID] = len(members)
	}
	return stats
}

func (h *Hub) evict(sub Subscriber) {
	h.Disconnect(sub.ID())
	sub.Close()
}
