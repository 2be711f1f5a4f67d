package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"
	"live-auction/internal/room"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RoomDirectory exposes room membership to the transport
type RoomDirectory interface {
	Attach(sub room.Subscriber) bool
	Disconnect(subscriberID string)
	Stats() room.Stats
}

// SessionConfig holds configuration for websocket sessions
type SessionConfig struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	CheckOrigin    func(r *http.Request) bool
}

// DefaultSessionConfig returns default websocket settings
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SendBuffer:     256,
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// WSHandler upgrades connections and dispatches peer messages to the service
type WSHandler struct {
	service  BiddingServiceInterface
	rooms    RoomDirectory
	upgrader websocket.Upgrader
	config   SessionConfig
}

func NewWSHandler(service BiddingServiceInterface, rooms RoomDirectory, config SessionConfig) *WSHandler {
	if config.PingInterval <= 0 || config.PingInterval >= config.ReadTimeout {
		config.PingInterval = config.ReadTimeout * 9 / 10
	}
	return &WSHandler{
		service: service,
		rooms:   rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// ConnectHandler handles GET /ws. With auctionId (and optionally userId and
// purse) in the query string the connection joins that auction right away.
func (h *WSHandler) ConnectHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		utils.Warn("ConnectHandler: websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	s := newSession(conn, h.config.SendBuffer)
	if !h.rooms.Attach(s) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(h.config.WriteTimeout))
		conn.Close()
		return
	}
	utils.Info("ConnectHandler: websocket connection established", map[string]any{
		"connection_id": s.id,
		"remote_addr":   c.Request.RemoteAddr,
	})

	go h.writePump(s)

	// join before reading so an early disconnect always follows the subscription
	if auctionID := c.Query("auctionId"); auctionID != "" {
		req := helpers.JoinRequest{AuctionID: auctionID, UserID: c.Query("userId")}
		if raw := c.Query("purse"); raw != "" {
			if purse, err := strconv.ParseInt(raw, 10, 64); err == nil {
				req.Purse = &purse
			}
		}
		h.join(s, req)
	}

	go h.readPump(s)
}

// StatsHandler handles GET /ws/stats
func (h *WSHandler) StatsHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, h.rooms.Stats(), "connection stats retrieved successfully")
}

func (h *WSHandler) readPump(s *session) {
	defer func() {
		h.rooms.Disconnect(s.id)
		s.Close()
		s.conn.Close()
		utils.Info("readPump: websocket connection closed", map[string]any{"connection_id": s.id, "user_id": s.user()})
	}()

	s.conn.SetReadLimit(h.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				utils.Warn("readPump: unexpected websocket close", map[string]any{"connection_id": s.id, "error": err.Error()})
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
		h.dispatch(s, frame)
	}
}

func (h *WSHandler) writePump(s *session) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				utils.Warn("writePump: write failed", map[string]any{"connection_id": s.id, "error": err.Error()})
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one peer frame. Malformed frames are dropped without a reply.
func (h *WSHandler) dispatch(s *session, frame []byte) {
	msg, err := helpers.DecodeInbound(frame)
	if err != nil {
		dropFrame(s, "", err)
		return
	}

	switch msg.Event {
	case helpers.EventJoin:
		var req helpers.JoinRequest
		if err := helpers.DecodePayload(msg, &req); err != nil || req.AuctionID == "" {
			dropFrame(s, msg.Event, err)
			return
		}
		h.join(s, req)

	case helpers.EventPlaceBid:
		var req helpers.PlaceBidRequest
		if err := helpers.DecodePayload(msg, &req); err != nil {
			dropFrame(s, msg.Event, err)
			return
		}
		h.placeBid(s, req)

	case helpers.EventSell, helpers.EventUnsold, helpers.EventToggleTimer, helpers.EventNextPlayer:
		var req helpers.ControlRequest
		if err := helpers.DecodePayload(msg, &req); err != nil || req.AuctionID == "" {
			dropFrame(s, msg.Event, err)
			return
		}
		h.control(s, msg.Event, req)

	default:
		dropFrame(s, msg.Event, errors.New("unknown event"))
	}
}

func (h *WSHandler) join(s *session, req helpers.JoinRequest) {
	snapshot, err := h.service.Join(req.AuctionID, req.UserID, req.Purse, s)
	if err != nil {
		utils.Warn("join: failed to join auction", map[string]any{
			"connection_id": s.id,
			"auction_id":    req.AuctionID,
			"user_id":       req.UserID,
			"error":         err.Error(),
		})
		return
	}
	s.setUser(req.UserID)
	helpers.LogSuccess("join", "connection joined auction", map[string]any{
		"connection_id": s.id,
		"auction_id":    req.AuctionID,
		"user_id":       req.UserID,
		"round":         snapshot.Round,
	})
}

func (h *WSHandler) placeBid(s *session, req helpers.PlaceBidRequest) {
	bid, err := h.service.PlaceBid(model.BidRequest{
		AuctionID: req.AuctionID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	})
	if err != nil {
		if biddingerrors.IsMalformed(err) {
			dropFrame(s, helpers.EventPlaceBid, err)
			return
		}
		if rejectErr := h.service.Reject(s, err); rejectErr != nil {
			utils.Warn("placeBid: failed to send rejection", map[string]any{"connection_id": s.id, "error": rejectErr.Error()})
		}
		utils.Info("placeBid: bid rejected", map[string]any{
			"connection_id": s.id,
			"auction_id":    req.AuctionID,
			"bidder_id":     req.BidderID,
			"amount":        req.Amount,
			"reason":        biddingerrors.RejectionReason(err),
		})
		return
	}

	helpers.LogSuccess("placeBid", "bid accepted", map[string]any{
		"auction_id": req.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

func (h *WSHandler) control(s *session, event string, req helpers.ControlRequest) {
	var (
		result model.ControlResult
		err    error
	)
	switch event {
	case helpers.EventSell:
		result, err = h.service.Sell(req.AuctionID, req.UserID)
	case helpers.EventUnsold:
		result, err = h.service.Unsold(req.AuctionID, req.UserID)
	case helpers.EventNextPlayer:
		result, err = h.service.NextPlayer(req.AuctionID, req.UserID)
	case helpers.EventToggleTimer:
		if req.IsTimerRunning == nil {
			dropFrame(s, event, errors.New("missing isTimerRunning"))
			return
		}
		result, err = h.service.ToggleTimer(req.AuctionID, req.UserID, *req.IsTimerRunning)
	}
	if err != nil {
		dropFrame(s, event, err)
		return
	}

	utils.Info("control: command handled", map[string]any{
		"connection_id": s.id,
		"auction_id":    req.AuctionID,
		"event":         event,
		"by":            req.UserID,
		"result":        result.String(),
	})
}

func dropFrame(s *session, event string, err error) {
	fields := map[string]any{"connection_id": s.id, "event": event}
	if err != nil {
		fields["error"] = err.Error()
	}
	utils.Warn("dispatch: dropping malformed message", fields)
}

// session is one websocket connection. It is a room.Subscriber.
type session struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	userID string
	send   chan []byte
	closed bool
}

func newSession(conn *websocket.Conn, buffer int) *session {
	if buffer <= 0 {
		buffer = DefaultSessionConfig().SendBuffer
	}
	return &session{
		id:   utils.GenerateID(),
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

func (s *session) ID() string {
	return s.id
}

// Send queues a frame for the write pump without blocking
func (s *session) Send(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

// Close stops the write pump after the frames already queued
func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

func (s *session) setUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID != "" {
		s.userID = userID
	}
}

func (s *session) user() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}
