package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	model "live-auction/internal/models"
	"live-auction/internal/room"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gorilla/websocket"
)

var ErrClientClosed = errors.New("peer: client closed")

const writeTimeout = 5 * time.Second

// Message is one frame received from the authority
type Message struct {
	Event string
	Data  json.RawMessage
}

// Options describes who the client is and which auction it follows
type Options struct {
	AuctionID string
	UserID    string
	// Purse is sent with the join; nil leaves the auction default
	Purse *int64
	// EventBuffer sizes the Events channel
	EventBuffer int
}

// Client is a websocket peer of the coordinator. It joins one auction on dial,
// keeps a View of it and forwards every frame it receives on Events.
type Client struct {
	conn    *websocket.Conn
	view    *View
	opts    Options
	events  chan Message
	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Dial connects to url (ws://host/ws) and joins opts.AuctionID
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	if opts.AuctionID == "" {
		return nil, fmt.Errorf("peer: dial: auction id is required")
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("peer: dial %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		view:   NewView(opts.AuctionID),
		opts:   opts,
		events: make(chan Message, opts.EventBuffer),
		done:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.readLoop()

	if err := c.send(helpers.EventJoin, helpers.JoinRequest{
		AuctionID: opts.AuctionID,
		UserID:    opts.UserID,
		Purse:     opts.Purse,
	}); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// View returns the client's reconciled view of the auction
func (c *Client) View() *View {
	return c.view
}

// Events delivers every frame after the view has applied it. It is closed
// when the connection ends.
func (c *Client) Events() <-chan Message {
	return c.events
}

// PlaceBid shows the bid locally and sends it to the authority
func (c *Client) PlaceBid(amount int64) error {
	c.view.PlaceOptimistic(c.opts.UserID, amount)
	return c.send(helpers.EventPlaceBid, helpers.PlaceBidRequest{
		AuctionID: c.opts.AuctionID,
		BidderID:  c.opts.UserID,
		Amount:    amount,
	})
}

// Sell closes the round. The view settles it provisionally with the highest bid
// seen so far, and the authority's sold or unsold for the round replaces that.
func (c *Client) Sell() error {
	if state := c.view.Authoritative(); state.Status == model.StatusOpen {
		c.view.Settle(Outcome{Round: state.Round, Status: model.StatusClosed, Winner: state.HighestBid})
	}
	return c.control(helpers.EventSell, nil)
}

func (c *Client) Unsold() error {
	return c.control(helpers.EventUnsold, nil)
}

func (c *Client) ToggleTimer(running bool) error {
	return c.control(helpers.EventToggleTimer, &running)
}

func (c *Client) NextPlayer() error {
	return c.control(helpers.EventNextPlayer, nil)
}

func (c *Client) control(event string, timer *bool) error {
	return c.send(event, helpers.ControlRequest{
		AuctionID:      c.opts.AuctionID,
		UserID:         c.opts.UserID,
		IsTimerRunning: timer,
	})
}

// Close ends the connection and waits for the read loop. It is safe to call twice.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		c.writeMu.Unlock()

		err = c.conn.Close()
		c.wg.Wait()
	})
	return err
}

func (c *Client) send(event string, data any) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	frame, err := room.Encode(event, data)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("peer: send %s: %w", event, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.events)

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				utils.Debug("peer: connection ended", map[string]any{"auction_id": c.opts.AuctionID, "error": err.Error()})
			}
			return
		}

		msg, err := helpers.DecodeInbound(frame)
		if err != nil {
			utils.Warn("peer: undecodable frame", map[string]any{"error": err.Error()})
			continue
		}
		c.apply(msg)

		select {
		case c.events <- Message{Event: msg.Event, Data: msg.Data}:
		case <-c.done:
			return
		}
	}
}

// apply feeds an authoritative message into the view
func (c *Client) apply(msg helpers.InboundMessage) {
	switch msg.Event {
	case room.EventState:
		var p model.StatePayload
		if err := helpers.DecodePayload(msg, &p); err == nil && p.AuctionID == c.opts.AuctionID {
			c.view.ApplySnapshot(p.State)
		}
	case room.EventBidAccepted:
		var p model.BidAcceptedPayload
		if err := helpers.DecodePayload(msg, &p); err == nil && p.AuctionID == c.opts.AuctionID {
			if lost := c.view.ApplyBidAccepted(p.HighestBid); lost {
				utils.Debug("peer: outbid", map[string]any{"auction_id": p.AuctionID, "leader": p.HighestBid.BidderID})
			}
		}
	case room.EventBidRejected:
		c.view.DropPending()
	case room.EventControlEvent:
		var ev model.ControlEvent
		if err := helpers.DecodePayload(msg, &ev); err == nil {
			c.view.ApplyControl(ev)
		}
	}
}
