package helpers

import (
	"encoding/json"
	"fmt"
)

// Inbound event names
const (
	EventJoin        = "join"
	EventPlaceBid    = "placeBid"
	EventSell        = "sell"
	EventUnsold      = "unsold"
	EventToggleTimer = "toggleTimer"
	EventNextPlayer  = "nextPlayer"
)

// InboundMessage is a frame received from a peer, payload still undecoded
type InboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinRequest subscribes a connection to an auction
type JoinRequest struct {
	AuctionID string `json:"auctionId"`
	UserID    string `json:"userId"`
	Purse     *int64 `json:"purse,omitempty"`
}

// PlaceBidRequest submits a bid
type PlaceBidRequest struct {
	AuctionID string `json:"auctionId"`
	BidderID  string `json:"bidderId"`
	Amount    int64  `json:"amount"`
}

// ControlRequest carries sell, unsold, toggleTimer and nextPlayer commands
type ControlRequest struct {
	AuctionID      string `json:"auctionId"`
	UserID         string `json:"userId"`
	IsTimerRunning *bool  `json:"isTimerRunning,omitempty"`
}

// DecodeInbound parses the envelope of a peer frame
func DecodeInbound(frame []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return InboundMessage{}, fmt.Errorf("decode frame: %w", err)
	}
	if msg.Event == "" {
		return InboundMessage{}, fmt.Errorf("decode frame: missing event name")
	}
	return msg, nil
}

// DecodePayload unmarshals the payload of msg into v
func DecodePayload(msg InboundMessage, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("decode %s: missing data", msg.Event)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Event, err)
	}
	return nil
}
