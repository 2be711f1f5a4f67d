package models

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of the current round of an auction
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed" // item sold
	StatusUnsold Status = "unsold" // item withdrawn
)

// Defaults carries the settings applied when an auction or a bidder is first seen
type Defaults struct {
	MinIncrement  int64 `json:"min_increment" yaml:"min_increment"`
	StartingPurse int64 `json:"starting_purse" yaml:"starting_purse"`
}

// DefaultSettings returns the process-wide fallback settings
func DefaultSettings() Defaults {
	return Defaults{
		MinIncrement:  50,
		StartingPurse: 10000,
	}
}

// HighestBid is the leading bid of a round. An empty BidderID with Amount 0 means no bid yet.
type HighestBid struct {
	BidderID  string    `json:"bidderId"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// IsEmpty reports whether nobody has bid in the round
func (h HighestBid) IsEmpty() bool {
	return h.BidderID == ""
}

// MarshalJSON renders an empty bidder as null
func (h HighestBid) MarshalJSON() ([]byte, error) {
	var bidder *string
	if h.BidderID != "" {
		bidder = &h.BidderID
	}
	return json.Marshal(struct {
		BidderID  *string   `json:"bidderId"`
		Amount    int64     `json:"amount"`
		Timestamp time.Time `json:"timestamp"`
	}{bidder, h.Amount, h.Timestamp})
}

// Snapshot is a point-in-time copy of an auction
type Snapshot struct {
	AuctionID    string           `json:"auctionId"`
	Status       Status           `json:"status"`
	HighestBid   HighestBid       `json:"highestBid"`
	MinIncrement int64            `json:"minIncrement"`
	Purses       map[string]int64 `json:"purses"`
	Round        int64            `json:"round"`
	TimerRunning bool             `json:"timerRunning"`
}

// BidRequest is a bid as submitted by a peer
type BidRequest struct {
	AuctionID string
	BidderID  string
	Amount    int64
}

// ControlType names a control event relayed to a room
type ControlType string

const (
	ControlSold        ControlType = "sold"
	ControlUnsold      ControlType = "unsold"
	ControlToggleTimer ControlType = "toggleTimer"
	ControlNextPlayer  ControlType = "nextPlayer"
)

// ControlEvent is the payload broadcast for every applied control command
type ControlEvent struct {
	Type           ControlType `json:"type"`
	AuctionID      string      `json:"auctionId"`
	By             string      `json:"by"`
	Winner         *HighestBid `json:"winner,omitempty"`
	IsTimerRunning *bool       `json:"isTimerRunning,omitempty"`
	Round          int64       `json:"round"`
}

// ControlResult tells whether a control command changed anything
type ControlResult int

const (
	NoOp ControlResult = iota
	Applied
)

func (r ControlResult) String() string {
	if r == Applied {
		return "applied"
	}
	return "noop"
}

// StatePayload answers a join with the current auction state
type StatePayload struct {
	AuctionID string   `json:"auctionId"`
	State     Snapshot `json:"state"`
}

// BidAcceptedPayload is broadcast to the room after a bid commits
type BidAcceptedPayload struct {
	AuctionID  string     `json:"auctionId"`
	HighestBid HighestBid `json:"highestBid"`
}

// BidRejectedPayload is sent only to the connection whose bid failed
type BidRejectedPayload struct {
	Reason string `json:"reason"`
}
