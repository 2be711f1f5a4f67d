package repository

import (
	"sync"

	model "live-auction/internal/models"
)

// AuctionState is the authoritative record of one auction
type AuctionState struct {
	ID            string
	Status        model.Status
	HighestBid    model.HighestBid
	MinIncrement  int64
	StartingPurse int64
	Purses        Ledger
	Round         int64
	TimerRunning  bool
}

// Snapshot copies the state into its wire representation
func (s *AuctionState) Snapshot() model.Snapshot {
	return model.Snapshot{
		AuctionID:    s.ID,
		Status:       s.Status,
		HighestBid:   s.HighestBid,
		MinIncrement: s.MinIncrement,
		Purses:       s.Purses.Copy(),
		Round:        s.Round,
		TimerRunning: s.TimerRunning,
	}
}

// StartNextRound reopens the auction for a fresh item. Purses carry over.
func (s *AuctionState) StartNextRound() {
	s.Round++
	s.Status = model.StatusOpen
	s.HighestBid = model.HighestBid{}
	s.TimerRunning = false
}

// Auction guards one AuctionState with its own lock so that unrelated auctions never contend
type Auction struct {
	mu    sync.Mutex
	state AuctionState
}

func newAuction(id string, defaults model.Defaults) *Auction {
	return &Auction{
		state: AuctionState{
			ID:            id,
			Status:        model.StatusOpen,
			MinIncrement:  defaults.MinIncrement,
			StartingPurse: defaults.StartingPurse,
			Purses:        make(Ledger),
			Round:         1,
		},
	}
}

// ID returns the auction identifier
func (a *Auction) ID() string {
	return a.state.ID
}

// Update runs fn with exclusive access to the state. Anything fn does,
// including fan-out of the resulting events, is ordered with every other
// update of the same auction.
func (a *Auction) Update(fn func(s *AuctionState) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(&a.state)
}

// Snapshot returns a consistent copy of the current state
func (a *Auction) Snapshot() model.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Snapshot()
}
