package peer

import (
	"sort"
	"sync"

	model "live-auction/internal/models"
)

// State is what a peer shows for the auction it follows
type State struct {
	HighestBid   model.HighestBid
	Status       model.Status
	Round        int64
	TimerRunning bool
	// Pending is true when HighestBid is a local bid the authority has not confirmed
	Pending bool
}

// Outcome is how one round ended
type Outcome struct {
	Round  int64
	Status model.Status
	Winner model.HighestBid
	// Provisional is true for a local sale the authority has not announced yet
	Provisional bool
}

// View keeps a peer's copy of one auction aligned with the authority. It holds
// the last authoritative state and at most one optimistic bid on top of it.
// Every authoritative message replaces the authoritative state and drops the
// optimistic bid.
type View struct {
	mu        sync.Mutex
	auctionID string
	authority State
	pending   *model.HighestBid
	settled   map[int64]Outcome
	spent     map[string]int64
}

func NewView(auctionID string) *View {
	return &View{
		auctionID: auctionID,
		authority: State{Status: model.StatusOpen, Round: 1},
		settled:   make(map[int64]Outcome),
		spent:     make(map[string]int64),
	}
}

// AuctionID returns the auction this view follows
func (v *View) AuctionID() string {
	return v.auctionID
}

// ApplySnapshot takes the authority's state as it is. A snapshot of a finished
// round settles that round, so a peer that missed the control event while
// disconnected still records the outcome once.
func (v *View) ApplySnapshot(s model.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.authority = State{
		HighestBid:   s.HighestBid,
		Status:       s.Status,
		Round:        s.Round,
		TimerRunning: s.TimerRunning,
	}
	v.pending = nil

	if s.Status != model.StatusOpen {
		v.confirmLocked(Outcome{Round: s.Round, Status: s.Status, Winner: s.HighestBid})
	}
}

// PlaceOptimistic shows a local bid before the authority has decided on it
func (v *View) PlaceOptimistic(bidderID string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pending = &model.HighestBid{BidderID: bidderID, Amount: amount}
}

// DropPending discards the optimistic bid, e.g. after the authority rejected it
func (v *View) DropPending() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = nil
}

// Current returns the optimistic bid over the authoritative state, if any
func (v *View) Current() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	current := v.authority
	if v.pending != nil {
		current.HighestBid = *v.pending
		current.Pending = true
	}
	return current
}

// Authoritative returns the state last confirmed by the authority
func (v *View) Authoritative() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.authority
}

// ApplyBidAccepted overwrites the local view with the accepted bid. It reports
// true when an optimistic bid was pending and the authority named someone else.
func (v *View) ApplyBidAccepted(bid model.HighestBid) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	lost := v.pending != nil && v.pending.BidderID != bid.BidderID
	v.pending = nil
	v.authority.HighestBid = bid
	return lost
}

// ApplyControl applies a control event broadcast by the authority. Events for
// other auctions are ignored and reported as false.
func (v *View) ApplyControl(ev model.ControlEvent) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ev.AuctionID != "" && ev.AuctionID != v.auctionID {
		return false
	}
	v.pending = nil

	switch ev.Type {
	case model.ControlSold:
		v.authority.Status = model.StatusClosed
		if ev.Winner != nil {
			v.authority.HighestBid = *ev.Winner
		}
		v.confirmLocked(Outcome{Round: ev.Round, Status: model.StatusClosed, Winner: v.authority.HighestBid})
	case model.ControlUnsold:
		v.authority.Status = model.StatusUnsold
		v.confirmLocked(Outcome{Round: ev.Round, Status: model.StatusUnsold})
	case model.ControlToggleTimer:
		if ev.IsTimerRunning != nil {
			v.authority.TimerRunning = *ev.IsTimerRunning
		}
	case model.ControlNextPlayer:
		// the stream is ordered, so a round still provisional here was never sold
		for round, o := range v.settled {
			if o.Provisional && round < ev.Round {
				v.unsettleLocked(o)
			}
		}
		v.authority = State{Status: model.StatusOpen, Round: ev.Round}
	default:
		return false
	}
	return true
}

// Settle records a local sale as a provisional outcome of its round. It has no
// effect once the round has an outcome. The authority's sold or unsold for the
// round replaces it.
func (v *View) Settle(outcome Outcome) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, done := v.settled[outcome.Round]; done {
		return false
	}
	outcome.Provisional = true
	v.recordLocked(outcome)
	return true
}

// confirmLocked settles a round from an authoritative message. A provisional
// outcome of the round is undone first, a confirmed one is kept.
func (v *View) confirmLocked(outcome Outcome) bool {
	if prev, done := v.settled[outcome.Round]; done {
		if !prev.Provisional {
			return false
		}
		v.unsettleLocked(prev)
	}
	outcome.Provisional = false
	v.recordLocked(outcome)
	return true
}

func (v *View) recordLocked(outcome Outcome) {
	v.settled[outcome.Round] = outcome
	if outcome.Status == model.StatusClosed && !outcome.Winner.IsEmpty() {
		v.spent[outcome.Winner.BidderID] += outcome.Winner.Amount
	}
}

func (v *View) unsettleLocked(outcome Outcome) {
	delete(v.settled, outcome.Round)
	if outcome.Status == model.StatusClosed && !outcome.Winner.IsEmpty() {
		v.spent[outcome.Winner.BidderID] -= outcome.Winner.Amount
		if v.spent[outcome.Winner.BidderID] == 0 {
			delete(v.spent, outcome.Winner.BidderID)
		}
	}
}

// Settlements returns every settled round in round order
func (v *View) Settlements() []Outcome {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Outcome, 0, len(v.settled))
	for _, o := range v.settled {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}

// Spent returns how much bidderID has paid for items won
func (v *View) Spent(bidderID string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.spent[bidderID]
}
