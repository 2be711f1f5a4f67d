package bidding

import (
	"fmt"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/journal"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/internal/room"
	"live-auction/utils"

	"github.com/jonboulle/clockwork"
)

//go:generate mockgen -source=bidding_service.go -destination=mock_notifier.go -package=bidding

// Broadcaster fans messages out to the connections watching an auction
type Broadcaster interface {
	Subscribe(auctionID string, sub room.Subscriber)
	Unicast(sub room.Subscriber, event string, data any) error
	Publish(auctionID, event string, data any) error
}

// Journal mirrors every broadcast to an external sink
type Journal interface {
	Record(auctionID, event string, data any) error
}

// BiddingService is the single authority deciding bids and control commands
type BiddingService struct {
	repo     repository.AuctionRegistry
	rooms    Broadcaster
	journal  Journal
	clock    clockwork.Clock
	defaults models.Defaults
}

// Option customises a BiddingService
type Option func(*BiddingService)

// WithClock sets the clock used to timestamp bids
func WithClock(clock clockwork.Clock) Option {
	return func(s *BiddingService) { s.clock = clock }
}

// WithJournal sets the sink that mirrors broadcasts
func WithJournal(j Journal) Option {
	return func(s *BiddingService) { s.journal = j }
}

// WithDefaults sets the settings for auctions created on join
func WithDefaults(d models.Defaults) Option {
	return func(s *BiddingService) { s.defaults = d }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionRegistry, rooms Broadcaster, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:     repo,
		rooms:    rooms,
		journal:  journal.Nop{},
		clock:    clockwork.NewRealClock(),
		defaults: models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Join subscribes sub to the auction, opens a purse for userID if it has none
// and sends sub the current state. The auction is created on first sight.
// A nil purse means the auction's default starting purse.
func (s *BiddingService) Join(auctionID, userID string, purse *int64, sub room.Subscriber) (models.Snapshot, error) {
	if auctionID == "" {
		return models.Snapshot{}, fmt.Errorf("service: join: %w", biddingerrors.ErrInvalidAuctionID)
	}

	auction, err := s.repo.GetOrCreate(auctionID, s.defaults)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("service: join auction %s: %w", auctionID, err)
	}

	var snapshot models.Snapshot
	err = auction.Update(func(st *repository.AuctionState) error {
		if userID != "" {
			starting := st.StartingPurse
			if purse != nil && *purse >= 0 {
				starting = *purse
			}
			st.Purses.Ensure(userID, starting)
		}

		// subscribe and reply under the auction lock so the snapshot is
		// followed by exactly the broadcasts that happen after it
		snapshot = st.Snapshot()
		if sub != nil {
			s.rooms.Subscribe(auctionID, sub)
			if err := s.rooms.Unicast(sub, room.EventState, models.StatePayload{AuctionID: auctionID, State: snapshot}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("service: join auction %s: %w", auctionID, err)
	}

	return snapshot, nil
}

// PlaceBid validates a bid against the auction and commits it when it beats
// the current highest bid by at least the minimum increment and fits in the
// bidder's purse. Rejections leave the auction untouched.
func (s *BiddingService) PlaceBid(req models.BidRequest) (models.HighestBid, error) {
	if err := validateBid(req); err != nil {
		return models.HighestBid{}, err
	}

	auction, ok := s.repo.Lookup(req.AuctionID)
	if !ok {
		return models.HighestBid{}, fmt.Errorf("service: bid on auction %s: %w", req.AuctionID, biddingerrors.ErrAuctionClosed)
	}

	var accepted models.HighestBid
	err := auction.Update(func(st *repository.AuctionState) error {
		if st.Status != models.StatusOpen {
			return fmt.Errorf("service: auction %s is %s: %w", req.AuctionID, st.Status, biddingerrors.ErrAuctionClosed)
		}

		minimum := st.HighestBid.Amount + st.MinIncrement
		if req.Amount < minimum {
			return fmt.Errorf("service: bid %d on auction %s: %w", req.Amount, req.AuctionID, &biddingerrors.BelowMinimumError{Min: minimum})
		}

		if err := st.Purses.Debit(req.BidderID, req.Amount); err != nil {
			return fmt.Errorf("service: bid on auction %s: %w", req.AuctionID, err)
		}

		accepted = models.HighestBid{
			BidderID:  req.BidderID,
			Amount:    req.Amount,
			Timestamp: s.clock.Now().UTC(),
		}
		st.HighestBid = accepted

		s.notify(req.AuctionID, room.EventBidAccepted, models.BidAcceptedPayload{
			AuctionID:  req.AuctionID,
			HighestBid: accepted,
		})
		return nil
	})
	if err != nil {
		return models.HighestBid{}, err
	}

	return accepted, nil
}

// Reject tells sub why its bid failed. Nothing is broadcast.
func (s *BiddingService) Reject(sub room.Subscriber, bidErr error) error {
	return s.rooms.Unicast(sub, room.EventBidRejected, models.BidRejectedPayload{
		Reason: biddingerrors.RejectionReason(bidErr),
	})
}

// Provision creates an auction with explicit settings. An existing auction is
// returned as it is with created=false.
func (s *BiddingService) Provision(auctionID string, defaults models.Defaults) (models.Snapshot, bool, error) {
	if defaults.MinIncrement == 0 {
		defaults.MinIncrement = s.defaults.MinIncrement
	}
	if defaults.StartingPurse == 0 {
		defaults.StartingPurse = s.defaults.StartingPurse
	}
	if defaults.MinIncrement < 0 || defaults.StartingPurse < 0 {
		return models.Snapshot{}, false, fmt.Errorf("service: %w - negative min increment or starting purse", biddingerrors.ErrInvalidSettings)
	}

	auction, created, err := s.repo.Provision(auctionID, defaults)
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("service: provision auction %s: %w", auctionID, err)
	}
	return auction.Snapshot(), created, nil
}

// GetAuction returns the current state of an existing auction
func (s *BiddingService) GetAuction(auctionID string) (models.Snapshot, error) {
	if auctionID == "" {
		return models.Snapshot{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidAuctionID)
	}

	auction, ok := s.repo.Lookup(auctionID)
	if !ok {
		return models.Snapshot{}, fmt.Errorf("service: get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return auction.Snapshot(), nil
}

// ListAuctions returns the ids of all auctions
func (s *BiddingService) ListAuctions() []string {
	return s.repo.List()
}

// validateBid checks the shape of a bid before any auction is consulted.
// Amounts are left to the auction: a non-positive one is below every minimum.
func validateBid(req models.BidRequest) error {
	if req.AuctionID == "" || req.BidderID == "" {
		return fmt.Errorf("service: %w - missing auctionID or bidderID", biddingerrors.ErrInvalidBid)
	}
	return nil
}

// notify broadcasts to the room and mirrors to the journal. Failures are logged
// only: the state change they describe has already been committed.
func (s *BiddingService) notify(auctionID, event string, data any) {
	if err := s.rooms.Publish(auctionID, event, data); err != nil {
		utils.Error("service: broadcast failed", map[string]any{
			"auction_id": auctionID,
			"event":      event,
			"error":      err.Error(),
		})
	}
	if err := s.journal.Record(auctionID, event, data); err != nil {
		utils.Warn("service: journal record failed", map[string]any{
			"auction_id": auctionID,
			"event":      event,
			"error":      err.Error(),
		})
	}
}
