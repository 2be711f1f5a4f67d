package bidding

import (
	"fmt"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/internal/room"
)

// Control commands are permissive: any connection may issue them, and a command
// that does not fit the auction's current status is a NoOp, not an error.

// Sell closes the open round with whatever the highest bid is at this instant
func (s *BiddingService) Sell(auctionID, by string) (models.ControlResult, error) {
	return s.control(auctionID, func(st *repository.AuctionState) *models.ControlEvent {
		if st.Status != models.StatusOpen {
			return nil
		}
		st.Status = models.StatusClosed
		winner := st.HighestBid
		return &models.ControlEvent{Type: models.ControlSold, By: by, Winner: &winner}
	})
}

// Unsold withdraws the item of the open round
func (s *BiddingService) Unsold(auctionID, by string) (models.ControlResult, error) {
	return s.control(auctionID, func(st *repository.AuctionState) *models.ControlEvent {
		if st.Status != models.StatusOpen {
			return nil
		}
		st.Status = models.StatusUnsold
		return &models.ControlEvent{Type: models.ControlUnsold, By: by}
	})
}

// ToggleTimer records and relays the timer flag declared by the caller.
// The coordinator runs no clock of its own and the status is left alone.
func (s *BiddingService) ToggleTimer(auctionID, by string, isTimerRunning bool) (models.ControlResult, error) {
	return s.control(auctionID, func(st *repository.AuctionState) *models.ControlEvent {
		st.TimerRunning = isTimerRunning
		running := isTimerRunning
		return &models.ControlEvent{Type: models.ControlToggleTimer, By: by, IsTimerRunning: &running}
	})
}

// NextPlayer starts a fresh round on the same auction: the highest bid is
// cleared and bidding reopens. Purses are not refunded.
func (s *BiddingService) NextPlayer(auctionID, by string) (models.ControlResult, error) {
	return s.control(auctionID, func(st *repository.AuctionState) *models.ControlEvent {
		st.StartNextRound()
		return &models.ControlEvent{Type: models.ControlNextPlayer, By: by}
	})
}

// control applies transition under the auction lock and broadcasts the event it
// returns. A nil event means the command did not apply.
func (s *BiddingService) control(auctionID string, transition func(st *repository.AuctionState) *models.ControlEvent) (models.ControlResult, error) {
	if auctionID == "" {
		return models.NoOp, fmt.Errorf("service: control: %w", biddingerrors.ErrInvalidAuctionID)
	}

	auction, ok := s.repo.Lookup(auctionID)
	if !ok {
		return models.NoOp, nil
	}

	result := models.NoOp
	_ = auction.Update(func(st *repository.AuctionState) error {
		event := transition(st)
		if event == nil {
			return nil
		}
		event.AuctionID = auctionID
		event.Round = st.Round
		s.notify(auctionID, room.EventControlEvent, *event)
		result = models.Applied
		return nil
	})

	return result, nil
}
