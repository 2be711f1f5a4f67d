package repository

import (
	"fmt"
	"maps"

	"live-auction/internal/biddingerrors"
)

// Ledger maps a bidder to the funds they have left in one auction.
// It is not safe for concurrent use; callers hold the owning auction's lock.
type Ledger map[string]int64

// Ensure opens a balance for bidderID unless one exists already.
// It returns the resulting balance and whether it was created by this call.
func (l Ledger) Ensure(bidderID string, startingPurse int64) (int64, bool) {
	if balance, ok := l[bidderID]; ok {
		return balance, false
	}
	if startingPurse < 0 {
		startingPurse = 0
	}
	l[bidderID] = startingPurse
	return startingPurse, true
}

// Balance returns the remaining funds of bidderID, zero when unknown
func (l Ledger) Balance(bidderID string) int64 {
	return l[bidderID]
}

// Debit removes amount from bidderID's balance
func (l Ledger) Debit(bidderID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("debit %d from %s: %w", amount, bidderID, biddingerrors.ErrInvalidBid)
	}
	balance := l[bidderID]
	if amount > balance {
		return fmt.Errorf("debit %d from %s with balance %d: %w", amount, bidderID, balance, biddingerrors.ErrInsufficientFunds)
	}
	l[bidderID] = balance - amount
	return nil
}

// Copy returns an independent copy of the ledger
func (l Ledger) Copy() map[string]int64 {
	out := make(map[string]int64, len(l))
	maps.Copy(out, l)
	return out
}
