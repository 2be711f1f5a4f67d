package biddingerrors

import (
	"errors"
	"fmt"
)

// Registry-level errors
var (
	ErrInvalidAuctionID = errors.New("invalid auction id")
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrInvalidSettings  = errors.New("invalid auction settings")
)

// business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrAuctionClosed     = errors.New("auction closed or unknown")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Wire reasons sent back in bidRejected
const (
	ReasonClosedOrUnknown   = "closed-or-unknown"
	ReasonInsufficientFunds = "insufficient-funds"
	ReasonInvalid           = "invalid-bid"
)

// BelowMinimumError reports the smallest amount that would have been accepted
type BelowMinimumError struct {
	Min int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("%s: minimum is %d", ErrBidTooLow, e.Min)
}

func (e *BelowMinimumError) Unwrap() error {
	return ErrBidTooLow
}

// RejectionReason maps a bid error to the reason string peers receive
func RejectionReason(err error) string {
	var below *BelowMinimumError
	switch {
	case errors.As(err, &below):
		return fmt.Sprintf("below-minimum(%d)", below.Min)
	case errors.Is(err, ErrAuctionClosed):
		return ReasonClosedOrUnknown
	case errors.Is(err, ErrInsufficientFunds):
		return ReasonInsufficientFunds
	default:
		return ReasonInvalid
	}
}

// IsMalformed reports whether err means the request itself was unusable,
// as opposed to a well-formed bid the auction turned down
func IsMalformed(err error) bool {
	return errors.Is(err, ErrInvalidBid) || errors.Is(err, ErrInvalidAuctionID)
}
