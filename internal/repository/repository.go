package repository

import (
	"fmt"
	"sort"
	"sync"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"

	"github.com/samber/lo"
)

// AuctionRegistry owns the set of live auctions of the process
type AuctionRegistry interface {
	GetOrCreate(auctionID string, defaults model.Defaults) (*Auction, error)
	Lookup(auctionID string) (*Auction, bool)
	Provision(auctionID string, defaults model.Defaults) (*Auction, bool, error)
	List() []string
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionRegistry.
// The map lock only covers membership; each Auction serializes its own updates.
type MemoryRepo struct {
	mu       sync.RWMutex
	auctions map[string]*Auction // key: auctionID
}

// NewMemoryRepo creates a new in-memory registry instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]*Auction),
	}
}

// GetOrCreate returns the auction for auctionID, creating it with defaults on first sight.
// Every call for the same id returns the same *Auction.
func (r *MemoryRepo) GetOrCreate(auctionID string, defaults model.Defaults) (*Auction, error) {
	a, _, err := r.Provision(auctionID, defaults)
	return a, err
}

// Lookup returns the auction for auctionID without creating it
func (r *MemoryRepo) Lookup(auctionID string) (*Auction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	return a, ok
}

// Provision creates the auction if it does not exist yet. An existing auction is
// returned untouched with created=false.
func (r *MemoryRepo) Provision(auctionID string, defaults model.Defaults) (*Auction, bool, error) {
	if auctionID == "" {
		return nil, false, fmt.Errorf("provision auction: %w", biddingerrors.ErrInvalidAuctionID)
	}

	if a, ok := r.Lookup(auctionID); ok {
		return a, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another caller may have won the race between the two locks
	if a, ok := r.auctions[auctionID]; ok {
		return a, false, nil
	}

	a := newAuction(auctionID, normalizeDefaults(defaults))
	r.auctions[auctionID] = a
	return a, true, nil
}

// List returns the ids of all auctions, sorted
func (r *MemoryRepo) List() []string {
	r.mu.RLock()
	ids := lo.Keys(r.auctions)
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func normalizeDefaults(d model.Defaults) model.Defaults {
	fallback := model.DefaultSettings()
	if d.MinIncrement <= 0 {
		d.MinIncrement = fallback.MinIncrement
	}
	// zero funds is a valid setting
	if d.StartingPurse < 0 {
		d.StartingPurse = fallback.StartingPurse
	}
	return d
}
