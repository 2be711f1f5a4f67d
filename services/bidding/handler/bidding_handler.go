package handler

import (
	"fmt"
	"net/http"

	model "live-auction/internal/models"
	"live-auction/internal/room"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_service.go -package=handler

type BiddingServiceInterface interface {
	Join(auctionID, userID string, purse *int64, sub room.Subscriber) (model.Snapshot, error)
	PlaceBid(req model.BidRequest) (model.HighestBid, error)
	Reject(sub room.Subscriber, bidErr error) error
	Sell(auctionID, by string) (model.ControlResult, error)
	Unsold(auctionID, by string) (model.ControlResult, error)
	ToggleTimer(auctionID, by string, isTimerRunning bool) (model.ControlResult, error)
	NextPlayer(auctionID, by string) (model.ControlResult, error)
	Provision(auctionID string, defaults model.Defaults) (model.Snapshot, bool, error)
	GetAuction(auctionID string) (model.Snapshot, error)
	ListAuctions() []string
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// ProvisionAuctionHandler handles POST /auctions
func (h *BiddingHandler) ProvisionAuctionHandler(c *gin.Context) {
	var req helpers.ProvisionAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ProvisionAuctionHandler", err)
		return
	}

	snapshot, created, err := h.service.Provision(req.AuctionID, model.Defaults{
		MinIncrement:  req.MinIncrement,
		StartingPurse: req.StartingPurse,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("ProvisionAuctionHandler: failed to provision auction", map[string]any{
			"handler":    "ProvisionAuctionHandler",
			"auction_id": req.AuctionID,
			"error":      err.Error(),
		})
		return
	}

	if !created {
		utils.JSONResponse(c, http.StatusOK, snapshot, "auction already exists")
		return
	}

	utils.JSONResponse(c, http.StatusCreated, snapshot, "auction created successfully")
	helpers.LogSuccess("ProvisionAuctionHandler", "auction created successfully", map[string]any{
		"auction_id":    snapshot.AuctionID,
		"min_increment": snapshot.MinIncrement,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	ids := h.service.ListAuctions()
	if ids == nil {
		ids = []string{}
	}

	utils.JSONResponse(c, http.StatusOK, helpers.AuctionListResponse{AuctionIDs: ids, Count: len(ids)}, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	snapshot, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, snapshot, "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"status":     snapshot.Status,
		"round":      snapshot.Round,
	})
}
