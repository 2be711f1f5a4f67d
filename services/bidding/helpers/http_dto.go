package helpers

// Request/Response DTOs
type ProvisionAuctionRequest struct {
	AuctionID     string `json:"auction_id" binding:"required"`
	MinIncrement  int64  `json:"min_increment" binding:"gte=0"`
	StartingPurse int64  `json:"starting_purse" binding:"gte=0"`
}

type AuctionListResponse struct {
	AuctionIDs []string `json:"auction_ids"`
	Count      int      `json:"count"`
}
