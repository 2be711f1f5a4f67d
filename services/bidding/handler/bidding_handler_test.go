package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"
	"live-auction/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newSnapshot(auctionID string, minIncrement int64) model.Snapshot {
	return model.Snapshot{
		AuctionID:    auctionID,
		Status:       model.StatusOpen,
		MinIncrement: minIncrement,
		Purses:       map[string]int64{},
		Round:        1,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Test ProvisionAuctionHandler
func TestProvisionAuctionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "created",
			requestBody: helpers.ProvisionAuctionRequest{AuctionID: "ipl", MinIncrement: 25, StartingPurse: 5000},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					Provision("ipl", model.Defaults{MinIncrement: 25, StartingPurse: 5000}).
					Return(newSnapshot("ipl", 25), true, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "ipl", data["auctionId"])
				require.Equal(t, float64(25), data["minIncrement"])
				require.Equal(t, "open", data["status"])
				require.Equal(t, float64(1), data["round"])
			},
		},
		{
			name:        "already_exists",
			requestBody: helpers.ProvisionAuctionRequest{AuctionID: "ipl"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().Provision("ipl", model.Defaults{}).Return(newSnapshot("ipl", 50), false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction already exists",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_auction_id",
			requestBody:    helpers.ProvisionAuctionRequest{MinIncrement: 10},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_increment",
			requestBody:    helpers.ProvisionAuctionRequest{AuctionID: "ipl", MinIncrement: -5},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_invalid_settings",
			requestBody: helpers.ProvisionAuctionRequest{AuctionID: "ipl", MinIncrement: 1},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					Provision("ipl", model.Defaults{MinIncrement: 1}).
					Return(model.Snapshot{}, false, fmt.Errorf("service: %w", biddingerrors.ErrInvalidSettings))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid auction settings",
		},
		{
			name:        "service_generic_error",
			requestBody: helpers.ProvisionAuctionRequest{AuctionID: "ipl"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().Provision("ipl", model.Defaults{}).Return(model.Snapshot{}, false, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockBiddingServiceInterface(ctrl)
			router := gin.New()
			router.POST("/auctions", NewBiddingHandler(mockService).ProvisionAuctionHandler)
			tc.mockSetup(mockService)

			var reqBody []byte
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				var err error
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auctions", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test ListAuctionsHandler
func TestListAuctionsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		ids       []string
		wantCount float64
	}{
		{name: "two_auctions", ids: []string{"a1", "a2"}, wantCount: 2},
		{name: "none", ids: nil, wantCount: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockBiddingServiceInterface(ctrl)
			mockService.EXPECT().ListAuctions().Return(tc.ids)

			router := gin.New()
			router.GET("/auctions", NewBiddingHandler(mockService).ListAuctionsHandler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auctions", nil))

			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeBody(t, w)
			require.Equal(t, "auctions retrieved successfully", resp["message"])
			data := resp["data"].(map[string]any)
			require.Equal(t, tc.wantCount, data["count"])
			require.NotNil(t, data["auction_ids"], "an empty list is [] not null")
		})
	}
}

// Test GetAuctionHandler
func TestGetAuctionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:      "found",
			auctionID: "a1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				snap := newSnapshot("a1", 50)
				snap.HighestBid = model.HighestBid{BidderID: "X", Amount: 50}
				m.EXPECT().GetAuction("a1").Return(snap, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction retrieved successfully",
		},
		{
			name:      "not_found",
			auctionID: "zzz",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetAuction("zzz").Return(model.Snapshot{}, fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := gin.New()
			router.GET("/auctions/:auction_id", NewBiddingHandler(mockService).GetAuctionHandler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auctions/"+tc.auctionID, nil))

			require.Equal(t, tc.expectedStatus, w.Code)
			resp := decodeBody(t, w)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.expectedStatus == http.StatusOK {
				data := resp["data"].(map[string]any)
				highest := data["highestBid"].(map[string]any)
				require.Equal(t, "X", highest["bidderId"])
			}
		})
	}
}
