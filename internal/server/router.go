package server

import (
	"net/http"
	"time"

	handler "live-auction/services/bidding/handler"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/samber/lo"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.BiddingServiceInterface, rooms handler.RoomDirectory, session handler.SessionConfig) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(service)
	wsHandler := handler.NewWSHandler(service, rooms, session)

	router.GET("/health", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"time": time.Now().UTC()}, "ok")
	})

	auctions := router.Group("/auctions")
	{
		auctions.POST("", biddingHandler.ProvisionAuctionHandler)
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
	}

	ws := router.Group("/ws")
	{
		ws.GET("", wsHandler.ConnectHandler)
		ws.GET("/stats", wsHandler.StatsHandler)
	}

	return router
}

// NewHTTPServer wraps the router with CORS for the given origins
func NewHTTPServer(addr string, origins []string, router http.Handler) *http.Server {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// OriginChecker returns the websocket origin policy for origins. "*" allows all.
func OriginChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || lo.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(origins, origin)
	}
}
