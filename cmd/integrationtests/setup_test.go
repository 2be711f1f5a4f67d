package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bidding "live-auction/internal/biddingService"
	model "live-auction/internal/models"
	"live-auction/internal/peer"
	"live-auction/internal/repository"
	"live-auction/internal/room"
	"live-auction/internal/server"
	handler "live-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const eventTimeout = 3 * time.Second

// TestEnv is a coordinator wired the way main wires it, minus NATS
type TestEnv struct {
	Service *bidding.BiddingService
	Hub     *room.Hub
	Router  *gin.Engine
}

// SetupTestEnv initializes the router with an in-memory registry for integration testing.
func SetupTestEnv(defaults ...model.Defaults) *TestEnv {
	gin.SetMode(gin.TestMode)

	var opts []bidding.Option
	if len(defaults) > 0 {
		opts = append(opts, bidding.WithDefaults(defaults[0]))
	}

	hub := room.NewHub()
	service := bidding.NewBiddingService(repository.NewMemoryRepo(), hub, opts...)
	router := server.SetupRouter(service, hub, handler.DefaultSessionConfig())
	return &TestEnv{Service: service, Hub: hub, Router: router}
}

// StartServer serves env over a real listener and returns the websocket URL
func StartServer(t *testing.T, env *TestEnv) string {
	t.Helper()
	srv := httptest.NewServer(env.Router)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// Connect dials a peer and waits for the state reply to its join
func Connect(t *testing.T, url, auctionID, userID string, purse *int64) *peer.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	c, err := peer.Dial(ctx, url, peer.Options{AuctionID: auctionID, UserID: userID, Purse: purse})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	AwaitEvent(t, c, room.EventState)
	return c
}

// AwaitEvent reads c's events until one named event arrives
func AwaitEvent(t *testing.T, c *peer.Client, event string) peer.Message {
	t.Helper()

	deadline := time.After(eventTimeout)
	for {
		select {
		case msg, ok := <-c.Events():
			require.True(t, ok, "connection closed while waiting for %s", event)
			if msg.Event == event {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

func Decode[T any](t *testing.T, msg peer.Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func Purse(v int64) *int64 { return &v }
