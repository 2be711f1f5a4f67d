package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "live-auction/internal/biddingService"
	"live-auction/internal/config"
	"live-auction/internal/journal"
	model "live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/internal/room"
	"live-auction/internal/server"
	handler "live-auction/services/bidding/handler"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		utils.Warn("could not load .env file", map[string]any{"error": err.Error()})
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}

	if err := run(cfg); err != nil {
		utils.Fatal("server stopped with error", map[string]any{"error": err.Error()})
	}
}

// run wires the coordinator and serves until SIGINT or SIGTERM
func run(cfg config.Config) error {
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("unknown log level, keeping info", map[string]any{"level": cfg.LogLevel})
	}
	gin.SetMode(gin.ReleaseMode)

	repo := repository.NewMemoryRepo()
	hub := room.NewHub()

	opts := []bidding.Option{bidding.WithDefaults(cfg.Defaults)}
	if cfg.NATSURL != "" {
		jcfg := journal.DefaultConfig()
		jcfg.URL = cfg.NATSURL
		jcfg.SubjectPrefix = cfg.NATSSubjectPrefix
		j, err := journal.Connect(jcfg)
		if err != nil {
			return fmt.Errorf("event journal at %s: %w", cfg.NATSURL, err)
		}
		defer j.Close()
		opts = append(opts, bidding.WithJournal(j))
	}

	biddingSvc := bidding.NewBiddingService(repo, hub, opts...)

	if cfg.SeedFile != "" {
		if err := seedAuctions(biddingSvc, cfg.SeedFile); err != nil {
			return fmt.Errorf("seed auctions: %w", err)
		}
	}

	session := handler.SessionConfig{
		SendBuffer:     cfg.WebSocket.SendBuffer,
		WriteTimeout:   cfg.WebSocket.WriteTimeout,
		ReadTimeout:    cfg.WebSocket.ReadTimeout,
		PingInterval:   cfg.WebSocket.PingInterval,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		CheckOrigin:    server.OriginChecker(cfg.AllowedOrigins),
	}
	router := server.SetupRouter(biddingSvc, hub, session)
	srv := server.NewHTTPServer(cfg.Addr, cfg.AllowedOrigins, router)
	// Shutdown does not reach hijacked websocket connections
	srv.RegisterOnShutdown(hub.Shutdown)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{
			"addr":          cfg.Addr,
			"min_increment": cfg.Defaults.MinIncrement,
			"purse":         cfg.Defaults.StartingPurse,
			"journal":       cfg.NATSURL != "",
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.Info("shutting down auction server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedAuctions provisions the auctions listed in the seed file
func seedAuctions(svc *bidding.BiddingService, path string) error {
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}

	for _, a := range seed.Auctions {
		_, created, err := svc.Provision(a.ID, model.Defaults{
			MinIncrement:  a.MinIncrement,
			StartingPurse: a.StartingPurse,
		})
		if err != nil {
			return err
		}
		utils.Info("seeded auction", map[string]any{"auction_id": a.ID, "created": created})
	}
	return nil
}
