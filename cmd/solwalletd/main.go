// Command solwalletd runs the split-key wallet HTTP service.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/splitsig/solwallet/rpc"
	"github.com/splitsig/solwallet/server"
	"github.com/splitsig/solwallet/store"
	"github.com/splitsig/solwallet/swap"
	"github.com/splitsig/solwallet/wallet"
)

func main() {
	configDir := flag.String("config", ".", "directory containing solwallet.yml")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(*configDir, log); err != nil {
		log.Fatal("daemon exited", zap.Error(err))
	}
}

func run(configDir string, log *zap.Logger) error {
	cfg, err := server.LoadConfig(configDir)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	chain := rpc.New(cfg.RPCEndpoint)
	w := wallet.New()
	swaps := swap.New(cfg.JupiterBaseURL)

	srv := server.New(cfg, log, w, chain, st, swaps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting",
		zap.String("listen", cfg.ListenAddr),
		zap.String("rpc", chain.Endpoint()),
		zap.String("db", cfg.DBPath),
	)

	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
