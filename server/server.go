package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/splitsig/solwallet/rpc"
	"github.com/splitsig/solwallet/store"
	"github.com/splitsig/solwallet/swap"
	"github.com/splitsig/solwallet/wallet"
)

// Server is the HTTP surface of the wallet. Every signing endpoint is
// stateless: round-to-round state travels in request and response
// bodies, so any replica can serve any round.
type Server struct {
	cfg    *Config
	log    *zap.Logger
	wallet *wallet.Wallet
	chain  *rpc.Client
	store  *store.Store
	swaps  *swap.Client
	engine *gin.Engine
}

// New assembles the server and registers its routes.
func New(cfg *Config, log *zap.Logger, w *wallet.Wallet, chain *rpc.Client, st *store.Store, swaps *swap.Client) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		log:    log,
		wallet: w,
		chain:  chain,
		store:  st,
		swaps:  swaps,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger)
	s.routes()
	return s
}

// requestLogger logs method, path, and status for every request. Never
// the body: request bodies on this API carry key material.
func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/balance/:pubkey", s.handleBalance)

	s.engine.POST("/generate-keypair", s.handleGenerateKeypair)
	s.engine.POST("/aggregate-keys", s.handleAggregateKeys)
	s.engine.POST("/round1-commit", s.handleRound1Commit)
	s.engine.POST("/round2-partial-sign", s.handleRound2PartialSign)
	s.engine.POST("/combine-and-broadcast", s.handleCombineAndBroadcast)
	s.engine.POST("/send-single", s.handleSendSingle)

	s.engine.POST("/signup", s.handleSignup)
	s.engine.POST("/signin", s.handleSignin)

	authed := s.engine.Group("/", s.authRequired)
	authed.POST("/quote", s.handleQuote)
	authed.POST("/swap", s.handleSwap)
	authed.GET("/transfers", s.handleTransfers)
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// chainFor returns the RPC client for a request. A request may name its
// own endpoint (e.g. to send on devnet while the daemon defaults to
// mainnet); anything else uses the configured client.
func (s *Server) chainFor(endpoint string) *rpc.Client {
	if endpoint == "" || endpoint == s.chain.Endpoint() {
		return s.chain
	}
	return rpc.New(endpoint)
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// health watcher runs alongside for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		s.watchChain(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-watcherDone
	return err
}
