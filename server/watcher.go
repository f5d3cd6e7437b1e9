package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// watchChain polls the RPC node's health on the configured interval and
// logs state transitions. It is purely observational: signing requests
// are never blocked on watcher state, since a stale health sample must
// not veto a transfer the node would accept.
func (s *Server) watchChain(ctx context.Context) {
	interval := s.cfg.WatcherInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := s.chain.Health(ctx)
		switch {
		case err != nil && healthy:
			healthy = false
			s.log.Warn("chain node unhealthy",
				zap.String("endpoint", s.chain.Endpoint()), zap.Error(err))
		case err == nil && !healthy:
			healthy = true
			s.log.Info("chain node recovered",
				zap.String("endpoint", s.chain.Endpoint()))
		}
	}
}
