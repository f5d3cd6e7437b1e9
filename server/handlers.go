package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/splitsig/solwallet/solana"
	"github.com/splitsig/solwallet/store"
	"github.com/splitsig/solwallet/swap"
	"github.com/splitsig/solwallet/wallet"
)

// transferFields is the common request shape naming a transfer. It maps
// one-to-one onto wallet.TransferParams.
type transferFields struct {
	Amount      float64 `json:"amount"`
	Destination string  `json:"destination"`
	Memo        string  `json:"memo"`
	Blockhash   string  `json:"blockhash"`
}

func (f transferFields) params() wallet.TransferParams {
	return wallet.TransferParams{
		Amount:      f.Amount,
		Destination: f.Destination,
		Memo:        f.Memo,
		Blockhash:   f.Blockhash,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.chain.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBalance(c *gin.Context) {
	pk, err := solana.ParsePubkey(c.Param("pubkey"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "key"})
		return
	}
	lamports, err := s.chain.Balance(c.Request.Context(), pk)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lamports": lamports,
		"sol":      solana.LamportsToSol(lamports),
	})
}

func (s *Server) handleGenerateKeypair(c *gin.Context) {
	kp, err := s.wallet.GenerateKeypair()
	if err != nil {
		writeError(c, err)
		return
	}
	// The secret key appears in this response and nowhere else: not in
	// logs, not in the store.
	c.JSON(http.StatusOK, gin.H{
		"pubkey": kp.Pubkey,
		"secret": kp.Secret,
	})
}

func (s *Server) handleAggregateKeys(c *gin.Context) {
	var req struct {
		Pubkeys    []string `json:"pubkeys"`
		PrimaryKey string   `json:"primary_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	aggregated, err := s.wallet.AggregateKeys(req.Pubkeys, req.PrimaryKey)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aggregated": aggregated})
}

func (s *Server) handleRound1Commit(c *gin.Context) {
	var req struct {
		SecretKey string `json:"secret_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := s.wallet.Round1Commit(req.SecretKey)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commitment":    out.Commitment,
		"secret_nonces": out.SecretNonces,
	})
}

func (s *Server) handleRound2PartialSign(c *gin.Context) {
	var req struct {
		transferFields
		SecretKey       string   `json:"secret_key"`
		Participants    []string `json:"participants"`
		PeerCommitments []string `json:"peer_commitments"`
		SecretNonces    string   `json:"secret_nonces"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	partial, err := s.wallet.Round2PartialSign(
		req.SecretKey, req.Participants, req.PeerCommitments, req.SecretNonces, req.params())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partial_signature": partial})
}

func (s *Server) handleCombineAndBroadcast(c *gin.Context) {
	var req struct {
		transferFields
		Participants []string `json:"participants"`
		Partials     []string `json:"partials"`
		RPCEndpoint  string   `json:"rpc_endpoint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	signature, err := s.wallet.CombineAndBroadcast(
		c.Request.Context(), s.chainFor(req.RPCEndpoint), req.Participants, req.Partials, req.params())
	if err != nil {
		writeError(c, err)
		return
	}

	s.recordTransfer(signature, req.transferFields, req.Participants)
	c.JSON(http.StatusOK, gin.H{"signature": signature})
}

func (s *Server) handleSendSingle(c *gin.Context) {
	var req struct {
		transferFields
		SecretKey   string `json:"secret_key"`
		RPCEndpoint string `json:"rpc_endpoint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	signature, err := s.wallet.SendSingle(
		c.Request.Context(), s.chainFor(req.RPCEndpoint), req.SecretKey, req.params())
	if err != nil {
		writeError(c, err)
		return
	}
	s.recordTransfer(signature, req.transferFields, nil)
	c.JSON(http.StatusOK, gin.H{"signature": signature})
}

// recordTransfer writes the audit entry for a broadcast transaction.
// Audit failures are logged, not returned: the transfer already
// happened on chain.
func (s *Server) recordTransfer(signature string, f transferFields, participants []string) {
	if s.store == nil {
		return
	}
	from := ""
	if len(participants) > 0 {
		if agg, err := s.wallet.AggregateKeys(participants, ""); err == nil {
			from = agg
		}
	}
	_, err := s.store.RecordTransfer(store.Transfer{
		Signature:   signature,
		From:        from,
		Destination: f.Destination,
		Lamports:    solana.SolToLamports(f.Amount),
		Memo:        f.Memo,
	})
	if err != nil {
		s.log.Error("record transfer", zap.Error(err), zap.String("signature", signature))
	}
}

func (s *Server) handleSignup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := s.store.CreateUser(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (s *Server) handleSignin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleQuote(c *gin.Context) {
	var req struct {
		InputMint   string `json:"input_mint" binding:"required"`
		OutputMint  string `json:"output_mint" binding:"required"`
		Amount      uint64 `json:"amount" binding:"required"`
		SlippageBps int    `json:"slippage_bps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quote, err := s.swaps.Quote(c.Request.Context(), swap.QuoteRequest{
		InputMint:   req.InputMint,
		OutputMint:  req.OutputMint,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody{Error: err.Error(), Kind: "external"})
		return
	}
	c.Data(http.StatusOK, "application/json", quote)
}

func (s *Server) handleSwap(c *gin.Context) {
	var req struct {
		UserPubkey string              `json:"user_pubkey" binding:"required"`
		Quote      jsoniter.RawMessage `json:"quote" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.swaps.Swap(c.Request.Context(), req.UserPubkey, req.Quote)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody{Error: err.Error(), Kind: "external"})
		return
	}
	c.Data(http.StatusOK, "application/json", resp)
}

func (s *Server) handleTransfers(c *gin.Context) {
	entries, err := s.store.Transfers(50)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": entries})
}
