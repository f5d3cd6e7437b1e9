package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/splitsig/solwallet/musig"
	"github.com/splitsig/solwallet/rpc"
	"github.com/splitsig/solwallet/store"
	"github.com/splitsig/solwallet/wallet"
	"github.com/splitsig/solwallet/wire"
)

// errorBody is the JSON envelope for every failure response. Kind
// classifies the failure so clients can distinguish a malformed request
// from a protocol violation from a chain outage.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps an error to its HTTP status and failure kind.
//
//	decode    400  malformed wire message or request field
//	key       400  key string that is not a valid key
//	protocol  422  well-formed input that violates the signing protocol
//	auth      401  bad or missing credentials
//	conflict  409  signup with a taken email
//	external  502  chain or upstream API failure
func writeError(c *gin.Context, err error) {
	var decodeErr *wire.DecodeError
	var rpcErr *rpc.Error

	switch {
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "decode"})
	case errors.Is(err, wallet.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "key"})
	case errors.Is(err, wallet.ErrInvalidBlockhash):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "decode"})
	case errors.Is(err, wallet.ErrNonceReused),
		errors.Is(err, musig.ErrNoKeys),
		errors.Is(err, musig.ErrDuplicateKey),
		errors.Is(err, musig.ErrKeyNotInSet),
		errors.Is(err, musig.ErrMismatchedMessages),
		errors.Is(err, musig.ErrInvalidSignature):
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Kind: "protocol"})
	case errors.Is(err, store.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error(), Kind: "auth"})
	case errors.Is(err, store.ErrEmailTaken):
		c.JSON(http.StatusConflict, errorBody{Error: err.Error(), Kind: "conflict"})
	case errors.As(err, &rpcErr):
		c.JSON(http.StatusBadGateway, errorBody{Error: err.Error(), Kind: "external"})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error(), Kind: "internal"})
	}
}

// badRequest reports a request body that failed JSON binding.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "decode"})
}
