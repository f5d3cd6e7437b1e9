package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const userIDKey = "solwallet/user-id"

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// issueToken signs a JWT for an authenticated user.
func (s *Server) issueToken(userID uint64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Email: email,
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// authRequired gates a route on a valid Bearer token.
func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			errorBody{Error: "missing bearer token", Kind: "auth"})
		return
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			errorBody{Error: "invalid token", Kind: "auth"})
		return
	}

	c.Set(userIDKey, parsed.Claims.(*claims).Subject)
	c.Next()
}
