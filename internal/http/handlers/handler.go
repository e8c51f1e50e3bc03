package handlers

import (
	"errors"
	"math/big"
	"net/http"

	"mine_empire/internal/mining"
	"mine_empire/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *service.MiningService
	DevMode bool
}

func NewHandler(svc *service.MiningService, devMode bool) *Handler {
	return &Handler{Service: svc, DevMode: devMode}
}

// getAddress reads the authenticated address set by the JWT middleware.
func getAddress(c *gin.Context) (string, bool) {
	v, ok := c.Get("address")
	if !ok {
		return "", false
	}
	addr, ok := v.(string)
	return addr, ok && addr != ""
}

// parseAmount parses a decimal-string amount, rejecting negatives.
func parseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, mining.ErrInvalidAmount
	}
	return n, nil
}

// respondError maps engine sentinel errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mining.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, mining.ErrUnauthorized),
		errors.Is(err, mining.ErrNotOwner),
		errors.Is(err, mining.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, mining.ErrAlreadyExists),
		errors.Is(err, mining.ErrAlreadyStaked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, mining.ErrNotStaked),
		errors.Is(err, mining.ErrInsufficientPayment),
		errors.Is(err, mining.ErrInsufficientFunds),
		errors.Is(err, mining.ErrMaxLevelReached),
		errors.Is(err, mining.ErrSupplyExhausted),
		errors.Is(err, mining.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
