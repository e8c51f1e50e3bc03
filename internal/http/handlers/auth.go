package handlers

import (
	"net/http"
	"regexp"

	"mine_empire/internal/service"

	"github.com/gin-gonic/gin"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-zA-Z_-]{1,64}$`)

type AuthRequest struct {
	Address string `json:"address"`
}

// Auth issues a session token for a wallet address. Ownership of the
// address is taken on trust; deployments that need proof front this with a
// gateway that verifies a wallet signature before forwarding.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !addressPattern.MatchString(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	if err := h.Service.RegisterAccount(c.Request.Context(), req.Address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register account"})
		return
	}

	token, err := service.GenerateJWT(req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"address": req.Address,
	})
}
