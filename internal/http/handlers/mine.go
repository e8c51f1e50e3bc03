package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListMines returns every mine's state for the caller (or the anonymous
// view when unauthenticated).
func (h *Handler) ListMines(c *gin.Context) {
	address, _ := getAddress(c)
	c.JSON(http.StatusOK, gin.H{"mines": h.Service.MinesInfo(address)})
}

// GetMine returns one mine's state for the caller.
func (h *Handler) GetMine(c *gin.Context) {
	address, _ := getAddress(c)
	v, err := h.Service.MineInfo(address, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mine": v})
}

type stakeRequest struct {
	DrillID uint64 `json:"drill_id"`
}

// Stake locks the caller's drill into the mine.
func (h *Handler) Stake(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req stakeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.Stake(c.Request.Context(), address, c.Param("name"), req.DrillID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staked": true})
}

// Collect pays out the accumulated resource and restarts accrual.
func (h *Handler) Collect(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	amount, err := h.Service.Collect(c.Request.Context(), address, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected": amount.String()})
}

// Unstake settles the reward and returns the drill to the caller.
func (h *Handler) Unstake(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	amount, err := h.Service.Unstake(c.Request.Context(), address, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected": amount.String()})
}

// UpgradeUser raises the caller's account level in the mine.
func (h *Handler) UpgradeUser(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	level, err := h.Service.UpgradeUser(c.Request.Context(), address, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level})
}

// Accumulated returns the caller's pending reward without settling it.
func (h *Handler) Accumulated(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	amount, err := h.Service.Accumulated(address, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accumulated": amount.String()})
}

// Events returns the caller's recent journal entries.
func (h *Handler) Events(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.Service.Events(c.Request.Context(), address, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
