package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's full position: balances, drills and mine state.
func (h *Handler) Me(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":  address,
		"balances": h.Service.Balances(address),
		"drills":   h.Service.DrillsOf(address),
		"mines":    h.Service.MinesInfo(address),
	})
}

// MyBalances returns just the caller's token balances.
func (h *Handler) MyBalances(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": h.Service.Balances(address)})
}

// MyDrills returns the caller's drills, staked ones included.
func (h *Handler) MyDrills(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drills": h.Service.DrillsOf(address)})
}
