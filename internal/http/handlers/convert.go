package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConvertRates returns the resource-to-CosmicCash exchange rates.
func (h *Handler) ConvertRates(c *gin.Context) {
	rates := gin.H{}
	for symbol := range h.Service.World().Resources {
		if rate, err := h.Service.World().Converter.Rate(symbol); err == nil {
			rates[symbol] = rate.String()
		}
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

type convertRequest struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

// Convert exchanges a mined resource for CosmicCash.
func (h *Handler) Convert(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req convertRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	out, err := h.Service.Convert(c.Request.Context(), address, req.Symbol, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": out.String()})
}

type approveRequest struct {
	Symbol    string `json:"symbol"`
	Component string `json:"component"`
	Amount    string `json:"amount"`
}

// ApproveSpending sets a token allowance for a paying component
// ("catalog", "converter" or a mine name).
func (h *Handler) ApproveSpending(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req approveRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	if err := h.Service.ApproveSpending(c.Request.Context(), address, req.Symbol, req.Component, amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}
