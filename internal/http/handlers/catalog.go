package handlers

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type drillTypeView struct {
	TypeID      uint64   `json:"type_id"`
	Name        string   `json:"name"`
	MintPrice   string   `json:"mint_price"`
	MaxLevel    int      `json:"max_level"`
	MiningPower []string `json:"mining_power"`
	Capacity    []string `json:"capacity"`
	UpgradeCost []string `json:"upgrade_cost"`
}

func amountsToStrings(in []*big.Int) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = v.String()
	}
	return out
}

// ListTypes returns the mintable drill catalog.
func (h *Handler) ListTypes(c *gin.Context) {
	types := h.Service.World().Catalog.Types()
	out := make([]drillTypeView, 0, len(types))
	for _, t := range types {
		out = append(out, drillTypeView{
			TypeID:      t.TypeID,
			Name:        t.Name,
			MintPrice:   t.MintPrice.String(),
			MaxLevel:    t.MaxLevel,
			MiningPower: amountsToStrings(t.MiningPower),
			Capacity:    amountsToStrings(t.Capacity),
			UpgradeCost: amountsToStrings(t.UpgradeCost),
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": out})
}

// GetType returns one catalog entry with its remaining per-level supply.
func (h *Handler) GetType(c *gin.Context) {
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type id"})
		return
	}

	t, err := h.Service.World().Catalog.GetType(typeID)
	if err != nil {
		respondError(c, err)
		return
	}

	supply := make([]gin.H, 0, t.MaxLevel+1)
	for level := 0; level <= t.MaxLevel; level++ {
		available, capped, _ := h.Service.World().Catalog.DrillsAvailableAtLevel(typeID, level)
		entry := gin.H{"level": level, "capped": capped}
		if capped {
			entry["available"] = available
		}
		supply = append(supply, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"type": drillTypeView{
			TypeID:      t.TypeID,
			Name:        t.Name,
			MintPrice:   t.MintPrice.String(),
			MaxLevel:    t.MaxLevel,
			MiningPower: amountsToStrings(t.MiningPower),
			Capacity:    amountsToStrings(t.Capacity),
			UpgradeCost: amountsToStrings(t.UpgradeCost),
		},
		"supply": supply,
	})
}

type mintRequest struct {
	TypeID  uint64 `json:"type_id"`
	Payment string `json:"payment"`
}

// Mint buys a drill with an attached native payment.
func (h *Handler) Mint(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req mintRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	payment, err := parseAmount(req.Payment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment"})
		return
	}

	d, err := h.Service.Mint(c.Request.Context(), address, req.TypeID, payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drill": d})
}

type altMintRequest struct {
	ConfigID uint64 `json:"config_id"`
}

// AlternativeMint buys a drill through a token-priced mint config.
func (h *Handler) AlternativeMint(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req altMintRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	d, err := h.Service.AlternativeMint(c.Request.Context(), address, req.ConfigID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drill": d})
}

// UpgradeDrill raises one of the caller's drills a level.
func (h *Handler) UpgradeDrill(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	drillID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drill id"})
		return
	}

	d, err := h.Service.UpgradeDrill(c.Request.Context(), address, drillID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drill": d})
}

type approveDrillRequest struct {
	Mine string `json:"mine"`
}

// ApproveDrill lets a mine take custody of the caller's drill on stake.
func (h *Handler) ApproveDrill(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	drillID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drill id"})
		return
	}

	var req approveDrillRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.ApproveForMine(c.Request.Context(), address, req.Mine, drillID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}
