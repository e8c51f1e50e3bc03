package handlers

import (
	"math/big"
	"net/http"
	"strconv"

	"mine_empire/internal/domain"

	"github.com/gin-gonic/gin"
)

// Admin endpoints pass the caller's address straight into the engine,
// which rejects anyone without the owner role on the target component.

type addTypeRequest struct {
	TypeID        uint64   `json:"type_id"`
	Name          string   `json:"name"`
	MintPrice     string   `json:"mint_price"`
	CurrencyToken string   `json:"currency_token"` // empty = native currency
	MaxLevel      int      `json:"max_level"`
	MiningPower   []string `json:"mining_power"`
	Capacity      []string `json:"capacity"`
	UpgradeCost   []string `json:"upgrade_cost"`
}

func parseAmounts(in []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(in))
	for i, s := range in {
		n, err := parseAmount(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (h *Handler) AddType(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addTypeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	price, err := parseAmount(req.MintPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mint price"})
		return
	}
	power, err := parseAmounts(req.MiningPower)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mining power table"})
		return
	}
	capacity, err := parseAmounts(req.Capacity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capacity table"})
		return
	}
	upgradeCost, err := parseAmounts(req.UpgradeCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upgrade cost table"})
		return
	}

	t := &domain.DrillType{
		TypeID:            req.TypeID,
		Name:              req.Name,
		MintPrice:         price,
		UseNativeCurrency: req.CurrencyToken == "",
		CurrencyToken:     req.CurrencyToken,
		MaxLevel:          req.MaxLevel,
		MiningPower:       power,
		Capacity:          capacity,
		UpgradeCost:       upgradeCost,
	}
	if err := h.Service.AddDrillType(c.Request.Context(), address, t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

type addMintConfigRequest struct {
	ConfigID      uint64 `json:"config_id"`
	TypeID        uint64 `json:"type_id"`
	StartingLevel int    `json:"starting_level"`
	Price         string `json:"price"`
	CurrencyToken string `json:"currency_token"`
	MaxSupply     uint64 `json:"max_supply"`
}

func (h *Handler) AddMintConfig(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addMintConfigRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	price, err := parseAmount(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	cfg := &domain.MintConfig{
		ConfigID:      req.ConfigID,
		TypeID:        req.TypeID,
		StartingLevel: req.StartingLevel,
		Price:         price,
		CurrencyToken: req.CurrencyToken,
		MaxSupply:     req.MaxSupply,
	}
	if err := h.Service.AddMintConfig(c.Request.Context(), address, cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

func (h *Handler) UpdateMintPrice(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type id"})
		return
	}

	var req struct {
		Price string `json:"price"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	price, err := parseAmount(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	if err := h.Service.UpdateMintPrice(c.Request.Context(), address, typeID, price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateUpgradeRequirement(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type id"})
		return
	}

	var req struct {
		Level  int    `json:"level"`
		Amount string `json:"amount"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	if err := h.Service.UpdateUpgradeRequirement(c.Request.Context(), address, typeID, req.Level, amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateMaxDrills(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Max uint64 `json:"max"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.UpdateMaxDrills(c.Request.Context(), address, req.Max); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateSupplyCap(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type id"})
		return
	}

	var req struct {
		Level int    `json:"level"`
		Cap   uint64 `json:"cap"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.UpdateSupplyCap(c.Request.Context(), address, typeID, req.Level, req.Cap); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateMintConfigSupply(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	configID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config id"})
		return
	}

	var req struct {
		MaxSupply uint64 `json:"max_supply"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.UpdateMintConfigSupply(c.Request.Context(), address, configID, req.MaxSupply); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) SetConvertRate(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Symbol string `json:"symbol"`
		Rate   string `json:"rate"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	rate, err := parseAmount(req.Rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate"})
		return
	}

	if err := h.Service.SetConvertRate(c.Request.Context(), address, req.Symbol, rate); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) SetBaseProduction(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Base string `json:"base"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	base, err := parseAmount(req.Base)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base production"})
		return
	}

	if err := h.Service.SetBaseProduction(c.Request.Context(), address, c.Param("name"), base); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateTreasury(c *gin.Context) {
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Payout string `json:"payout"`
	}
	if err := c.BindJSON(&req); err != nil || req.Payout == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Service.UpdateTreasuryAddress(c.Request.Context(), address, req.Payout); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Fund mints native currency to an address, a faucet for dev deployments
// where no real chain backs the native balance. Disabled outside dev mode;
// within it, the ledger's owner role still restricts callers to admins.
func (h *Handler) Fund(c *gin.Context) {
	if !h.DevMode {
		c.JSON(http.StatusForbidden, gin.H{"error": "faucet disabled"})
		return
	}
	address, ok := getAddress(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := c.BindJSON(&req); err != nil || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	if err := h.Service.FundNative(c.Request.Context(), address, req.To, amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"funded": true})
}
