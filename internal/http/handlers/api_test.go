package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"mine_empire/internal/config"
	httpserver "mine_empire/internal/http"
	"mine_empire/internal/http/handlers"
	"mine_empire/internal/mining"
	"mine_empire/internal/service"
	"mine_empire/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router *gin.Engine
	svc    *service.MiningService
	clock  *mining.ManualClock
}

func newAPIFixture(t *testing.T) *apiFixture {
	return newAPIFixtureMode(t, true)
}

func newAPIFixtureMode(t *testing.T, devMode bool) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	base, _ := new(big.Int).SetString("10000000000000000", 10)
	cfg := &config.Config{
		DeployerAddress:  "0xdeployer",
		TreasuryAddress:  "0xpayout",
		AdminAddresses:   []string{"0xadmin"},
		BaseProduction:   base,
		APIRateLimit:     1000,
		APIRateWindow:    60,
		ActionRateLimit:  1000,
		ActionRateWindow: 60,
	}

	clock := mining.NewManualClock(1_000_000)
	world := service.NewWorld(cfg, clock)
	hub := ws.NewHub()
	go hub.Run()

	svc := service.NewMiningService(world, nil, hub)
	require.NoError(t, svc.Restore(context.Background()))

	r := gin.New()
	h := handlers.NewHandler(svc, devMode)
	httpserver.RegisterRoutes(r, nil, h, hub, cfg, "test")

	return &apiFixture{router: r, svc: svc, clock: clock}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func (f *apiFixture) login(t *testing.T, address string) string {
	t.Helper()
	rec, body := f.do(t, http.MethodPost, "/api/v1/auth", "", gin.H{"address": address})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_AuthValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/auth", "", gin.H{"address": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/auth", "", gin.H{"address": "0xalice"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/stake", "", gin.H{"drill_id": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_MintStakeCollectFlow(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.login(t, "0xalice")
	admin := f.login(t, "0xadmin")

	// admin funds the player with native currency
	rec, _ := f.do(t, http.MethodPost, "/api/v1/admin/fund", admin,
		gin.H{"to": "0xalice", "amount": "10000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// non-admin funding is rejected by the ledger's role table
	rec, _ = f.do(t, http.MethodPost, "/api/v1/admin/fund", alice,
		gin.H{"to": "0xalice", "amount": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// underpaying the mint price fails
	rec, _ = f.do(t, http.MethodPost, "/api/v1/drills/mint", alice,
		gin.H{"type_id": 1, "payment": "1000000000000000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := f.do(t, http.MethodPost, "/api/v1/drills/mint", alice,
		gin.H{"type_id": 1, "payment": "2000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	drill := body["drill"].(map[string]any)
	drillID := uint64(drill["drill_id"].(float64))
	require.Equal(t, uint64(1), drillID)

	// staking before approval fails
	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/stake", alice, gin.H{"drill_id": drillID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/drills/1/approve", alice, gin.H{"mine": "coal"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/stake", alice, gin.H{"drill_id": drillID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	f.clock.Advance(500)

	rec, body = f.do(t, http.MethodGet, "/api/v1/mines/coal/accumulated", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5000000000000000000", body["accumulated"])

	rec, body = f.do(t, http.MethodPost, "/api/v1/mines/coal/collect", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5000000000000000000", body["collected"])

	// the coal shows up in the caller's balances
	rec, body = f.do(t, http.MethodGet, "/api/v1/me/balances", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := false
	for _, b := range body["balances"].([]any) {
		bal := b.(map[string]any)
		if bal["symbol"] == "COAL" {
			found = true
			assert.Equal(t, "5000000000000000000", bal["balance"])
		}
	}
	assert.True(t, found)

	rec, body = f.do(t, http.MethodPost, "/api/v1/mines/coal/unstake", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", body["collected"])

	// unstaking twice fails
	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/unstake", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ConvertFlow(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.login(t, "0xalice")
	admin := f.login(t, "0xadmin")

	rec, body := f.do(t, http.MethodGet, "/api/v1/convert/rates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rates := body["rates"].(map[string]any)
	assert.Equal(t, "4", rates["COAL"])

	// mine some coal first
	rec, _ = f.do(t, http.MethodPost, "/api/v1/admin/fund", admin,
		gin.H{"to": "0xalice", "amount": "2000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/api/v1/drills/mint", alice,
		gin.H{"type_id": 1, "payment": "2000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/api/v1/drills/1/approve", alice, gin.H{"mine": "coal"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/stake", alice, gin.H{"drill_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	f.clock.Advance(400)
	rec, _ = f.do(t, http.MethodPost, "/api/v1/mines/coal/collect", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// conversion needs an allowance on the converter
	rec, _ = f.do(t, http.MethodPost, "/api/v1/convert", alice,
		gin.H{"symbol": "COAL", "amount": "4000000000000000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/v1/tokens/approve", alice,
		gin.H{"symbol": "COAL", "component": "converter", "amount": "4000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = f.do(t, http.MethodPost, "/api/v1/convert", alice,
		gin.H{"symbol": "COAL", "amount": "4000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000000000000000000", body["received"])
}

func TestAPI_CatalogViews(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/catalog/types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	types := body["types"].([]any)
	assert.Len(t, types, 2)

	rec, body = f.do(t, http.MethodGet, "/api/v1/catalog/types/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	typ := body["type"].(map[string]any)
	assert.Equal(t, "Basic Drill", typ["name"])
	assert.Equal(t, "2000000000000000000", typ["mint_price"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/catalog/types/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = f.do(t, http.MethodGet, "/api/v1/mines", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mines := body["mines"].([]any)
	assert.Len(t, mines, 2)
}

func TestAPI_FaucetOnlyInDevMode(t *testing.T) {
	f := newAPIFixtureMode(t, false)
	admin := f.login(t, "0xadmin")

	// even admins cannot mint native currency outside dev mode
	rec, _ := f.do(t, http.MethodPost, "/api/v1/admin/fund", admin,
		gin.H{"to": "0xalice", "amount": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the rest of the admin surface stays available
	rec, _ = f.do(t, http.MethodPatch, "/api/v1/admin/convert-rate", admin,
		gin.H{"symbol": "COAL", "rate": "8"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_AdminEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.login(t, "0xalice")
	admin := f.login(t, "0xadmin")

	// non-admin is rejected by the engine's role table
	rec, _ := f.do(t, http.MethodPatch, "/api/v1/admin/types/1/price", alice,
		gin.H{"price": "3000000000000000000"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodPatch, "/api/v1/admin/types/1/price", admin,
		gin.H{"price": "3000000000000000000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := f.do(t, http.MethodGet, "/api/v1/catalog/types/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	typ := body["type"].(map[string]any)
	assert.Equal(t, "3000000000000000000", typ["mint_price"])

	rec, _ = f.do(t, http.MethodPost, "/api/v1/admin/types", admin, gin.H{
		"type_id":      7,
		"name":         "Obsidian Drill",
		"mint_price":   "5000000000000000000",
		"max_level":    1,
		"mining_power": []string{"150", "165"},
		"capacity":     []string{"6000000000000000000", "12000000000000000000"},
		"upgrade_cost": []string{"25000000000000000000"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// duplicate type id conflicts
	rec, _ = f.do(t, http.MethodPost, "/api/v1/admin/types", admin, gin.H{
		"type_id":      7,
		"name":         "Obsidian Drill",
		"mint_price":   "5000000000000000000",
		"max_level":    1,
		"mining_power": []string{"150", "165"},
		"capacity":     []string{"6000000000000000000", "12000000000000000000"},
		"upgrade_cost": []string{"25000000000000000000"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = f.do(t, http.MethodPatch, "/api/v1/admin/treasury", admin, gin.H{"payout": "0xvault"})
	require.Equal(t, http.StatusOK, rec.Code)
}
