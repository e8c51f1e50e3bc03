package mining

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_MintAndBalance(t *testing.T) {
	coal := NewToken("Coal", "COAL", deployer, false)

	require.NoError(t, coal.Mint(deployer, alice, big.NewInt(100)))
	assert.Equal(t, big.NewInt(100), coal.BalanceOf(alice))

	// non-privileged mint
	assert.ErrorIs(t, coal.Mint(bob, alice, big.NewInt(100)), ErrUnauthorized)
	assert.Equal(t, big.NewInt(100), coal.BalanceOf(alice))

	// a granted transferrer may mint, a revoked one may not
	require.NoError(t, coal.Access().Grant(deployer, RoleTransferrer, bob))
	require.NoError(t, coal.Mint(bob, alice, big.NewInt(100)))
	assert.Equal(t, big.NewInt(200), coal.BalanceOf(alice))

	require.NoError(t, coal.Access().Revoke(deployer, RoleTransferrer, bob))
	assert.ErrorIs(t, coal.Mint(bob, alice, big.NewInt(100)), ErrUnauthorized)
	assert.Equal(t, big.NewInt(200), coal.BalanceOf(alice))

	// only owners mutate roles
	assert.ErrorIs(t, coal.Access().Grant(bob, RoleTransferrer, bob), ErrUnauthorized)
}

func TestToken_TransferAndAllowance(t *testing.T) {
	coal := NewToken("Coal", "COAL", deployer, false)
	require.NoError(t, coal.Mint(deployer, alice, big.NewInt(100)))

	require.NoError(t, coal.Transfer(alice, bob, big.NewInt(40)))
	assert.Equal(t, big.NewInt(60), coal.BalanceOf(alice))
	assert.Equal(t, big.NewInt(40), coal.BalanceOf(bob))

	assert.ErrorIs(t, coal.Transfer(alice, bob, big.NewInt(61)), ErrInsufficientFunds)

	// transferFrom needs an allowance and consumes it
	assert.ErrorIs(t, coal.TransferFrom(bob, alice, bob, big.NewInt(10)), ErrInsufficientFunds)
	require.NoError(t, coal.Approve(alice, bob, big.NewInt(10)))
	assert.Equal(t, big.NewInt(10), coal.Allowance(alice, bob))

	require.NoError(t, coal.TransferFrom(bob, alice, bob, big.NewInt(10)))
	assert.Zero(t, coal.Allowance(alice, bob).Sign())
	assert.Equal(t, big.NewInt(50), coal.BalanceOf(alice))

	assert.ErrorIs(t, coal.TransferFrom(bob, alice, bob, big.NewInt(1)), ErrInsufficientFunds)
}

// Energy-token semantics: nobody outside the transferrer allowlist moves,
// mints or burns funds.
func TestToken_RestrictedMode(t *testing.T) {
	energy := NewToken("Energy", "NRG", deployer, true)
	require.NoError(t, energy.Mint(deployer, alice, big.NewInt(100)))

	assert.ErrorIs(t, energy.Transfer(alice, bob, big.NewInt(10)), ErrUnauthorized)
	assert.ErrorIs(t, energy.TransferFrom(alice, alice, bob, big.NewInt(10)), ErrUnauthorized)
	assert.ErrorIs(t, energy.Burn(alice, alice, big.NewInt(10)), ErrUnauthorized)
	assert.Equal(t, big.NewInt(100), energy.BalanceOf(alice))

	// even with an allowance in place
	require.NoError(t, energy.Approve(alice, bob, big.NewInt(10)))
	assert.ErrorIs(t, energy.TransferFrom(bob, alice, bob, big.NewInt(10)), ErrUnauthorized)

	require.NoError(t, energy.Access().Grant(deployer, RoleTransferrer, "0xgame"))
	require.NoError(t, energy.TransferFrom("0xgame", alice, bob, big.NewInt(10)))
	assert.Equal(t, big.NewInt(10), energy.BalanceOf(bob))

	require.NoError(t, energy.Burn("0xgame", bob, big.NewInt(10)))
	assert.Zero(t, energy.BalanceOf(bob).Sign())
}

func TestToken_RejectsNegativeAmounts(t *testing.T) {
	coal := NewToken("Coal", "COAL", deployer, false)
	assert.ErrorIs(t, coal.Mint(deployer, alice, big.NewInt(-1)), ErrInvalidAmount)
	assert.ErrorIs(t, coal.Transfer(alice, bob, nil), ErrInvalidAmount)
	assert.ErrorIs(t, coal.Approve(alice, bob, big.NewInt(-1)), ErrInvalidAmount)
}
