package memledger_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stabletoken/custodian/sdk/memledger"
)

var vaultAddr = common.HexToAddress("0x0000000000000000000000000000000000000a12")

func TestVault_Balance(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addrA, tokenA := registry.Register("TOKA", 6)
	vault := memledger.NewVault(vaultAddr, registry)

	assert.Equal(t, vaultAddr, vault.Address())

	bal, err := vault.Balance(addrA)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	require.NoError(t, tokenA.Mint(vaultAddr, uint256.NewInt(500)))
	bal, err = vault.Balance(addrA)
	require.NoError(t, err)
	assert.EqualValues(t, 500, bal.Uint64())

	_, err = vault.Balance(common.HexToAddress("0xdead"))
	var unknownErr *memledger.UnknownTokenError
	require.ErrorAs(t, err, &unknownErr)
}

func TestVault_BatchWithdrawTo(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addrA, tokenA := registry.Register("TOKA", 6)
	addrB, tokenB := registry.Register("TOKB", 6)
	vault := memledger.NewVault(vaultAddr, registry)

	require.NoError(t, tokenA.Mint(vaultAddr, uint256.NewInt(500)))
	require.NoError(t, tokenB.Mint(vaultAddr, uint256.NewInt(300)))

	err := vault.BatchWithdrawTo(
		[]common.Address{addrA, addrB},
		[]*uint256.Int{uint256.NewInt(200), uint256.NewInt(300)},
		receiver,
	)
	require.NoError(t, err)

	balA, err := tokenA.BalanceOf(receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 200, balA.Uint64())
	balB, err := tokenB.BalanceOf(receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 300, balB.Uint64())
}

func TestVault_BatchWithdrawToIsAllOrNothing(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addrA, tokenA := registry.Register("TOKA", 6)
	addrB, tokenB := registry.Register("TOKB", 6)
	vault := memledger.NewVault(vaultAddr, registry)

	require.NoError(t, tokenA.Mint(vaultAddr, uint256.NewInt(500)))
	require.NoError(t, tokenB.Mint(vaultAddr, uint256.NewInt(100)))

	// TokenB cannot be covered, so TokenA must not move either.
	err := vault.BatchWithdrawTo(
		[]common.Address{addrA, addrB},
		[]*uint256.Int{uint256.NewInt(200), uint256.NewInt(300)},
		receiver,
	)
	var fundsErr *memledger.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, "TOKB", fundsErr.Symbol)

	balA, err := tokenA.BalanceOf(receiver)
	require.NoError(t, err)
	assert.True(t, balA.IsZero())
	balA, err = tokenA.BalanceOf(vaultAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 500, balA.Uint64())
}

func TestVault_BatchWithdrawToValidation(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addrA, tokenA := registry.Register("TOKA", 6)
	vault := memledger.NewVault(vaultAddr, registry)
	require.NoError(t, tokenA.Mint(vaultAddr, uint256.NewInt(500)))

	// Mismatched slice lengths.
	err := vault.BatchWithdrawTo([]common.Address{addrA}, nil, receiver)
	require.ErrorContains(t, err, "mismatched lengths")

	// Unknown token in the batch.
	err = vault.BatchWithdrawTo(
		[]common.Address{addrA, common.HexToAddress("0xdead")},
		[]*uint256.Int{uint256.NewInt(1), uint256.NewInt(1)},
		receiver,
	)
	var unknownErr *memledger.UnknownTokenError
	require.ErrorAs(t, err, &unknownErr)

	// Zero amounts are skipped, not transferred.
	require.NoError(t, vault.BatchWithdrawTo(
		[]common.Address{addrA},
		[]*uint256.Int{uint256.NewInt(0)},
		receiver,
	))
	bal, err := tokenA.BalanceOf(vaultAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 500, bal.Uint64())
}
