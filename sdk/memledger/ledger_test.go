package memledger_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stabletoken/custodian/sdk/memledger"
)

var (
	owner    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	spender  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	receiver = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func TestToken_MintAndTransfer(t *testing.T) {
	t.Parallel()

	token := memledger.NewToken("TOKA", 6)
	require.NoError(t, token.Mint(owner, uint256.NewInt(100)))

	supply, err := token.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, 100, supply.Uint64())

	require.NoError(t, token.Transfer(owner, receiver, uint256.NewInt(30)))

	bal, err := token.BalanceOf(owner)
	require.NoError(t, err)
	assert.EqualValues(t, 70, bal.Uint64())

	bal, err = token.BalanceOf(receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 30, bal.Uint64())
}

func TestToken_TransferInsufficientFunds(t *testing.T) {
	t.Parallel()

	token := memledger.NewToken("TOKA", 6)
	require.NoError(t, token.Mint(owner, uint256.NewInt(10)))

	err := token.Transfer(owner, receiver, uint256.NewInt(11))
	var fundsErr *memledger.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, owner, fundsErr.Holder)
	assert.EqualValues(t, 11, fundsErr.Need.Uint64())
	assert.EqualValues(t, 10, fundsErr.Have.Uint64())
}

func TestToken_TransferFromConsumesAllowance(t *testing.T) {
	t.Parallel()

	token := memledger.NewToken("TOKA", 6)
	require.NoError(t, token.Mint(owner, uint256.NewInt(100)))
	require.NoError(t, token.Approve(owner, spender, uint256.NewInt(60)))

	require.NoError(t, token.TransferFrom(spender, owner, receiver, uint256.NewInt(40)))

	remaining, err := token.Allowance(owner, spender)
	require.NoError(t, err)
	assert.EqualValues(t, 20, remaining.Uint64())

	// The next pull exceeds what is left.
	err = token.TransferFrom(spender, owner, receiver, uint256.NewInt(21))
	var allowErr *memledger.InsufficientAllowanceError
	require.ErrorAs(t, err, &allowErr)

	bal, err := token.BalanceOf(receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 40, bal.Uint64())
}

func TestToken_TransferFromWithoutApproval(t *testing.T) {
	t.Parallel()

	token := memledger.NewToken("TOKA", 6)
	require.NoError(t, token.Mint(owner, uint256.NewInt(100)))

	err := token.TransferFrom(spender, owner, receiver, uint256.NewInt(1))
	var allowErr *memledger.InsufficientAllowanceError
	require.ErrorAs(t, err, &allowErr)

	// Zero-amount pulls pass even with no allowance entry at all.
	require.NoError(t, token.TransferFrom(spender, owner, receiver, uint256.NewInt(0)))
}

func TestToken_BurnFrom(t *testing.T) {
	t.Parallel()

	token := memledger.NewToken("STBL", 6)
	require.NoError(t, token.Mint(owner, uint256.NewInt(100)))
	require.NoError(t, token.Approve(owner, spender, uint256.NewInt(100)))

	require.NoError(t, token.BurnFrom(spender, owner, uint256.NewInt(60)))

	supply, err := token.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, 40, supply.Uint64())

	bal, err := token.BalanceOf(owner)
	require.NoError(t, err)
	assert.EqualValues(t, 40, bal.Uint64())

	// Burning more than the balance fails even when the allowance covers it.
	require.NoError(t, token.Transfer(owner, receiver, uint256.NewInt(30)))
	err = token.BurnFrom(spender, owner, uint256.NewInt(40))
	var fundsErr *memledger.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addrA, tokenA := registry.Register("TOKA", 6)
	addrB, tokenB := registry.Register("TOKB", 18)

	assert.NotEqual(t, addrA, addrB)
	assert.Equal(t, "TOKA", tokenA.Symbol())
	assert.Equal(t, "TOKB", tokenB.Symbol())

	resolved, err := registry.Token(addrA)
	require.NoError(t, err)
	assert.Same(t, tokenA, resolved)

	_, err = registry.Token(common.HexToAddress("0xdead"))
	var unknownErr *memledger.UnknownTokenError
	require.ErrorAs(t, err, &unknownErr)

	ledger, ok := registry.Ledger(addrB)
	require.True(t, ok)
	assert.Same(t, tokenB, ledger)
}

func TestRegistry_RegisterAt(t *testing.T) {
	t.Parallel()

	registry := memledger.NewRegistry()
	addr := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	token := memledger.NewToken("STBL", 6)
	registry.RegisterAt(addr, token)

	resolved, err := registry.Token(addr)
	require.NoError(t, err)
	assert.Same(t, token, resolved)
}
