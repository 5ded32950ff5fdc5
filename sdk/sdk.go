package sdk

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ERC20 is the surface of a fungible collateral-token ledger as seen by the
// custodian. Ledger calls have no ambient sender, so methods that depend on
// an allowance take the spender explicitly.
type ERC20 interface {
	BalanceOf(owner common.Address) (*uint256.Int, error)
	Allowance(owner, spender common.Address) (*uint256.Int, error)
	TransferFrom(spender, from, to common.Address, amount *uint256.Int) error
}

// TokenLedger is the stable token's balance/allowance ledger.
type TokenLedger interface {
	ERC20

	Mint(to common.Address, amount *uint256.Int) error
	BurnFrom(spender, from common.Address, amount *uint256.Int) error
	TotalSupply() (*uint256.Int, error)
	Decimals() (uint8, error)
}

// TokenResolver resolves a collateral token identifier to its ledger.
type TokenResolver interface {
	Token(token common.Address) (ERC20, error)
}

// Vault is the custodial holding account that lines up collateral balances.
// BatchWithdrawTo is atomic across the batch: either every transfer succeeds
// or the whole batch is rejected.
type Vault interface {
	Address() common.Address
	Balance(token common.Address) (*uint256.Int, error)
	BatchWithdrawTo(tokens []common.Address, amounts []*uint256.Int, recipient common.Address) error
}
