package memledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/types"
)

// Vault is a custodial holding account over a registry of in-memory ledgers.
type Vault struct {
	addr     common.Address
	registry *Registry
}

// NewVault creates a vault holding balances at addr on the given registry.
func NewVault(addr common.Address, registry *Registry) *Vault {
	return &Vault{addr: addr, registry: registry}
}

// Address returns the vault's holding address.
func (v *Vault) Address() common.Address {
	return v.addr
}

// Balance returns the vault's balance of the given token.
func (v *Vault) Balance(token common.Address) (*uint256.Int, error) {
	ledger, ok := v.registry.Ledger(token)
	if !ok {
		return nil, NewUnknownTokenError(token)
	}

	return ledger.BalanceOf(v.addr)
}

// BatchWithdrawTo pays the given amounts to the recipient, atomically across
// the batch: every balance is verified before any transfer is made.
func (v *Vault) BatchWithdrawTo(tokens []common.Address, amounts []*uint256.Int, recipient common.Address) error {
	if len(tokens) != len(amounts) {
		return &types.MismatchedLengthsError{Left: len(tokens), Right: len(amounts)}
	}

	ledgers := make([]*Token, len(tokens))
	for i, token := range tokens {
		ledger, ok := v.registry.Ledger(token)
		if !ok {
			return NewUnknownTokenError(token)
		}
		bal, err := ledger.BalanceOf(v.addr)
		if err != nil {
			return err
		}
		if bal.Cmp(amounts[i]) < 0 {
			return NewInsufficientFundsError(ledger.Symbol(), v.addr, amounts[i], bal)
		}
		ledgers[i] = ledger
	}

	for i, ledger := range ledgers {
		if amounts[i].IsZero() {
			continue
		}
		if err := ledger.Transfer(v.addr, recipient, amounts[i]); err != nil {
			return err
		}
	}

	return nil
}
