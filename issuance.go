package custodian

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/sdk"
	"github.com/stabletoken/custodian/types"
)

// Issue accepts collateral from the caller in exchange for newly minted
// stable tokens. The per-token collateral owed is the basket requirement for
// the issued quantity, scaled up by the issuance spread. Every balance and
// allowance is verified before any transfer, so a rejection moves no tokens.
func (m *Manager) Issue(caller common.Address, quantity *uint256.Int) (types.IssuanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.issue(caller, quantity)
}

// IssueMax issues the largest quantity the caller's collateral balances and
// allowances can cover: the minimum over basket tokens of
// min(allowance, balance) * 10^decimals / backingRate. The computation
// ignores the spread, so the subsequent issue may still reject when a spread
// is set and the caller's funds are exactly at the bound.
func (m *Manager) IssueMax(caller common.Address) (types.IssuanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	basket := m.basket()
	if basket == nil {
		return types.IssuanceRecord{}, ErrNoBasket
	}

	scale := types.DecimalScale(basket.Decimals())

	var max *uint256.Int
	for i, token := range basket.Tokens() {
		rate := basket.BackingRateAt(i)
		if rate.IsZero() {
			return types.IssuanceRecord{}, NewZeroBackingRateError(token)
		}

		ledger, err := m.tokens.Token(token)
		if err != nil {
			return types.IssuanceRecord{}, err
		}
		balance, err := ledger.BalanceOf(caller)
		if err != nil {
			return types.IssuanceRecord{}, err
		}
		allowance, err := ledger.Allowance(caller, m.addr)
		if err != nil {
			return types.IssuanceRecord{}, err
		}

		available := types.MinAmount(allowance, balance)
		issuable, err := types.MulDiv(available, scale, rate)
		if err != nil {
			return types.IssuanceRecord{}, err
		}
		if max == nil || issuable.Cmp(max) < 0 {
			max = issuable
		}
	}

	return m.issue(caller, max)
}

func (m *Manager) issue(caller common.Address, quantity *uint256.Int) (types.IssuanceRecord, error) {
	if err := m.authorize(caller, types.NewRoleSet(types.RoleWhitelisted), nil); err != nil {
		return types.IssuanceRecord{}, err
	}
	if m.paused {
		return types.IssuanceRecord{}, ErrPaused
	}
	if quantity == nil || quantity.IsZero() {
		return types.IssuanceRecord{}, ErrZeroQuantity
	}
	basket := m.basket()
	if basket == nil {
		return types.IssuanceRecord{}, ErrNoBasket
	}

	required, err := basket.QuantitiesRequired(quantity)
	if err != nil {
		return types.IssuanceRecord{}, err
	}
	for i := range required {
		required[i], err = types.ApplySpread(required[i], m.spreadBps)
		if err != nil {
			return types.IssuanceRecord{}, err
		}
	}

	tokens := basket.Tokens()
	ledgers, err := m.checkCollateral(tokens, required, caller)
	if err != nil {
		return types.IssuanceRecord{}, err
	}

	for i, ledger := range ledgers {
		if required[i].IsZero() {
			continue
		}
		if err := ledger.TransferFrom(m.addr, caller, m.vault.Address(), required[i]); err != nil {
			return types.IssuanceRecord{}, err
		}
	}

	if err := m.ledger.Mint(caller, quantity); err != nil {
		return types.IssuanceRecord{}, err
	}

	m.assertFullCollateralization()

	record := types.NewIssuanceRecord(caller, quantity, m.now())
	if m.rec != nil {
		if err := m.rec.SaveIssuance(record); err != nil {
			m.log.Warnf("failed to persist issuance %s: %v", record.ID, err)
		}
	}
	m.log.Infof("issued %s to %s", quantity, caller)

	return record, nil
}

// checkCollateral resolves each token's ledger and verifies the holder's
// balance and allowance cover the amounts before any transfer is attempted.
func (m *Manager) checkCollateral(tokens []common.Address, amounts []*uint256.Int, holder common.Address) ([]sdk.ERC20, error) {
	ledgers := make([]sdk.ERC20, len(tokens))
	for i, token := range tokens {
		ledger, err := m.tokens.Token(token)
		if err != nil {
			return nil, err
		}

		balance, err := ledger.BalanceOf(holder)
		if err != nil {
			return nil, err
		}
		if balance.Cmp(amounts[i]) < 0 {
			return nil, &InsufficientCollateralError{Token: token, Holder: holder, Need: amounts[i], Have: balance, Reason: "balance"}
		}

		allowance, err := ledger.Allowance(holder, m.addr)
		if err != nil {
			return nil, err
		}
		if allowance.Cmp(amounts[i]) < 0 {
			return nil, &InsufficientCollateralError{Token: token, Holder: holder, Need: amounts[i], Have: allowance, Reason: "allowance"}
		}

		ledgers[i] = ledger
	}

	return ledgers, nil
}
