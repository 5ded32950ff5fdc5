package custodian

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/types"
)

// Redeem burns stable tokens from the caller and pays out the basket
// requirement for the burned quantity from the vault. The caller must have
// approved the custodian to burn at least the quantity. No spread is charged
// on redemption.
func (m *Manager) Redeem(caller common.Address, quantity *uint256.Int) (types.RedemptionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.redeem(caller, quantity)
}

// RedeemMax redeems the caller's full approved burn allowance.
func (m *Manager) RedeemMax(caller common.Address) (types.RedemptionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowance, err := m.ledger.Allowance(caller, m.addr)
	if err != nil {
		return types.RedemptionRecord{}, err
	}

	return m.redeem(caller, allowance)
}

func (m *Manager) redeem(caller common.Address, quantity *uint256.Int) (types.RedemptionRecord, error) {
	if err := m.authorize(caller, types.NewRoleSet(types.RoleWhitelisted), nil); err != nil {
		return types.RedemptionRecord{}, err
	}
	if m.paused {
		return types.RedemptionRecord{}, ErrPaused
	}
	if quantity == nil || quantity.IsZero() {
		return types.RedemptionRecord{}, ErrZeroQuantity
	}
	basket := m.basket()
	if basket == nil {
		return types.RedemptionRecord{}, ErrNoBasket
	}

	owed, err := basket.QuantitiesRequired(quantity)
	if err != nil {
		return types.RedemptionRecord{}, err
	}

	// Verify the vault can cover the payout before burning, so a failed
	// withdrawal cannot leave the burn applied on its own.
	tokens := basket.Tokens()
	for i, token := range tokens {
		held, berr := m.vault.Balance(token)
		if berr != nil {
			return types.RedemptionRecord{}, berr
		}
		if held.Cmp(owed[i]) < 0 {
			return types.RedemptionRecord{}, &InsufficientCollateralError{Token: token, Holder: m.vault.Address(), Need: owed[i], Have: held, Reason: "vault balance"}
		}
	}

	if err := m.ledger.BurnFrom(m.addr, caller, quantity); err != nil {
		return types.RedemptionRecord{}, err
	}
	if err := m.vault.BatchWithdrawTo(tokens, owed, caller); err != nil {
		return types.RedemptionRecord{}, err
	}

	m.assertFullCollateralization()

	record := types.NewRedemptionRecord(caller, quantity, m.now())
	if m.rec != nil {
		if err := m.rec.SaveRedemption(record); err != nil {
			m.log.Warnf("failed to persist redemption %s: %v", record.ID, err)
		}
	}
	m.log.Infof("redeemed %s from %s", quantity, caller)

	return record, nil
}
