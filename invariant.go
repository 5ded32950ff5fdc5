package custodian

import (
	"fmt"
)

// assertFullCollateralization recomputes the basket requirement against the
// current supply and panics if the vault holds less of any basket token than
// is owed. Called at the end of every state-changing path. A violation here
// means an accounting bug or an underfunded exchange slipped past the
// preconditions, so it is fatal and must never be recovered.
func (m *Manager) assertFullCollateralization() {
	basket := m.basket()
	if basket == nil {
		return
	}

	supply, err := m.ledger.TotalSupply()
	if err != nil {
		panic(fmt.Errorf("collateralization check: reading total supply: %w", err))
	}
	required, err := basket.QuantitiesRequired(supply)
	if err != nil {
		panic(fmt.Errorf("collateralization check: %w", err))
	}

	for i, token := range basket.Tokens() {
		held, err := m.vault.Balance(token)
		if err != nil {
			panic(fmt.Errorf("collateralization check: reading vault balance of %s: %w", token, err))
		}
		if held.Cmp(required[i]) < 0 {
			panic(&UndercollateralizedError{Token: token, Required: required[i], Held: held})
		}
	}
}

// FullyCollateralized reports whether the vault's holding of every basket
// token covers the basket requirement at the current supply. Read-only; a
// custodian with no basket installed is trivially collateralized.
func (m *Manager) FullyCollateralized() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	basket := m.basket()
	if basket == nil {
		return true, nil
	}

	supply, err := m.ledger.TotalSupply()
	if err != nil {
		return false, err
	}
	required, err := basket.QuantitiesRequired(supply)
	if err != nil {
		return false, err
	}

	for i, token := range basket.Tokens() {
		held, err := m.vault.Balance(token)
		if err != nil {
			return false, err
		}
		if held.Cmp(required[i]) < 0 {
			return false, nil
		}
	}

	return true, nil
}
