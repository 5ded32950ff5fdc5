package custodian

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/types"
)

// ProposeQuantitiesAdjustment creates a Created-state proposal to exchange
// fixed absolute amounts against the current basket's token list. Any caller
// may propose. Returns the new length of the proposal sequence.
func (m *Manager) ProposeQuantitiesAdjustment(caller common.Address, amountsIn, amountsOut []*uint256.Int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	basket := m.basket()
	if basket == nil {
		return 0, ErrNoBasket
	}
	if len(amountsIn) != len(amountsOut) {
		return 0, &types.MismatchedLengthsError{Left: len(amountsIn), Right: len(amountsOut)}
	}
	if len(amountsIn) != basket.Size() {
		return 0, &types.MismatchedLengthsError{Left: len(amountsIn), Right: basket.Size()}
	}

	p := &Proposal{
		ID:        uint64(len(m.proposals)),
		Proposer:  caller,
		Kind:      types.KindQuantityAdjustment,
		State:     types.ProposalStateCreated,
		CreatedAt: m.now(),
		Quantities: &QuantityPayload{
			Tokens:     basket.Tokens(),
			AmountsIn:  copyAmounts(amountsIn),
			AmountsOut: copyAmounts(amountsOut),
		},
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return m.appendProposal(p), nil
}

// ProposeNewBasket creates a Created-state proposal carrying a fully
// materialized target basket. Any caller may propose. Returns the new length
// of the proposal sequence.
func (m *Manager) ProposeNewBasket(caller common.Address, tokens []common.Address, backingRates []*uint256.Int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	decimals, err := m.ledger.Decimals()
	if err != nil {
		return 0, err
	}
	basket, err := types.NewBasket(tokens, backingRates, decimals)
	if err != nil {
		return 0, err
	}

	p := &Proposal{
		ID:        uint64(len(m.proposals)),
		Proposer:  caller,
		Kind:      types.KindBasketSwap,
		State:     types.ProposalStateCreated,
		CreatedAt: m.now(),
		Swap:      &BasketSwapPayload{Basket: basket},
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return m.appendProposal(p), nil
}

// AcceptProposal moves a proposal to Accepted and starts its delay timer.
// Operator only.
func (m *Manager) AcceptProposal(caller common.Address, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.proposal(id)
	if err != nil {
		return err
	}
	if err := m.authorize(caller, types.NewRoleSet(types.RoleOperator), p); err != nil {
		return err
	}
	if err := p.accept(m.now(), m.delay); err != nil {
		return err
	}

	m.persistProposal(p)
	m.log.Infof("proposal %d accepted, eligible at %s", p.ID, p.EligibleAt)

	return nil
}

// CancelProposal moves a proposal to Cancelled. Allowed for the proposer,
// operator or owner, from Created or Accepted only.
func (m *Manager) CancelProposal(caller common.Address, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.proposal(id)
	if err != nil {
		return err
	}
	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner, types.RoleOperator, types.RoleProposer), p); err != nil {
		return err
	}
	if err := p.cancel(); err != nil {
		return err
	}

	m.persistProposal(p)
	m.log.Infof("proposal %d cancelled by %s", p.ID, caller)

	return nil
}

// ExecuteProposal settles an accepted proposal once its delay has elapsed.
// Any caller may execute; the collateral moved in comes from the proposer,
// not the caller, and the payout goes to the proposer. Completing a basket
// swap repoints the active basket before the collateralization re-check.
func (m *Manager) ExecuteProposal(caller common.Address, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.proposal(id)
	if err != nil {
		return err
	}

	supply, err := m.ledger.TotalSupply()
	if err != nil {
		return err
	}
	res, err := p.resolve(m.now(), supply, m.vault)
	if err != nil {
		return err
	}

	ledgers, err := m.checkCollateral(res.tokens, res.amountsIn, p.Proposer)
	if err != nil {
		return err
	}

	// Verify the vault can cover every payout before pulling anything from
	// the proposer, so a failed settlement cannot strand the in-amounts in
	// the vault. The payout runs after the pulls, so each token's in-amount
	// counts toward its available balance.
	for i, token := range res.tokens {
		held, berr := m.vault.Balance(token)
		if berr != nil {
			return berr
		}
		available, overflow := new(uint256.Int).AddOverflow(held, res.amountsIn[i])
		if overflow {
			return types.ErrAmountOverflow
		}
		if available.Cmp(res.amountsOut[i]) < 0 {
			return &InsufficientCollateralError{Token: token, Holder: m.vault.Address(), Need: res.amountsOut[i], Have: available, Reason: "vault balance"}
		}
	}

	for i, ledger := range ledgers {
		if res.amountsIn[i].IsZero() {
			continue
		}
		if err := ledger.TransferFrom(m.addr, p.Proposer, m.vault.Address(), res.amountsIn[i]); err != nil {
			return err
		}
	}
	if err := m.vault.BatchWithdrawTo(res.tokens, res.amountsOut, p.Proposer); err != nil {
		return err
	}

	if res.basket != nil {
		m.installBasket(res.basket)
	}
	p.State = types.ProposalStateCompleted

	m.assertFullCollateralization()

	m.persistProposal(p)
	m.log.Infof("proposal %d executed by %s", p.ID, caller)

	return nil
}

// ClearProposals drops the entire proposal registry and resets the id
// sequence to zero. Owner only. Identifiers of cleared proposals are
// permanently orphaned; this is an administrative escape hatch.
func (m *Manager) ClearProposals(caller common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}

	m.proposals = nil
	if m.rec != nil {
		if err := m.rec.Reset(); err != nil {
			m.log.Warnf("failed to reset proposal store: %v", err)
		}
	}
	m.log.Infof("proposal registry cleared by %s", caller)

	return nil
}

// ProposalCount returns the length of the proposal sequence.
func (m *Manager) ProposalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.proposals)
}

// Proposal returns a copy of the proposal with the given id.
func (m *Manager) Proposal(id uint64) (Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.proposal(id)
	if err != nil {
		return Proposal{}, err
	}

	return *p, nil
}

func (m *Manager) proposal(id uint64) (*Proposal, error) {
	if id >= uint64(len(m.proposals)) {
		return nil, NewProposalNotFoundError(id)
	}

	return m.proposals[id], nil
}

func (m *Manager) appendProposal(p *Proposal) uint64 {
	m.proposals = append(m.proposals, p)
	m.persistProposal(p)
	m.log.Infof("proposal %d created by %s (%s)", p.ID, p.Proposer, p.Kind)

	return uint64(len(m.proposals))
}

func (m *Manager) persistProposal(p *Proposal) {
	if m.rec == nil {
		return
	}
	if err := m.rec.SaveProposal(p); err != nil {
		m.log.Warnf("failed to persist proposal %d: %v", p.ID, err)
	}
}

func copyAmounts(in []*uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(in))
	for i, a := range in {
		if a == nil {
			out[i] = uint256.NewInt(0)
			continue
		}
		out[i] = new(uint256.Int).Set(a)
	}

	return out
}
