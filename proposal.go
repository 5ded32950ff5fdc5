// Package custodian implements the issuance/redemption engine and the
// governance proposal state machine for a basket-backed stable-value token.
package custodian

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/sdk"
	"github.com/stabletoken/custodian/types"
)

// Proposal is a single governance item describing a pending basket change.
// It carries exactly one payload, discriminated by Kind: a quantity
// adjustment against the basket current at creation time, or a full basket
// swap whose amounts are resolved at execution time.
type Proposal struct {
	ID         uint64              `json:"id"`
	Proposer   common.Address      `json:"proposer"`
	Kind       types.ProposalKind  `json:"kind" validate:"required,oneof=QuantityAdjustment BasketSwap"`
	State      types.ProposalState `json:"state" validate:"required,oneof=Created Accepted Cancelled Completed"`
	CreatedAt  time.Time           `json:"createdAt"`
	EligibleAt time.Time           `json:"eligibleAt,omitzero"`

	Quantities *QuantityPayload   `json:"quantities,omitempty"`
	Swap       *BasketSwapPayload `json:"basketSwap,omitempty"`
}

// QuantityPayload holds fixed absolute amounts to exchange, parallel to the
// token list of the basket at proposal-creation time.
type QuantityPayload struct {
	Tokens     []common.Address `json:"tokens" validate:"required,min=1,unique"`
	AmountsIn  []*uint256.Int   `json:"amountsIn" validate:"required"`
	AmountsOut []*uint256.Int   `json:"amountsOut" validate:"required"`
}

// BasketSwapPayload holds a fully specified replacement basket.
type BasketSwapPayload struct {
	Basket *types.Basket `json:"basket" validate:"required"`
}

// NewProposalFromReader decodes and validates a proposal from JSON.
func NewProposalFromReader(r io.Reader) (*Proposal, error) {
	var p Proposal
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// WriteProposal encodes the proposal as indented JSON.
func WriteProposal(w io.Writer, p *Proposal) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(p)
}

// Validate checks the proposal's structural invariants: exactly one payload
// matching its kind, and pairwise-equal quantity array lengths.
func (p *Proposal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	switch p.Kind {
	case types.KindQuantityAdjustment:
		if p.Quantities == nil || p.Swap != nil {
			return NewPayloadMismatchError(p.ID, p.Kind)
		}
		if len(p.Quantities.AmountsIn) != len(p.Quantities.Tokens) {
			return &types.MismatchedLengthsError{Left: len(p.Quantities.Tokens), Right: len(p.Quantities.AmountsIn)}
		}
		if len(p.Quantities.AmountsOut) != len(p.Quantities.Tokens) {
			return &types.MismatchedLengthsError{Left: len(p.Quantities.Tokens), Right: len(p.Quantities.AmountsOut)}
		}
	case types.KindBasketSwap:
		if p.Swap == nil || p.Quantities != nil {
			return NewPayloadMismatchError(p.ID, p.Kind)
		}
	}

	return nil
}

// accept moves the proposal from Created to Accepted and stamps the
// eligibility timestamp at now + delay.
func (p *Proposal) accept(now time.Time, delay time.Duration) error {
	if p.State != types.ProposalStateCreated {
		return NewInvalidTransitionError(p.ID, p.State, types.ProposalStateAccepted)
	}

	p.State = types.ProposalStateAccepted
	p.EligibleAt = now.Add(delay)

	return nil
}

// cancel moves the proposal to Cancelled from Created or Accepted.
func (p *Proposal) cancel() error {
	if p.State.Terminal() {
		return NewInvalidTransitionError(p.ID, p.State, types.ProposalStateCancelled)
	}

	p.State = types.ProposalStateCancelled

	return nil
}

// resolution is the concrete exchange a proposal settles to at execution
// time: per-token amounts the proposer owes the vault and vice versa, plus
// the replacement basket for swap proposals (nil otherwise).
type resolution struct {
	tokens     []common.Address
	amountsIn  []*uint256.Int
	amountsOut []*uint256.Int
	basket     *types.Basket
}

// resolve checks execution eligibility and settles the payload into concrete
// amounts against the current supply and vault holdings. The proposal's
// state is not changed here; completion is the orchestrator's final step.
func (p *Proposal) resolve(now time.Time, supply *uint256.Int, vault sdk.Vault) (resolution, error) {
	if p.State != types.ProposalStateAccepted {
		return resolution{}, NewInvalidTransitionError(p.ID, p.State, types.ProposalStateCompleted)
	}
	if !now.After(p.EligibleAt) {
		return resolution{}, NewProposalNotReadyError(p.ID, p.EligibleAt)
	}

	switch p.Kind {
	case types.KindQuantityAdjustment:
		return p.resolveQuantities(), nil
	case types.KindBasketSwap:
		return p.resolveSwap(supply, vault)
	}

	return resolution{}, NewPayloadMismatchError(p.ID, p.Kind)
}

// resolveQuantities returns the payload's fixed amounts as-is. The active
// basket is kept: its rates are not recomputed from the exchanged amounts,
// even when the exchange moves the vault away from the rate-ideal holdings.
func (p *Proposal) resolveQuantities() resolution {
	return resolution{
		tokens:     p.Quantities.Tokens,
		amountsIn:  p.Quantities.AmountsIn,
		amountsOut: p.Quantities.AmountsOut,
	}
}

// resolveSwap computes, for each token of the target basket, the difference
// between the amount the new rates require at the current supply and the
// vault's present holding, signed by direction.
func (p *Proposal) resolveSwap(supply *uint256.Int, vault sdk.Vault) (resolution, error) {
	basket := p.Swap.Basket
	required, err := basket.QuantitiesRequired(supply)
	if err != nil {
		return resolution{}, err
	}

	tokens := basket.Tokens()
	res := resolution{
		tokens:     tokens,
		amountsIn:  make([]*uint256.Int, len(tokens)),
		amountsOut: make([]*uint256.Int, len(tokens)),
		basket:     basket,
	}
	for i, token := range tokens {
		held, err := vault.Balance(token)
		if err != nil {
			return resolution{}, err
		}

		res.amountsIn[i] = uint256.NewInt(0)
		res.amountsOut[i] = uint256.NewInt(0)
		switch required[i].Cmp(held) {
		case 1:
			res.amountsIn[i] = new(uint256.Int).Sub(required[i], held)
		case -1:
			res.amountsOut[i] = new(uint256.Int).Sub(held, required[i])
		}
	}

	return res, nil
}
