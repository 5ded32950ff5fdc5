package custodian

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/stabletoken/custodian/types"
)

var (
	// ErrZeroQuantity is returned when an issuance or redemption quantity is zero.
	ErrZeroQuantity = errors.New("quantity must be greater than zero")

	// ErrPaused is returned when issuance or redemption is attempted while paused.
	ErrPaused = errors.New("custodian is paused")

	// ErrNotPaused is returned when Pause is called on an unpaused custodian.
	ErrNotPaused = errors.New("custodian is not paused")

	// ErrNoBasket is returned when an operation needs a live basket and none
	// has been installed yet.
	ErrNoBasket = errors.New("no basket is installed")

	// ErrAlreadyRestored is returned when RestoreState is called on a
	// manager that already holds baskets or proposals.
	ErrAlreadyRestored = errors.New("manager already holds state")
)

// UnauthorizedError is returned when a caller holds none of the roles an
// entry point requires.
type UnauthorizedError struct {
	Caller   common.Address
	Required types.RoleSet
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(caller common.Address, required types.RoleSet) *UnauthorizedError {
	return &UnauthorizedError{Caller: caller, Required: required}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("caller %s is not authorized: requires %s", e.Caller, e.Required)
}

// ProposalNotFoundError is returned when a proposal id is not in the registry.
type ProposalNotFoundError struct {
	ID uint64
}

// NewProposalNotFoundError creates a new ProposalNotFoundError.
func NewProposalNotFoundError(id uint64) *ProposalNotFoundError {
	return &ProposalNotFoundError{ID: id}
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("proposal %d not found", e.ID)
}

// InvalidTransitionError is returned when a proposal state transition is not
// permitted from the proposal's current state.
type InvalidTransitionError struct {
	ID   uint64
	From types.ProposalState
	To   types.ProposalState
}

// NewInvalidTransitionError creates a new InvalidTransitionError.
func NewInvalidTransitionError(id uint64, from, to types.ProposalState) *InvalidTransitionError {
	return &InvalidTransitionError{ID: id, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("proposal %d cannot move from %s to %s", e.ID, e.From, e.To)
}

// ProposalNotReadyError is returned when execution is attempted before the
// proposal's eligibility timestamp.
type ProposalNotReadyError struct {
	ID         uint64
	EligibleAt time.Time
}

// NewProposalNotReadyError creates a new ProposalNotReadyError.
func NewProposalNotReadyError(id uint64, eligibleAt time.Time) *ProposalNotReadyError {
	return &ProposalNotReadyError{ID: id, EligibleAt: eligibleAt}
}

func (e *ProposalNotReadyError) Error() string {
	return fmt.Sprintf("proposal %d is not eligible for execution until %s", e.ID, e.EligibleAt.UTC().Format(time.RFC3339))
}

// InsufficientCollateralError is returned when a depositor's balance or
// allowance cannot cover a required collateral amount. The check runs before
// any transfer, so a rejection leaves no partial token movement.
type InsufficientCollateralError struct {
	Token  common.Address
	Holder common.Address
	Need   *uint256.Int
	Have   *uint256.Int
	Reason string
}

func (e *InsufficientCollateralError) Error() string {
	return fmt.Sprintf("insufficient %s for token %s from %s: need %s, have %s", e.Reason, e.Token, e.Holder, e.Need, e.Have)
}

// ZeroBackingRateError is returned by IssueMax when a basket token carries a
// zero backing rate, which would otherwise divide by zero.
type ZeroBackingRateError struct {
	Token common.Address
}

// NewZeroBackingRateError creates a new ZeroBackingRateError.
func NewZeroBackingRateError(token common.Address) *ZeroBackingRateError {
	return &ZeroBackingRateError{Token: token}
}

func (e *ZeroBackingRateError) Error() string {
	return fmt.Sprintf("token %s has a zero backing rate", e.Token)
}

// PayloadMismatchError is returned when a proposal's payload does not match
// its declared kind, or when neither payload is present.
type PayloadMismatchError struct {
	ID   uint64
	Kind types.ProposalKind
}

// NewPayloadMismatchError creates a new PayloadMismatchError.
func NewPayloadMismatchError(id uint64, kind types.ProposalKind) *PayloadMismatchError {
	return &PayloadMismatchError{ID: id, Kind: kind}
}

func (e *PayloadMismatchError) Error() string {
	return fmt.Sprintf("proposal %d payload does not match kind %s", e.ID, e.Kind)
}

// SpreadOutOfRangeError is returned when a spread above 100% is configured.
type SpreadOutOfRangeError struct {
	Bps uint64
}

func (e *SpreadOutOfRangeError) Error() string {
	return fmt.Sprintf("spread %d bps exceeds the %d bps maximum", e.Bps, types.BasisPoints)
}

// UndercollateralizedError is the panic value raised when the vault's holding
// of a basket token falls below the amount owed at the current supply. It is
// fatal: the condition signals an accounting bug and must never be handled.
type UndercollateralizedError struct {
	Token    common.Address
	Required *uint256.Int
	Held     *uint256.Int
}

func (e *UndercollateralizedError) Error() string {
	return fmt.Sprintf("undercollateralized: token %s requires %s, vault holds %s", e.Token, e.Required, e.Held)
}
