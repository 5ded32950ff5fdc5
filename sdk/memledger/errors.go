package memledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// InsufficientFundsError is returned when a holder's balance cannot cover a
// transfer or burn.
type InsufficientFundsError struct {
	Symbol string
	Holder common.Address
	Need   *uint256.Int
	Have   *uint256.Int
}

// NewInsufficientFundsError creates a new InsufficientFundsError.
func NewInsufficientFundsError(symbol string, holder common.Address, need, have *uint256.Int) *InsufficientFundsError {
	return &InsufficientFundsError{
		Symbol: symbol,
		Holder: holder,
		Need:   new(uint256.Int).Set(need),
		Have:   new(uint256.Int).Set(have),
	}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: insufficient funds for %s: need %s, have %s", e.Symbol, e.Holder, e.Need, e.Have)
}

// InsufficientAllowanceError is returned when a spender's allowance cannot
// cover a transfer or burn.
type InsufficientAllowanceError struct {
	Symbol  string
	Owner   common.Address
	Spender common.Address
	Need    *uint256.Int
	Have    *uint256.Int
}

// NewInsufficientAllowanceError creates a new InsufficientAllowanceError.
func NewInsufficientAllowanceError(symbol string, owner, spender common.Address, need, have *uint256.Int) *InsufficientAllowanceError {
	return &InsufficientAllowanceError{
		Symbol:  symbol,
		Owner:   owner,
		Spender: spender,
		Need:    new(uint256.Int).Set(need),
		Have:    new(uint256.Int).Set(have),
	}
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("%s: insufficient allowance from %s to %s: need %s, have %s", e.Symbol, e.Owner, e.Spender, e.Need, e.Have)
}

// UnknownTokenError is returned when a token identifier has no registered ledger.
type UnknownTokenError struct {
	Token common.Address
}

// NewUnknownTokenError creates a new UnknownTokenError.
func NewUnknownTokenError(token common.Address) *UnknownTokenError {
	return &UnknownTokenError{Token: token}
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("no ledger registered for token %s", e.Token)
}
