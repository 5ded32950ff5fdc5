package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrEmptyBasket is returned when a basket with no tokens is supplied
	// where a live basket is required.
	ErrEmptyBasket = errors.New("basket has no tokens")

	// ErrDivisionByZero is returned by fixed-point helpers on a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrAmountOverflow is returned when an intermediate product exceeds 256 bits.
	ErrAmountOverflow = errors.New("amount arithmetic overflow")
)

// MismatchedLengthsError is returned when parallel slices differ in length.
type MismatchedLengthsError struct {
	Left  int
	Right int
}

func (e *MismatchedLengthsError) Error() string {
	return fmt.Sprintf("mismatched lengths: %d vs %d", e.Left, e.Right)
}

// DuplicateTokenError is returned when a basket token list repeats an identifier.
type DuplicateTokenError struct {
	Token common.Address
}

func (e *DuplicateTokenError) Error() string {
	return fmt.Sprintf("duplicate token in basket: %s", e.Token)
}
