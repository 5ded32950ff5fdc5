package types //nolint:revive

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
)

// Basket is an immutable description of the collateral backing the stable
// token: an ordered set of collateral token identifiers and, for each, the
// amount owed per 10^decimals units of stable supply.
//
// Baskets are replaced wholesale when a basket-swap proposal completes; they
// are never mutated in place.
type Basket struct {
	tokens   []common.Address
	rates    []*uint256.Int
	decimals uint8
}

// basketJSON is the wire representation of a Basket.
type basketJSON struct {
	Tokens       []common.Address `json:"tokens" validate:"required,min=1,unique"`
	BackingRates []*uint256.Int   `json:"backingRates" validate:"required"`
	Decimals     uint8            `json:"decimals"`
}

// NewBasket creates a Basket from parallel token and backing-rate slices.
// The decimals argument is the stable token's fixed precision against which
// the rates are scaled.
func NewBasket(tokens []common.Address, rates []*uint256.Int, decimals uint8) (*Basket, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyBasket
	}
	if len(tokens) != len(rates) {
		return nil, &MismatchedLengthsError{Left: len(tokens), Right: len(rates)}
	}

	seen := make(map[common.Address]struct{}, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			return nil, &DuplicateTokenError{Token: token}
		}
		seen[token] = struct{}{}
	}

	b := &Basket{
		tokens:   make([]common.Address, len(tokens)),
		rates:    make([]*uint256.Int, len(rates)),
		decimals: decimals,
	}
	copy(b.tokens, tokens)
	for i, rate := range rates {
		if rate == nil {
			return nil, fmt.Errorf("backing rate for token %s is nil", tokens[i])
		}
		b.rates[i] = new(uint256.Int).Set(rate)
	}

	return b, nil
}

// Tokens returns a copy of the basket's ordered token list.
func (b *Basket) Tokens() []common.Address {
	out := make([]common.Address, len(b.tokens))
	copy(out, b.tokens)

	return out
}

// Size returns the number of tokens in the basket.
func (b *Basket) Size() int {
	return len(b.tokens)
}

// Decimals returns the stable-token precision the rates are scaled to.
func (b *Basket) Decimals() uint8 {
	return b.decimals
}

// BackingRateAt returns the backing rate of the token at index i.
func (b *Basket) BackingRateAt(i int) *uint256.Int {
	return new(uint256.Int).Set(b.rates[i])
}

// BackingRate returns the backing rate for the given token, and whether the
// token is part of the basket.
func (b *Basket) BackingRate(token common.Address) (*uint256.Int, bool) {
	for i, t := range b.tokens {
		if t == token {
			return new(uint256.Int).Set(b.rates[i]), true
		}
	}

	return nil, false
}

// Contains reports whether the token is part of the basket.
func (b *Basket) Contains(token common.Address) bool {
	_, ok := b.BackingRate(token)
	return ok
}

// QuantitiesRequired returns, per basket token and in basket order, the
// absolute collateral amount owed for the given total stable supply:
// rate * supply / 10^decimals, truncating.
func (b *Basket) QuantitiesRequired(supply *uint256.Int) ([]*uint256.Int, error) {
	scale := DecimalScale(b.decimals)

	out := make([]*uint256.Int, len(b.tokens))
	for i, rate := range b.rates {
		q, err := MulDiv(rate, supply, scale)
		if err != nil {
			return nil, fmt.Errorf("required quantity for token %s: %w", b.tokens[i], err)
		}
		out[i] = q
	}

	return out, nil
}

// MarshalJSON marshals the basket to JSON.
func (b *Basket) MarshalJSON() ([]byte, error) {
	return json.Marshal(basketJSON{
		Tokens:       b.Tokens(),
		BackingRates: b.rates,
		Decimals:     b.decimals,
	})
}

// UnmarshalJSON unmarshals and validates a basket from JSON.
func (b *Basket) UnmarshalJSON(data []byte) error {
	var raw basketJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	validate := validator.New()
	if err := validate.Struct(raw); err != nil {
		return err
	}

	nb, err := NewBasket(raw.Tokens, raw.BackingRates, raw.Decimals)
	if err != nil {
		return err
	}
	*b = *nb

	return nil
}
