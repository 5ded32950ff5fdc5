// Package memledger is an in-process implementation of the custodian's
// collaborator interfaces: a registry of fungible-token ledgers and a vault
// bound to that registry. It backs the tests and the CLI simulation.
package memledger

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token is an in-memory fungible-token ledger with ERC20-style balance,
// allowance and mint/burn semantics.
type Token struct {
	mu         sync.Mutex
	symbol     string
	decimals   uint8
	supply     *uint256.Int
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
}

// NewToken creates an empty ledger for a token with the given symbol and
// decimal precision.
func NewToken(symbol string, decimals uint8) *Token {
	return &Token{
		symbol:     symbol,
		decimals:   decimals,
		supply:     uint256.NewInt(0),
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Symbol returns the token's symbol.
func (t *Token) Symbol() string {
	return t.symbol
}

// Decimals returns the token's fixed decimal precision.
func (t *Token) Decimals() (uint8, error) {
	return t.decimals, nil
}

// TotalSupply returns the current total supply.
func (t *Token) TotalSupply() (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(uint256.Int).Set(t.supply), nil
}

// BalanceOf returns the balance of the owner.
func (t *Token) BalanceOf(owner common.Address) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(uint256.Int).Set(t.balance(owner)), nil
}

// Allowance returns the amount the spender may move on the owner's behalf.
func (t *Token) Allowance(owner, spender common.Address) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(uint256.Int).Set(t.allowance(owner, spender)), nil
}

// Approve sets the spender's allowance over the owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[common.Address]*uint256.Int)
		t.allowances[owner] = spenders
	}
	spenders[spender] = new(uint256.Int).Set(amount)

	return nil
}

// Transfer moves amount from one holder to another with no allowance check.
func (t *Token) Transfer(from, to common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(from, to, amount)
}

// TransferFrom moves amount from the owner to the recipient, consuming the
// spender's allowance.
func (t *Token) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}

	return t.move(from, to, amount)
}

// Mint credits the recipient and grows the total supply.
func (t *Token) Mint(to common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(t.supply, amount)
	if overflow {
		return fmt.Errorf("%s: total supply overflow", t.symbol)
	}
	t.supply = supply
	t.balances[to] = new(uint256.Int).Add(t.balance(to), amount)

	return nil
}

// BurnFrom debits the holder and shrinks the total supply, consuming the
// spender's allowance.
func (t *Token) BurnFrom(spender, from common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}

	bal := t.balance(from)
	if bal.Cmp(amount) < 0 {
		return NewInsufficientFundsError(t.symbol, from, amount, bal)
	}
	t.balances[from] = new(uint256.Int).Sub(bal, amount)
	t.supply = new(uint256.Int).Sub(t.supply, amount)

	return nil
}

func (t *Token) balance(owner common.Address) *uint256.Int {
	if b, ok := t.balances[owner]; ok {
		return b
	}

	return uint256.NewInt(0)
}

func (t *Token) allowance(owner, spender common.Address) *uint256.Int {
	if spenders, ok := t.allowances[owner]; ok {
		if a, ok := spenders[spender]; ok {
			return a
		}
	}

	return uint256.NewInt(0)
}

func (t *Token) move(from, to common.Address, amount *uint256.Int) error {
	bal := t.balance(from)
	if bal.Cmp(amount) < 0 {
		return NewInsufficientFundsError(t.symbol, from, amount, bal)
	}

	t.balances[from] = new(uint256.Int).Sub(bal, amount)
	t.balances[to] = new(uint256.Int).Add(t.balance(to), amount)

	return nil
}

func (t *Token) spendAllowance(owner, spender common.Address, amount *uint256.Int) error {
	allowed := t.allowance(owner, spender)
	if allowed.Cmp(amount) < 0 {
		return NewInsufficientAllowanceError(t.symbol, owner, spender, amount, allowed)
	}
	if amount.IsZero() {
		return nil
	}
	t.allowances[owner][spender] = new(uint256.Int).Sub(allowed, amount)

	return nil
}
