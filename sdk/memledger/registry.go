package memledger

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stabletoken/custodian/sdk"
)

// Registry maps token identifiers to in-memory ledgers and implements
// sdk.TokenResolver.
type Registry struct {
	mu     sync.Mutex
	tokens map[common.Address]*Token
	nextID uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[common.Address]*Token)}
}

// Register creates a ledger for a new token and assigns it a deterministic
// sequential address.
func (r *Registry) Register(symbol string, decimals uint8) (common.Address, *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	var addr common.Address
	binary.BigEndian.PutUint64(addr[12:], r.nextID)

	token := NewToken(symbol, decimals)
	r.tokens[addr] = token

	return addr, token
}

// RegisterAt installs a ledger under an explicit address.
func (r *Registry) RegisterAt(addr common.Address, token *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[addr] = token
}

// Token resolves a token identifier to its ledger.
func (r *Registry) Token(addr common.Address) (sdk.ERC20, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[addr]
	if !ok {
		return nil, NewUnknownTokenError(addr)
	}

	return token, nil
}

// Ledger returns the concrete ledger for direct funding and approvals in
// tests and simulations.
func (r *Registry) Ledger(addr common.Address) (*Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[addr]

	return token, ok
}
