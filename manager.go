package custodian

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/stabletoken/custodian/sdk"
	"github.com/stabletoken/custodian/types"
)

// DefaultProposalDelay is the mandatory wait between a proposal being
// accepted and becoming eligible for execution.
const DefaultProposalDelay = 24 * time.Hour

// Recorder persists state the custodian produces: proposal transitions,
// basket swaps and issuance/redemption records. Implementations live outside
// the core; store.Store is the sqlite one.
type Recorder interface {
	SaveProposal(p *Proposal) error
	SaveBasket(b *types.Basket) error
	SaveIssuance(r types.IssuanceRecord) error
	SaveRedemption(r types.RedemptionRecord) error
	Reset() error
}

// Manager is the orchestrator: it owns the current basket and vault
// references, runs issuance and redemption, drives the proposal lifecycle,
// and re-asserts full collateralization after every state-changing path.
//
// Every entry point takes the caller's identity explicitly and runs to
// completion under the manager's lock; a rejected call leaves no partial
// state change.
type Manager struct {
	mu sync.Mutex

	addr     common.Address
	owner    common.Address
	operator common.Address

	ledger sdk.TokenLedger
	vault  sdk.Vault
	tokens sdk.TokenResolver

	// Basket arena: completed swaps append a new value and repoint current.
	// Prior baskets stay addressable for audit. current is -1 until the
	// first basket is installed.
	baskets []*types.Basket
	current int

	proposals []*Proposal

	whitelist    map[common.Address]struct{}
	useWhitelist bool
	paused       bool
	spreadBps    uint64
	delay        time.Duration

	now func() time.Time
	log sdk.Logger
	rec Recorder
}

// Config carries the collaborator references a Manager is constructed with.
type Config struct {
	// Address is the identity the token ledgers see as the spender of
	// caller-approved allowances.
	Address common.Address    `validate:"required"`
	Owner   common.Address    `validate:"required"`
	Ledger  sdk.TokenLedger   `validate:"required"`
	Vault   sdk.Vault         `validate:"required"`
	Tokens  sdk.TokenResolver `validate:"required"`

	// Operator is optional at construction and may be set later by the owner.
	Operator common.Address
}

// Option configures a Manager beyond its required collaborators.
type Option func(*Manager)

// WithDelay overrides the proposal execution delay.
func WithDelay(d time.Duration) Option {
	return func(m *Manager) { m.delay = d }
}

// WithClock overrides the time source. Useful for tests that cross the
// proposal delay.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(log sdk.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithRecorder attaches a persistence backend.
func WithRecorder(rec Recorder) Option {
	return func(m *Manager) { m.rec = rec }
}

// WithSpread sets the initial issuance spread in basis points.
func WithSpread(bps uint64) Option {
	return func(m *Manager) { m.spreadBps = bps }
}

// NewManager constructs a Manager. It starts paused with no basket; the
// first basket arrives through a completed basket-swap proposal, after which
// the owner may unpause.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}

	m := &Manager{
		addr:      cfg.Address,
		owner:     cfg.Owner,
		operator:  cfg.Operator,
		ledger:    cfg.Ledger,
		vault:     cfg.Vault,
		tokens:    cfg.Tokens,
		current:   -1,
		whitelist: make(map[common.Address]struct{}),
		paused:    true,
		delay:     DefaultProposalDelay,
		now:       time.Now,
		log:       sdk.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.spreadBps > types.BasisPoints {
		return nil, &SpreadOutOfRangeError{Bps: m.spreadBps}
	}

	return m, nil
}

// RestoreState rehydrates the basket arena and the proposal registry from
// persisted state, oldest first. Intended for process start, before the
// manager serves calls; it does not write back to the recorder. Restoring
// onto a manager that already holds baskets or proposals is rejected.
func (m *Manager) RestoreState(baskets []*types.Basket, proposals []*Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.baskets) != 0 || len(m.proposals) != 0 {
		return ErrAlreadyRestored
	}

	for i, p := range proposals {
		if p.ID != uint64(i) {
			return fmt.Errorf("proposal %d out of sequence at position %d", p.ID, i)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("restoring proposal %d: %w", p.ID, err)
		}
	}

	m.baskets = make([]*types.Basket, len(baskets))
	copy(m.baskets, baskets)
	m.current = len(m.baskets) - 1
	m.proposals = make([]*Proposal, len(proposals))
	copy(m.proposals, proposals)

	m.log.Infof("restored %d baskets and %d proposals", len(baskets), len(proposals))

	return nil
}

// authorize is the single capability gate every entry point goes through.
// The caller passes if it holds any role in the set; the proposal argument
// is consulted only for RoleProposer and may be nil otherwise.
func (m *Manager) authorize(caller common.Address, required types.RoleSet, p *Proposal) error {
	if required.Has(types.RoleAny) {
		return nil
	}
	if required.Has(types.RoleOwner) && caller == m.owner {
		return nil
	}
	if required.Has(types.RoleOperator) && m.operator != (common.Address{}) && caller == m.operator {
		return nil
	}
	if required.Has(types.RoleProposer) && p != nil && caller == p.Proposer {
		return nil
	}
	if required.Has(types.RoleWhitelisted) {
		if !m.useWhitelist {
			return nil
		}
		if _, ok := m.whitelist[caller]; ok {
			return nil
		}
	}

	return NewUnauthorizedError(caller, required)
}

// basket returns the current basket, or nil if none is installed.
func (m *Manager) basket() *types.Basket {
	if m.current < 0 {
		return nil
	}

	return m.baskets[m.current]
}

// installBasket appends a basket to the arena and repoints current.
func (m *Manager) installBasket(b *types.Basket) {
	m.baskets = append(m.baskets, b)
	m.current = len(m.baskets) - 1

	if m.rec != nil {
		if err := m.rec.SaveBasket(b); err != nil {
			m.log.Warnf("failed to persist basket: %v", err)
		}
	}
}

// CurrentBasket returns the active basket, or nil when none is installed.
func (m *Manager) CurrentBasket() *types.Basket {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.basket()
}

// BasketHistory returns every basket ever installed, oldest first.
func (m *Manager) BasketHistory() []*types.Basket {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Basket, len(m.baskets))
	copy(out, m.baskets)

	return out
}

// Paused reports whether issuance and redemption are halted.
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.paused
}

// SpreadBps returns the issuance spread in basis points.
func (m *Manager) SpreadBps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.spreadBps
}

// Operator returns the current operator identity.
func (m *Manager) Operator() common.Address {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.operator
}

// Pause halts issuance and redemption. Owner only.
func (m *Manager) Pause(caller common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	if m.paused {
		return ErrPaused
	}
	m.paused = true
	m.log.Infof("paused by %s", caller)

	return nil
}

// Unpause resumes issuance and redemption. Owner only; rejected until a
// basket is installed.
func (m *Manager) Unpause(caller common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	if !m.paused {
		return ErrNotPaused
	}
	if m.basket() == nil {
		return ErrNoBasket
	}
	m.paused = false
	m.log.Infof("unpaused by %s", caller)

	return nil
}

// SetOperator changes the operator identity. Owner only.
func (m *Manager) SetOperator(caller, operator common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	m.operator = operator

	return nil
}

// SetVault repoints the custodial vault. Owner only.
func (m *Manager) SetVault(caller common.Address, vault sdk.Vault) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	m.vault = vault

	return nil
}

// SetTokenLedger repoints the stable token's ledger. Owner only.
func (m *Manager) SetTokenLedger(caller common.Address, ledger sdk.TokenLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	m.ledger = ledger

	return nil
}

// SetSpread sets the issuance spread in basis points, capped at 100%.
// Owner only.
func (m *Manager) SetSpread(caller common.Address, bps uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	if bps > types.BasisPoints {
		return &SpreadOutOfRangeError{Bps: bps}
	}
	m.spreadBps = bps

	return nil
}

// SetWhitelistEnabled toggles access-list enforcement on issuance and
// redemption. Owner only.
func (m *Manager) SetWhitelistEnabled(caller common.Address, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	m.useWhitelist = enabled

	return nil
}

// AddToWhitelist adds an account to the access list. Owner only.
func (m *Manager) AddToWhitelist(caller, account common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	m.whitelist[account] = struct{}{}

	return nil
}

// RemoveFromWhitelist removes an account from the access list. Owner only.
func (m *Manager) RemoveFromWhitelist(caller, account common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.authorize(caller, types.NewRoleSet(types.RoleOwner), nil); err != nil {
		return err
	}
	delete(m.whitelist, account)

	return nil
}

// Whitelisted reports access-list membership.
func (m *Manager) Whitelisted(account common.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.whitelist[account]

	return ok
}
