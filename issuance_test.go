package custodian_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stabletoken/custodian"
)

func TestIssue_ChargesBasketPlusSpread(t *testing.T) {
	t.Parallel()

	// Basket {TokenA: 5, TokenB: 3}, spread 10 bps (0.10%), supply 0.
	// Issuing 1000 units (6 decimals) must pull 5*1000*1.001 = 5005 TokenA
	// and 3*1000*1.001 = 3003 TokenB, truncating.
	f := newFixture(t, custodian.WithSpread(10))
	f.installBasket(5, 3)
	f.fund(alice, 10_000)

	record, err := f.mgr.Issue(alice, uint256.NewInt(1_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, alice, record.User)
	assert.EqualValues(t, 1_000_000_000, record.Amount.Uint64())

	assert.EqualValues(t, 5005, balanceOf(t, f.ledgerA, vaultAddr))
	assert.EqualValues(t, 3003, balanceOf(t, f.ledgerB, vaultAddr))
	assert.EqualValues(t, 10_000-5005, balanceOf(t, f.ledgerA, alice))
	assert.EqualValues(t, 10_000-3003, balanceOf(t, f.ledgerB, alice))
	assert.EqualValues(t, 1_000_000_000, balanceOf(t, f.stable, alice))

	supply, err := f.stable.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000_000, supply.Uint64())

	// 5005 >= 5000 and 3003 >= 3000 at the new supply.
	ok, err := f.mgr.FullyCollateralized()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIssue_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(f *fixture)
		give    *uint256.Int
		wantErr error
	}{
		{
			name:    "zero quantity",
			setup:   func(f *fixture) { f.installBasket(5, 3) },
			give:    uint256.NewInt(0),
			wantErr: custodian.ErrZeroQuantity,
		},
		{
			name:    "nil quantity",
			setup:   func(f *fixture) { f.installBasket(5, 3) },
			give:    nil,
			wantErr: custodian.ErrZeroQuantity,
		},
		{
			name: "paused",
			setup: func(f *fixture) {
				f.installBasket(5, 3)
				require.NoError(f.t, f.mgr.Pause(ownerAddr))
			},
			give:    uint256.NewInt(1_000_000),
			wantErr: custodian.ErrPaused,
		},
		{
			name:    "no basket while paused",
			setup:   func(f *fixture) {},
			give:    uint256.NewInt(1_000_000),
			wantErr: custodian.ErrPaused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.setup(f)
			f.fund(alice, 1_000_000)

			_, err := f.mgr.Issue(alice, tt.give)
			require.ErrorIs(t, err, tt.wantErr)

			// Rejections move no tokens.
			assert.EqualValues(t, 0, balanceOf(t, f.stable, alice))
		})
	}
}

func TestIssue_InsufficientAllowanceMovesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installBasket(5, 3)

	// Enough balance, but the manager is approved for TokenA only.
	amt := uint256.NewInt(1_000_000)
	require.NoError(t, f.ledgerA.Mint(alice, amt))
	require.NoError(t, f.ledgerB.Mint(alice, amt))
	require.NoError(t, f.ledgerA.Approve(alice, managerAddr, amt))

	_, err := f.mgr.Issue(alice, uint256.NewInt(1_000_000))
	var collErr *custodian.InsufficientCollateralError
	require.ErrorAs(t, err, &collErr)
	assert.Equal(t, f.tokenB, collErr.Token)
	assert.Equal(t, "allowance", collErr.Reason)

	// The TokenA transfer was never attempted.
	assert.EqualValues(t, 1_000_000, balanceOf(t, f.ledgerA, alice))
	assert.EqualValues(t, 0, balanceOf(t, f.ledgerA, vaultAddr))
	assert.EqualValues(t, 0, balanceOf(t, f.stable, alice))
}

func TestIssueThenRedeem_RoundTripMinusSpread(t *testing.T) {
	t.Parallel()

	f := newFixture(t, custodian.WithSpread(10))
	f.installBasket(5, 3)
	f.fund(alice, 10_000)

	quantity := uint256.NewInt(1_000_000_000)
	_, err := f.mgr.Issue(alice, quantity)
	require.NoError(t, err)

	require.NoError(t, f.stable.Approve(alice, managerAddr, quantity))
	_, err = f.mgr.Redeem(alice, quantity)
	require.NoError(t, err)

	// Redemption pays the nominal basket amounts; the spread charged on
	// issuance stays with the vault.
	assert.EqualValues(t, 10_000-5, balanceOf(t, f.ledgerA, alice))
	assert.EqualValues(t, 10_000-3, balanceOf(t, f.ledgerB, alice))
	assert.EqualValues(t, 5, balanceOf(t, f.ledgerA, vaultAddr))
	assert.EqualValues(t, 3, balanceOf(t, f.ledgerB, vaultAddr))
	assert.EqualValues(t, 0, balanceOf(t, f.stable, alice))
}

func TestIssueMax_IssuesBindingMinimum(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installBasket(5, 3)

	// TokenA allows 5000 -> 1000 units; TokenB allows 6000 -> 2000 units.
	// TokenA binds.
	require.NoError(t, f.ledgerA.Mint(alice, uint256.NewInt(5000)))
	require.NoError(t, f.ledgerB.Mint(alice, uint256.NewInt(6000)))
	require.NoError(t, f.ledgerA.Approve(alice, managerAddr, uint256.NewInt(5000)))
	require.NoError(t, f.ledgerB.Approve(alice, managerAddr, uint256.NewInt(6000)))

	record, err := f.mgr.IssueMax(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000_000, record.Amount.Uint64())

	assert.EqualValues(t, 0, balanceOf(t, f.ledgerA, alice))
	assert.EqualValues(t, 5000, balanceOf(t, f.ledgerA, vaultAddr))
	assert.EqualValues(t, 6000-3000, balanceOf(t, f.ledgerB, alice))
}

func TestIssueMax_UsesLowerOfBalanceAndAllowance(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installBasket(5, 3)

	// Allowance far exceeds balance; balance must bind.
	require.NoError(t, f.ledgerA.Mint(alice, uint256.NewInt(500)))
	require.NoError(t, f.ledgerB.Mint(alice, uint256.NewInt(600)))
	require.NoError(t, f.ledgerA.Approve(alice, managerAddr, uint256.NewInt(1_000_000)))
	require.NoError(t, f.ledgerB.Approve(alice, managerAddr, uint256.NewInt(1_000_000)))

	record, err := f.mgr.IssueMax(alice)
	require.NoError(t, err)

	// min(500/5, 600/3) = 100 units.
	assert.EqualValues(t, 100_000_000, record.Amount.Uint64())
}

func TestIssueMax_ZeroBackingRateIsRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.installBasket(5, 0)
	f.fund(alice, 1_000_000)

	_, err := f.mgr.IssueMax(alice)
	var rateErr *custodian.ZeroBackingRateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, f.tokenB, rateErr.Token)

	assert.EqualValues(t, 0, balanceOf(t, f.stable, alice))
}

func TestIssueMax_NoBasket(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.mgr.IssueMax(alice)
	require.ErrorIs(t, err, custodian.ErrNoBasket)
}
