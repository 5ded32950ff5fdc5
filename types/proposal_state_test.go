package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stabletoken/custodian/types"
)

func TestProposalState_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state types.ProposalState
		want  bool
	}{
		{state: types.ProposalStateCreated, want: false},
		{state: types.ProposalStateAccepted, want: false},
		{state: types.ProposalStateCancelled, want: true},
		{state: types.ProposalStateCompleted, want: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.state.Terminal())
		})
	}
}

func TestStringToProposalState(t *testing.T) {
	t.Parallel()

	got, ok := types.StringToProposalState["Accepted"]
	assert.True(t, ok)
	assert.Equal(t, types.ProposalStateAccepted, got)

	_, ok = types.StringToProposalState["accepted"]
	assert.False(t, ok)
}

func TestStringToProposalKind(t *testing.T) {
	t.Parallel()

	got, ok := types.StringToProposalKind["BasketSwap"]
	assert.True(t, ok)
	assert.Equal(t, types.KindBasketSwap, got)

	_, ok = types.StringToProposalKind["basket_swap"]
	assert.False(t, ok)
}
