package custodian

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/stabletoken/custodian/types"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	caller := common.HexToAddress("0x1")
	token := common.HexToAddress("0x2")

	tests := []struct {
		err      error
		expected string
	}{
		{NewUnauthorizedError(caller, types.NewRoleSet(types.RoleOwner, types.RoleOperator)), "caller 0x0000000000000000000000000000000000000001 is not authorized: requires owner|operator"},
		{NewProposalNotFoundError(7), "proposal 7 not found"},
		{NewInvalidTransitionError(3, types.ProposalStateCompleted, types.ProposalStateCancelled), "proposal 3 cannot move from Completed to Cancelled"},
		{NewProposalNotReadyError(4, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)), "proposal 4 is not eligible for execution until 2025-01-02T00:00:00Z"},
		{NewZeroBackingRateError(token), "token 0x0000000000000000000000000000000000000002 has a zero backing rate"},
		{NewPayloadMismatchError(5, types.KindBasketSwap), "proposal 5 payload does not match kind BasketSwap"},
		{&SpreadOutOfRangeError{Bps: 10_001}, "spread 10001 bps exceeds the 10000 bps maximum"},
		{&InsufficientCollateralError{Token: token, Holder: caller, Need: uint256.NewInt(5), Have: uint256.NewInt(3), Reason: "allowance"}, "insufficient allowance for token 0x0000000000000000000000000000000000000002 from 0x0000000000000000000000000000000000000001: need 5, have 3"},
		{&UndercollateralizedError{Token: token, Required: uint256.NewInt(9), Held: uint256.NewInt(8)}, "undercollateralized: token 0x0000000000000000000000000000000000000002 requires 9, vault holds 8"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.err.Error())
	}
}
