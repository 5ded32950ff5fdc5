package custodian

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stabletoken/custodian"
	"github.com/stabletoken/custodian/sdk/memledger"
	"github.com/stabletoken/custodian/store"
)

func buildDemoCmd(dbPath *string) *cobra.Command {
	var spreadBps uint64

	cmd := cobra.Command{
		Use:   "demo",
		Short: "Run a full simulated custodian lifecycle against the state database",
		Long: `Sets up an in-memory ledger with two collateral tokens, installs a basket
through the proposal flow, issues and redeems against it, then adjusts
collateral quantities through a second proposal. State is persisted to the
sqlite database given by --db.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(*dbPath, spreadBps)
		},
	}

	cmd.Flags().Uint64Var(&spreadBps, "spread", 10, "Issuance spread in basis points")

	return &cmd
}

func runDemo(dbPath string, spreadBps uint64) error {
	logger := zap.Must(zap.NewDevelopment()).Sugar()

	rec, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	var (
		managerAddr = common.HexToAddress("0x0000000000000000000000000000000000000a11")
		vaultAddr   = common.HexToAddress("0x0000000000000000000000000000000000000a12")
		owner       = common.HexToAddress("0x0000000000000000000000000000000000000001")
		operator    = common.HexToAddress("0x0000000000000000000000000000000000000002")
		alice       = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	)

	registry := memledger.NewRegistry()
	tokenA, ledgerA := registry.Register("TOKA", 6)
	tokenB, ledgerB := registry.Register("TOKB", 6)
	stable := memledger.NewToken("STBL", 6)
	vault := memledger.NewVault(vaultAddr, registry)

	// The demo drives time manually so the 24h delay does not stall it.
	now := time.Now()
	clock := func() time.Time { return now }

	mgr, err := custodian.NewManager(custodian.Config{
		Address:  managerAddr,
		Owner:    owner,
		Operator: operator,
		Ledger:   stable,
		Vault:    vault,
		Tokens:   registry,
	},
		custodian.WithSpread(spreadBps),
		custodian.WithLogger(logger),
		custodian.WithRecorder(rec),
		custodian.WithClock(clock),
	)
	if err != nil {
		return err
	}

	// Reload state persisted by earlier runs; proposal ids continue from
	// where the registry left off.
	baskets, err := rec.Baskets()
	if err != nil {
		return err
	}
	proposals, err := rec.Proposals()
	if err != nil {
		return err
	}
	if err := mgr.RestoreState(baskets, proposals); err != nil {
		return err
	}
	logger.Infof("restored %d proposals from %s", len(proposals), dbPath)

	// Install the initial basket through the proposal flow.
	rates := []*uint256.Int{uint256.NewInt(5), uint256.NewInt(3)}
	seq, err := mgr.ProposeNewBasket(owner, []common.Address{tokenA, tokenB}, rates)
	if err != nil {
		return err
	}
	basketID := seq - 1
	if err := mgr.AcceptProposal(operator, basketID); err != nil {
		return err
	}
	now = now.Add(25 * time.Hour)
	if err := mgr.ExecuteProposal(owner, basketID); err != nil {
		return err
	}
	if err := mgr.Unpause(owner); err != nil {
		return err
	}

	// Fund alice and issue.
	fund := uint256.NewInt(10_000_000)
	if err := ledgerA.Mint(alice, fund); err != nil {
		return err
	}
	if err := ledgerB.Mint(alice, fund); err != nil {
		return err
	}
	if err := ledgerA.Approve(alice, managerAddr, fund); err != nil {
		return err
	}
	if err := ledgerB.Approve(alice, managerAddr, fund); err != nil {
		return err
	}

	issued, err := mgr.Issue(alice, uint256.NewInt(1_000_000_000))
	if err != nil {
		return err
	}
	logger.Infof("issuance %s complete", issued.ID)

	// Redeem half of it.
	half := uint256.NewInt(500_000_000)
	if err := stable.Approve(alice, managerAddr, half); err != nil {
		return err
	}
	redeemed, err := mgr.RedeemMax(alice)
	if err != nil {
		return err
	}
	logger.Infof("redemption %s complete", redeemed.ID)

	// Top up TokenA collateral through a quantity-delta proposal.
	topUp := uint256.NewInt(200)
	zero := uint256.NewInt(0)
	seq, err = mgr.ProposeQuantitiesAdjustment(alice,
		[]*uint256.Int{topUp, zero}, []*uint256.Int{zero, zero})
	if err != nil {
		return err
	}
	id := seq - 1
	if err := mgr.AcceptProposal(operator, id); err != nil {
		return err
	}
	now = now.Add(25 * time.Hour)
	if err := mgr.ExecuteProposal(alice, id); err != nil {
		return err
	}

	ok, err := mgr.FullyCollateralized()
	if err != nil {
		return err
	}
	fmt.Printf("demo complete: fully collateralized = %v, proposals = %d\n", ok, mgr.ProposalCount())

	return nil
}
