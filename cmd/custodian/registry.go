package custodian

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stabletoken/custodian/store"
)

func buildRegistryCmd(dbPath *string) *cobra.Command {
	cmd := cobra.Command{
		Use:   "registry",
		Short: "Inspect the persisted proposal registry and basket history",
		Long:  ``,
	}

	proposals := &cobra.Command{
		Use:   "proposals",
		Short: "List persisted proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			ps, err := s.Proposals()
			if err != nil {
				return err
			}
			for _, p := range ps {
				fmt.Printf("proposal %d (%s) by %s: %s\n", p.ID, p.Kind, p.Proposer, p.State)
			}

			return nil
		},
	}

	baskets := &cobra.Command{
		Use:   "baskets",
		Short: "Print every persisted basket snapshot, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			bs, err := s.Baskets()
			if err != nil {
				return err
			}
			for i, b := range bs {
				fmt.Printf("basket %d (%d tokens):\n", i, b.Size())
				for j, token := range b.Tokens() {
					fmt.Fprintf(os.Stdout, "  %s rate %s\n", token, b.BackingRateAt(j))
				}
			}

			return nil
		},
	}

	cmd.AddCommand(proposals)
	cmd.AddCommand(baskets)

	return &cmd
}
