package custodian

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stabletoken/custodian"
)

func buildProposalCmd() *cobra.Command {
	var proposalPath string

	cmd := cobra.Command{
		Use:   "proposal",
		Short: "Inspect proposal files",
		Long:  ``,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Load, validate and print a proposal JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(proposalPath)
			if err != nil {
				return fmt.Errorf("open proposal file: %w", err)
			}
			defer f.Close()

			p, err := custodian.NewProposalFromReader(f)
			if err != nil {
				return fmt.Errorf("invalid proposal: %w", err)
			}

			return custodian.WriteProposal(os.Stdout, p)
		},
	}
	show.Flags().StringVar(&proposalPath, "file", "", "Path to the proposal JSON file")
	_ = show.MarkFlagRequired("file")

	cmd.AddCommand(show)

	return &cmd
}
