package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/pkg/logging"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute confidence scores for all records",
	Long: `Score recomputes every record's confidence from its current field
completeness: email, personal website, profile URL, research interests,
and publications each contribute a fifth of the score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), logging.Default())

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		updated, err := s.RescoreAll(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Rescored %d records\n", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
