package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/pkg/bridge"
	"github.com/scholarmap/scholarmap/pkg/logging"
)

var importRescore bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import faculty records from a JSON or YAML file",
	Long: `Import reads a list of faculty documents from the given file and
upserts them into the record store. Entries whose name looks like
navigation text rather than a person are skipped, and fuzzy name
variants of already-known faculty are folded onto the existing record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), logging.Default())

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		stats, err := bridge.New(s).ImportFile(ctx, args[0])
		if err != nil {
			return err
		}

		if importRescore {
			if _, err := s.RescoreAll(ctx); err != nil {
				return err
			}
		}

		fmt.Printf("Imported %d records (%d skipped, %d failed)\n",
			stats.Imported, stats.Skipped, stats.Failed)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importRescore, "rescore", true, "recompute confidence scores after import")
	rootCmd.AddCommand(importCmd)
}
