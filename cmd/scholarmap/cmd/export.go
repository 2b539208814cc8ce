package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/pkg/bridge"
	"github.com/scholarmap/scholarmap/pkg/logging"
)

var (
	exportMinConfidence float64
	exportNoConfidence  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export faculty records to a JSON or YAML file",
	Long: `Export writes all records at or above the confidence floor to the
given file. The format follows the file extension: .yaml or .yml
produces YAML, anything else JSON. URL fields are re-validated on the
way out; links that fail validation are replaced with the N/A sentinel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), logging.Default())

		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		minConfidence := exportMinConfidence
		if !cmd.Flags().Changed("min-confidence") {
			minConfidence = cfg.ExportMinScore
		}

		count, err := bridge.New(s).ExportFile(ctx, args[0], minConfidence, !exportNoConfidence)
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d records to %s\n", count, args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().Float64Var(&exportMinConfidence, "min-confidence", 0, "only export records at or above this confidence")
	exportCmd.Flags().BoolVar(&exportNoConfidence, "no-confidence", false, "omit confidence scores from the output")
	rootCmd.AddCommand(exportCmd)
}
