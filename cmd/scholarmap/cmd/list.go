package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarmap/scholarmap/pkg/faculty"
	"github.com/scholarmap/scholarmap/pkg/logging"
)

var (
	listName          string
	listDepartment    string
	listMinConfidence float64
	listExact         bool
	listJSON          bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored faculty records",
	Long: `List prints stored records, optionally filtered by name substring,
department keyword, or a confidence floor. Name lookup is fuzzy by
default; --exact requires a full match.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), logging.Default())

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		var records []*faculty.Record
		switch {
		case listName != "":
			records, err = s.GetByName(ctx, listName, !listExact)
		case listDepartment != "":
			records, err = s.GetByDepartment(ctx, listDepartment)
		default:
			records, err = s.GetAll(ctx, listMinConfidence)
		}
		if err != nil {
			return err
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		for _, rec := range records {
			fmt.Printf("%-4d %-30s %-28s %.2f  %d pubs\n",
				rec.ID, rec.Name, rec.Department, rec.Confidence, len(rec.Publications))
		}
		fmt.Printf("%d records\n", len(records))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listName, "name", "", "filter by name")
	listCmd.Flags().StringVar(&listDepartment, "department", "", "filter by department or school keyword")
	listCmd.Flags().Float64Var(&listMinConfidence, "min-confidence", 0, "only list records at or above this confidence")
	listCmd.Flags().BoolVar(&listExact, "exact", false, "require an exact name match")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(listCmd)
}
