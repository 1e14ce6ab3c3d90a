// Package francesinha handles Francesinha report processing commands
package francesinha

import (
	"github.com/spf13/cobra"

	"vcollos/concilia-csv/cmd/root"
	"vcollos/concilia-csv/internal/common"
	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/francesinhaparser"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/recon"
)

var withInterest bool

// Cmd represents the francesinha command
var Cmd = &cobra.Command{
	Use:   "francesinha",
	Short: "Convert a Francesinha report to normalized collection CSV",
	Long: `Convert a Sicoob Francesinha collection report (.xls or .xlsx) into
the normalized collection CSV consumed by the reconcile command. Records
with a late fee additionally spawn a synthetic interest row unless
--no-interest is given.`,
	Run: francesinhaFunc,
}

func init() {
	Cmd.Flags().BoolVar(&withInterest, "interest", true, "Derive synthetic interest rows from late fees")
}

func francesinhaFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Francesinha convert command called")
	root.Log.Infof("Input report file: %s", root.SharedFlags.Input)
	root.Log.Infof("Output CSV file: %s", root.SharedFlags.Output)

	if root.SharedFlags.Validate {
		valid, err := francesinhaparser.ValidateFormat(root.SharedFlags.Input)
		if err != nil {
			root.Log.Fatalf("Error validating report file: %v", err)
		}
		if !valid {
			root.Log.Fatal("The file is not a supported Excel workbook")
		}
		root.Log.Info("Validation successful.")
	}

	records, skipped, err := francesinhaparser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error parsing Francesinha file: %v", err)
	}
	if skipped > 0 {
		root.Log.Warnf("Skipped %d malformed rows", skipped)
	}

	if withInterest {
		derived := recon.DeriveInterestRows(records)
		if len(derived) > 0 {
			root.Log.Infof("Derived %d interest rows from late fees", len(derived))
			records = append(records, derived...)
		}
	}

	rows := make([]models.CollectionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.NewCollectionRow(r, dateutils.DateLayoutBR))
	}

	if err := common.WriteCSVFile(rows, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing CSV file: %v", err)
	}
	root.Log.Infof("Francesinha to CSV conversion completed successfully! %d records written.", len(rows))
}
