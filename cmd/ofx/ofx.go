// Package ofx handles OFX statement processing commands
package ofx

import (
	"github.com/spf13/cobra"

	"vcollos/concilia-csv/cmd/root"
	"vcollos/concilia-csv/internal/common"
	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/ofxparser"
)

// Cmd represents the ofx command
var Cmd = &cobra.Command{
	Use:   "ofx",
	Short: "Convert an OFX statement to normalized transaction CSV",
	Long: `Convert an OFX bank statement (1.x SGML or 2.x XML) into the
normalized transaction CSV consumed by the reconcile command.`,
	Run: ofxFunc,
}

func ofxFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("OFX convert command called")
	root.Log.Infof("Input OFX file: %s", root.SharedFlags.Input)
	root.Log.Infof("Output CSV file: %s", root.SharedFlags.Output)

	if root.SharedFlags.Validate {
		valid, err := ofxparser.ValidateFormat(root.SharedFlags.Input)
		if err != nil {
			root.Log.Fatalf("Error validating OFX file: %v", err)
		}
		if !valid {
			root.Log.Fatal("The file is not a valid OFX statement")
		}
		root.Log.Info("Validation successful.")
	}

	transactions, skipped, err := ofxparser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error parsing OFX file: %v", err)
	}
	if skipped > 0 {
		root.Log.Warnf("Skipped %d malformed transactions", skipped)
	}

	rows := make([]models.TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, models.NewTransactionRow(t, dateutils.DateLayoutBR))
	}

	if err := common.WriteCSVFile(rows, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing CSV file: %v", err)
	}
	root.Log.Infof("OFX to CSV conversion completed successfully! %d transactions written.", len(rows))
}
