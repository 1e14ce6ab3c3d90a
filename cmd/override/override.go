// Package override handles the bulk credit-override command
package override

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vcollos/concilia-csv/cmd/root"
	"vcollos/concilia-csv/internal/common"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/override"
)

var companiesFile string

// Cmd represents the override command
var Cmd = &cobra.Command{
	Use:   "override",
	Short: "Bulk-override Francesinha credits from a company allow-list",
	Long: `Rewrite the credit code of every Francesinha-origin entry in a
ledger-entry CSV: payers on the allow-list get the company code, interest
rows get the interest code, everyone else gets the individual code.`,
	Run: overrideFunc,
}

func init() {
	Cmd.Flags().StringVarP(&companiesFile, "companies", "c", "", "File with one company payer name per line (required)")
	Cmd.MarkFlagRequired("companies")
}

func overrideFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Override command called")
	root.Log.Infof("Input CSV file: %s", root.SharedFlags.Input)
	root.Log.Infof("Output CSV file: %s", root.SharedFlags.Output)

	companies, err := readCompanies(companiesFile)
	if err != nil {
		root.Log.Fatalf("Error reading company allow-list: %v", err)
	}
	root.Log.Infof("Loaded %d company names", len(companies))

	entries, err := common.ReadCSVFile[models.LedgerEntry](root.SharedFlags.Input)
	if err != nil {
		root.Log.Fatalf("Error reading CSV file: %v", err)
	}

	changed := override.Apply(entries, companies, override.DefaultConfig())
	root.Log.Infof("Overrode %d of %d entries", changed, len(entries))

	if err := common.WriteCSVFile(entries, root.SharedFlags.Output); err != nil {
		root.Log.Fatalf("Error writing CSV file: %v", err)
	}
	root.Log.Info("Override completed successfully!")
}

func readCompanies(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var companies []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			companies = append(companies, line)
		}
	}
	return companies, nil
}
