// Package reconcile handles the reconciliation dataset commands
package reconcile

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"vcollos/concilia-csv/cmd/root"
	"vcollos/concilia-csv/internal/classifier"
	"vcollos/concilia-csv/internal/common"
	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/learning"
	"vcollos/concilia-csv/internal/logging"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/recon"
	"vcollos/concilia-csv/internal/rules"
	"vcollos/concilia-csv/internal/store"
)

var (
	ofxCSV         string
	francesinhaCSV string
	save           bool
	overwrite      bool
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Build the ledger-entry dataset from normalized CSVs",
	Long: `Build the semicolon-separated ledger-entry dataset from a normalized
transaction CSV and a normalized collection CSV. Debit, credit and history
codes come from the rule cascade; previously saved reconciliation rules
override the cascade. With --save the dataset is persisted and its rules
are learned for the next run.`,
	Run: reconcileFunc,
}

func init() {
	Cmd.Flags().StringVar(&ofxCSV, "ofx", "", "Normalized transaction CSV produced by the ofx command")
	Cmd.Flags().StringVar(&francesinhaCSV, "francesinha", "", "Normalized collection CSV produced by the francesinha command")
	Cmd.Flags().BoolVar(&save, "save", false, "Persist the dataset and learn its rules")
	Cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace previously saved entries from the same source files")
}

func reconcileFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Reconcile command called")
	ctx := context.Background()
	logger := logging.FromLogrus(root.Log)

	transactions := readTransactions()
	records := readRecords()
	if len(transactions) == 0 && len(records) == 0 {
		root.Log.Fatal("At least one of --ofx and --francesinha is required")
	}

	table := loadRuleTable()

	var db *store.Store
	var saved map[string]learning.SavedRule
	if save || root.Cfg.DB.Path != "" {
		var err error
		db, err = store.Open(root.Cfg.DB.Path, logger)
		if err != nil {
			root.Log.Fatalf("Error opening database: %v", err)
		}
		defer db.Close()

		saved, err = db.LoadRules(ctx, root.Cfg.Company.ID)
		if err != nil {
			root.Log.Fatalf("Error loading saved rules: %v", err)
		}
		root.Log.Infof("Loaded %d saved reconciliation rules", len(saved))
	}

	builder := &recon.Builder{
		Rules:      table,
		Classifier: buildClassifier(ctx, logger),
		Saved:      saved,
		Options:    buildOptions(),
		Logger:     logger,
	}

	result := builder.Build(ctx, transactions, records)
	root.Log.Infof("Built %d entries (%d unreconciled, %d from saved rules, %d interest rows)",
		len(result.Entries), result.Unreconciled, result.RulesApplied, result.InterestRows)
	if result.Skipped > 0 {
		root.Log.Warnf("Skipped %d records", result.Skipped)
	}

	if root.SharedFlags.Output != "" {
		if err := common.WriteCSVFile(result.Entries, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Error writing CSV file: %v", err)
		}
		root.Log.Infof("Dataset written to %s", root.SharedFlags.Output)
	}

	if save {
		persist(ctx, db, result.Entries)
	}
}

func readTransactions() []models.Transaction {
	if ofxCSV == "" {
		return nil
	}
	rows, err := common.ReadCSVFile[models.TransactionRow](ofxCSV)
	if err != nil {
		root.Log.Fatalf("Error reading transaction CSV: %v", err)
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.Transaction(dateutils.ParseBR)
		if err != nil {
			root.Log.Fatalf("Error converting transaction row: %v", err)
		}
		transactions = append(transactions, t)
	}
	return transactions
}

func readRecords() []models.CollectionRecord {
	if francesinhaCSV == "" {
		return nil
	}
	rows, err := common.ReadCSVFile[models.CollectionRow](francesinhaCSV)
	if err != nil {
		root.Log.Fatalf("Error reading collection CSV: %v", err)
	}
	records := make([]models.CollectionRecord, 0, len(rows))
	for _, row := range rows {
		r, err := row.CollectionRecord(dateutils.ParseBR)
		if err != nil {
			root.Log.Fatalf("Error converting collection row: %v", err)
		}
		records = append(records, r)
	}
	return records
}

func loadRuleTable() *rules.Table {
	if root.Cfg.Rules.File == "" {
		return rules.DefaultTable()
	}
	table, err := rules.LoadTable(root.Cfg.Rules.File)
	if err != nil {
		root.Log.Fatalf("Error loading rule table: %v", err)
	}
	root.Log.Infof("Loaded rule table from %s", root.Cfg.Rules.File)
	return table
}

func buildOptions() recon.Options {
	opts := recon.DefaultOptions()
	opts.CreditFromClassification = root.Cfg.Reconcile.CreditFromClassification
	return opts
}

// buildClassifier wires the payer classifier, with the Gemini recognizer
// behind it when the AI classifier is enabled. Without AI the heuristics
// still run; they need no external calls.
func buildClassifier(ctx context.Context, logger logging.Logger) *classifier.Classifier {
	if !root.Cfg.Reconcile.CreditFromClassification {
		return nil
	}

	var recognizer classifier.Recognizer
	if root.Cfg.Classifier.AIEnabled {
		timeout := time.Duration(root.Cfg.Classifier.TimeoutSeconds) * time.Second
		gemini, err := classifier.NewGeminiRecognizer(ctx, root.Cfg.Classifier.APIKey, root.Cfg.Classifier.Model, timeout, logger)
		if err != nil {
			root.Log.Warnf("Error creating entity recognizer, falling back to heuristics: %v", err)
		} else {
			recognizer = gemini
		}
	}
	return classifier.New(recognizer, logger)
}

func persist(ctx context.Context, db *store.Store, entries []models.LedgerEntry) {
	origins := distinctOrigins(entries)

	if !overwrite {
		existing, err := db.ExistingOrigins(ctx, root.Cfg.Company.ID, origins)
		if err != nil {
			root.Log.Fatalf("Error checking existing origins: %v", err)
		}
		if len(existing) > 0 {
			root.Log.Fatalf("Entries from %v already saved; use --overwrite to replace them", existing)
		}
	}

	if err := db.SaveReconciliation(ctx, root.Cfg.Company.ID, entries, origins); err != nil {
		root.Log.Fatalf("Error saving reconciliation: %v", err)
	}
	root.Log.Infof("Saved %d entries for company %d", len(entries), root.Cfg.Company.ID)
}

func distinctOrigins(entries []models.LedgerEntry) []string {
	seen := make(map[string]bool)
	var origins []string
	for _, entry := range entries {
		if entry.Origin == "" || seen[entry.Origin] {
			continue
		}
		seen[entry.Origin] = true
		origins = append(origins, entry.Origin)
	}
	return origins
}
