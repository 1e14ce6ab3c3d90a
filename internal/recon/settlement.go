// Package recon builds the reconciliation dataset: it folds OFX settlement
// batches into per-day totals, derives interest rows from late-paid slips,
// runs the rule cascade over the statement side and assembles the final
// ledger-entry table.
package recon

import (
	"time"

	"github.com/shopspring/decimal"

	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/models"
)

// SplitSettlements partitions the OFX transactions into collection
// settlements and everything else. Settlement lines never reach the rule
// cascade; their amounts are summed per calendar day and cross-referenced
// against Francesinha settlement dates instead, so the batch credit is
// never coded twice.
func SplitSettlements(transactions []models.Transaction) ([]models.Transaction, map[time.Time]decimal.Decimal) {
	others := make([]models.Transaction, 0, len(transactions))
	totals := make(map[time.Time]decimal.Decimal)

	for _, t := range transactions {
		if !t.IsSettlement() {
			others = append(others, t)
			continue
		}
		day := dateutils.Day(t.Date)
		totals[day] = totals[day].Add(t.Amount)
	}

	return others, totals
}
