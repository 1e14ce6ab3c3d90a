package recon

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vcollos/concilia-csv/internal/classifier"
	"vcollos/concilia-csv/internal/currencyutils"
	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/learning"
	"vcollos/concilia-csv/internal/logging"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/rules"
	"vcollos/concilia-csv/internal/textutils"
)

// payerLimit bounds the payer name on Francesinha complements, matching
// the accounting-import column width.
const payerLimit = 40

// Options hold the policy knobs of a build.
type Options struct {
	// CreditFromClassification assigns the Francesinha credit code from the
	// payer classification (PF or PJ). When off — the default — the credit
	// is left blank for saved rules or the reviewer to fill. Interest rows
	// get their fixed codes either way.
	CreditFromClassification bool

	InterestCredit        string
	InterestHistory       string
	IndividualCredit      string
	CompanyCredit         string
	ClassificationHistory string
}

// DefaultOptions returns the reference-plan codes for the Francesinha side.
func DefaultOptions() Options {
	return Options{
		InterestCredit:        "31103",
		InterestHistory:       "20",
		IndividualCredit:      "10550",
		CompanyCredit:         "13709",
		ClassificationHistory: "78",
	}
}

// Builder assembles the ledger-entry dataset for one reconciliation run.
// It holds no state between calls; everything a run needs comes in through
// the fields and the Build arguments.
type Builder struct {
	Rules      *rules.Table
	Classifier *classifier.Classifier
	// Saved maps complement hashes to previously confirmed rules. Nil skips
	// the override pass.
	Saved   map[string]learning.SavedRule
	Options Options
	Logger  logging.Logger
}

// Result is the outcome of a build. Skipped counts records that could not
// be converted and were isolated; Unreconciled counts entries that ended
// with neither a debit nor a credit code, which stay in the dataset flagged
// for manual fill.
type Result struct {
	Entries      []models.LedgerEntry
	Skipped      int
	Unreconciled int
	RulesApplied int
	InterestRows int
}

// Build produces the canonical ledger-entry dataset from the two input
// streams. OFX-origin entries come first, Francesinha-origin entries after;
// the order is part of the dataset's row identity for batch editing.
func (b *Builder) Build(ctx context.Context, transactions []models.Transaction, records []models.CollectionRecord) Result {
	var result Result

	others, totals := SplitSettlements(transactions)

	for _, t := range others {
		entry, ok := b.buildStatementEntry(t)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	// Interest rows may already be present when the normalized CSV was
	// produced by the francesinha command; derive them here only for raw
	// record sets so each qualifying record spawns exactly one.
	if !hasInterestRows(records) {
		derived := DeriveInterestRows(records)
		result.InterestRows = len(derived)
		records = append(records, derived...)
	} else {
		for _, r := range records {
			if r.IsInterest() {
				result.InterestRows++
			}
		}
	}

	classifications := b.classifyPayers(ctx, records)

	for _, r := range records {
		entry, ok := b.buildCollectionEntry(r, totals, classifications)
		if !ok {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	if len(b.Saved) > 0 {
		result.RulesApplied = learning.ApplyRules(result.Entries, b.Saved)
	}

	for _, entry := range result.Entries {
		if !entry.IsReconciled() {
			result.Unreconciled++
		}
	}

	if b.Logger != nil {
		b.Logger.WithFields(
			logging.Field{Key: "entries", Value: len(result.Entries)},
			logging.Field{Key: "skipped", Value: result.Skipped},
			logging.Field{Key: "unreconciled", Value: result.Unreconciled},
			logging.Field{Key: "rules_applied", Value: result.RulesApplied},
		).Info("Reconciliation dataset built")
	}

	return result
}

func (b *Builder) buildStatementEntry(t models.Transaction) (models.LedgerEntry, bool) {
	if t.Date.IsZero() {
		b.warnSkip("transaction without date", t.ID, t.SourceFile)
		return models.LedgerEntry{}, false
	}

	in := rules.InputFromTransaction(t)
	return models.LedgerEntry{
		Debit:      b.Rules.EvalDebit(in),
		Credit:     b.Rules.EvalCredit(in),
		History:    b.Rules.EvalHistory(in),
		Date:       dateutils.FormatBR(t.Date),
		Amount:     currencyutils.FormatBR(t.AbsAmount()),
		Complement: rules.Complement(in),
		Origin:     t.SourceFile,
	}, true
}

func (b *Builder) buildCollectionEntry(r models.CollectionRecord, totals map[time.Time]decimal.Decimal, classifications map[string]classifier.EntityType) (models.LedgerEntry, bool) {
	if strings.TrimSpace(r.Payer) == "" {
		b.warnSkip("collection record without payer", r.OurNumber, r.SourceFile)
		return models.LedgerEntry{}, false
	}

	entry := models.LedgerEntry{
		Date:       dateutils.FormatBR(r.SettlementDate),
		Amount:     currencyutils.FormatBR(r.GrossAmount),
		Complement: b.collectionComplement(r, totals),
		Origin:     r.SourceFile,
	}

	switch {
	case r.IsInterest():
		entry.Credit = b.Options.InterestCredit
		entry.History = b.Options.InterestHistory
	case b.Options.CreditFromClassification:
		if classifications[r.Payer] == classifier.Individual {
			entry.Credit = b.Options.IndividualCredit
		} else {
			entry.Credit = b.Options.CompanyCredit
		}
		entry.History = b.Options.ClassificationHistory
	}

	return entry, true
}

// collectionComplement builds the Francesinha-side complement: the payer
// name bounded to the import column width, the settlement-day total from
// the OFX side (or N/A when no batch credit landed on that day), the
// settlement marker and the settlement date, plus the interest tag on
// derived rows.
func (b *Builder) collectionComplement(r models.CollectionRecord, totals map[time.Time]decimal.Decimal) string {
	formattedTotal := "N/A"
	if r.IsSettled() {
		if total, ok := totals[dateutils.Day(r.SettlementDate)]; ok {
			formattedTotal = currencyutils.FormatBR(total)
		}
	}

	payer := strings.TrimSpace(textutils.Truncate(r.Payer, payerLimit))
	complement := "C - " + payer +
		" | " + formattedTotal +
		" | " + models.SettlementMemo +
		" | " + dateutils.FormatBR(r.SettlementDate)

	if r.IsInterest() {
		complement += " | " + models.InterestOrigin
	}
	return complement
}

// classifyPayers classifies the distinct payers of the batch. Skipped when
// the classification feeds nothing, so no recognizer calls are wasted.
func (b *Builder) classifyPayers(ctx context.Context, records []models.CollectionRecord) map[string]classifier.EntityType {
	if !b.Options.CreditFromClassification || b.Classifier == nil {
		return nil
	}

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Payer)
	}
	return b.Classifier.ClassifyBatch(ctx, names)
}

func (b *Builder) warnSkip(reason, id, source string) {
	if b.Logger == nil {
		return
	}
	b.Logger.WithFields(
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "source", Value: source},
	).Warn("Skipping record: " + reason)
}
