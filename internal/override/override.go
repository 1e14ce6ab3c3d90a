// Package override implements the manual bulk-correction pass: given an
// allow-list of payer names known to be companies, it rewrites the credit
// and history codes of Francesinha-side entries after the fact. It runs
// only on demand, never as part of a build.
package override

import (
	"strings"

	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/textutils"
)

// payerLimit matches the truncation applied when the complement was built,
// so allow-list comparison sees the same 40-character prefix.
const payerLimit = 40

// Config holds the codes the pass writes.
type Config struct {
	CompanyCredit    string
	IndividualCredit string
	// InterestCredit takes priority on derived interest rows; the allow-list
	// does not apply to them.
	InterestCredit string
	History        string
}

// DefaultConfig returns the reference-plan codes.
func DefaultConfig() Config {
	return Config{
		CompanyCredit:    "13709",
		IndividualCredit: "10550",
		InterestCredit:   "31103",
		History:          "78",
	}
}

// Apply rewrites the credit and history of every Francesinha-side entry in
// place: entries whose payer appears in companyNames get the company
// credit, every other one the individual credit. OFX-side entries are
// untouched. Returns the number of entries rewritten.
func Apply(entries []models.LedgerEntry, companyNames []string, cfg Config) int {
	allowed := make(map[string]struct{}, len(companyNames))
	for _, name := range companyNames {
		key := textutils.NormalizeKey(textutils.Truncate(strings.TrimSpace(name), payerLimit))
		if key != "" {
			allowed[key] = struct{}{}
		}
	}

	changed := 0
	for i := range entries {
		if !isCollectionOrigin(entries[i].Origin) {
			continue
		}

		if strings.EqualFold(entries[i].Origin, models.InterestOrigin) {
			entries[i].Credit = cfg.InterestCredit
			changed++
			continue
		}

		if _, ok := allowed[PayerKey(entries[i].Complement)]; ok {
			entries[i].Credit = cfg.CompanyCredit
		} else {
			entries[i].Credit = cfg.IndividualCredit
		}
		entries[i].History = cfg.History
		changed++
	}
	return changed
}

// PayerKey recovers the comparable payer name from a Francesinha
// complement: the text before the first delimiter, with the credit prefix
// stripped, bounded to the complement's payer width and normalized.
func PayerKey(complement string) string {
	head, _, _ := strings.Cut(complement, "|")
	head = strings.TrimSpace(strings.TrimPrefix(head, "C -"))
	return textutils.NormalizeKey(textutils.Truncate(head, payerLimit))
}

func isCollectionOrigin(origin string) bool {
	lower := strings.ToLower(origin)
	return strings.Contains(lower, "francesinha") ||
		strings.Contains(lower, strings.ToLower(models.InterestOrigin))
}
