// Package learning implements the saved-rule layer: deriving a stable key
// from each ledger entry, hashing it, and replaying previously confirmed
// debit/credit/history codes over freshly built entries. A human correction
// saved once becomes the automatic default the next time the same logical
// transaction is imported.
package learning

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"vcollos/concilia-csv/internal/models"
)

// SavedRule is one confirmed code assignment, keyed externally by the
// complement hash.
type SavedRule struct {
	Debit   string
	Credit  string
	History string
}

// Rule is a SavedRule bundled with its identity, as handed to persistence.
type Rule struct {
	Key        string
	Hash       string
	Complement string
	SavedRule
}

// RuleKey derives the stable lookup key for an entry from its origin and
// complement. The key deliberately excludes the assigned codes: editing
// debit/credit/history must not change an entry's identity.
//
// Francesinha-side entries (collection reports and interest rows) key on
// the payer segment alone, since settlement totals and dates vary between
// imports of the same slip. OFX entries with a payee keep the first two
// segments (memo and payee); shorter complements are used whole.
func RuleKey(origin, complement string) string {
	lowerOrigin := strings.ToLower(origin)

	if strings.Contains(lowerOrigin, strings.ToLower(models.InterestOrigin)) ||
		strings.Contains(lowerOrigin, "francesinha") {
		head, _, _ := strings.Cut(complement, "|")
		return strings.TrimSpace(head)
	}

	parts := strings.Split(complement, "|")
	if len(parts) > 2 {
		return strings.TrimSpace(parts[0]) + " | " + strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(complement)
}

// RuleHash returns the SHA-256 hex digest of a rule key, or "" for an
// empty key.
func RuleHash(key string) string {
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// EntryHash is RuleKey followed by RuleHash for one entry.
func EntryHash(entry models.LedgerEntry) string {
	return RuleHash(RuleKey(entry.Origin, entry.Complement))
}

// ApplyRules overwrites entry codes from saved rules wherever a rule exists
// for the entry's hash. Only non-empty saved fields win; fields the rule
// leaves empty keep their cascade output. Applying twice is the same as
// applying once. Returns the number of entries touched.
func ApplyRules(entries []models.LedgerEntry, saved map[string]SavedRule) int {
	if len(entries) == 0 || len(saved) == 0 {
		return 0
	}

	applied := 0
	for i := range entries {
		hash := EntryHash(entries[i])
		if hash == "" {
			continue
		}
		rule, ok := saved[hash]
		if !ok {
			continue
		}
		if rule.Debit != "" {
			entries[i].Debit = rule.Debit
		}
		if rule.Credit != "" {
			entries[i].Credit = rule.Credit
		}
		if rule.History != "" {
			entries[i].History = rule.History
		}
		applied++
	}
	return applied
}

// Collect extracts the rules worth persisting from a finalized dataset:
// entries with a non-empty complement and at least one of debit/credit
// assigned. Later entries with the same hash win, matching upsert
// semantics.
func Collect(entries []models.LedgerEntry) []Rule {
	byHash := make(map[string]int)
	var rules []Rule

	for _, entry := range entries {
		if strings.TrimSpace(entry.Complement) == "" {
			continue
		}
		if entry.Debit == "" && entry.Credit == "" {
			continue
		}

		key := RuleKey(entry.Origin, entry.Complement)
		hash := RuleHash(key)
		if hash == "" {
			continue
		}

		rule := Rule{
			Key:        key,
			Hash:       hash,
			Complement: entry.Complement,
			SavedRule: SavedRule{
				Debit:   entry.Debit,
				Credit:  entry.Credit,
				History: entry.History,
			},
		}

		if i, seen := byHash[hash]; seen {
			rules[i] = rule
			continue
		}
		byHash[hash] = len(rules)
		rules = append(rules, rule)
	}

	return rules
}
