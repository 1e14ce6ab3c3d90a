package recon

import (
	"github.com/shopspring/decimal"

	"vcollos/concilia-csv/internal/models"
)

// DeriveInterestRows returns one synthetic record per collection record
// carrying a late fee: a copy with the fee promoted into the gross and
// charged amounts, the fee, discount and addition fields zeroed, and the
// interest origin tag. Records already tagged as interest rows are never
// re-derived, so running the derivation over a set that includes its own
// output adds nothing.
func DeriveInterestRows(records []models.CollectionRecord) []models.CollectionRecord {
	var derived []models.CollectionRecord

	for _, r := range records {
		if r.IsInterest() || !r.LateFee.IsPositive() {
			continue
		}

		interest := r
		interest.GrossAmount = r.LateFee
		interest.ChargedAmount = r.LateFee
		interest.LateFee = decimal.Zero
		interest.Discount = decimal.Zero
		interest.OtherAdditions = decimal.Zero
		interest.SourceFile = models.InterestOrigin
		derived = append(derived, interest)
	}

	return derived
}

// hasInterestRows reports whether the record set already contains derived
// interest rows, meaning derivation happened upstream.
func hasInterestRows(records []models.CollectionRecord) bool {
	for _, r := range records {
		if r.IsInterest() {
			return true
		}
	}
	return false
}
