package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcollos/concilia-csv/internal/models"
)

func TestDeriveInterestRows(t *testing.T) {
	records := []models.CollectionRecord{
		{
			Payer:          "JOAO DA SILVA",
			SourceFile:     "francesinha-2024-03",
			GrossAmount:    decimal.RequireFromString("100.00"),
			LateFee:        decimal.RequireFromString("2.50"),
			Discount:       decimal.RequireFromString("1.00"),
			ChargedAmount:  decimal.RequireFromString("101.50"),
			SettlementDate: day(2024, 3, 5),
		},
		{
			Payer:       "EMPRESA LTDA",
			SourceFile:  "francesinha-2024-03",
			GrossAmount: decimal.RequireFromString("200.00"),
		},
	}

	derived := DeriveInterestRows(records)
	require.Len(t, derived, 1)

	interest := derived[0]
	assert.Equal(t, "JOAO DA SILVA", interest.Payer)
	assert.Equal(t, models.InterestOrigin, interest.SourceFile)
	assert.True(t, interest.IsInterest())

	// The fee becomes the row's value on both amount fields.
	assert.True(t, decimal.RequireFromString("2.50").Equal(interest.GrossAmount))
	assert.True(t, decimal.RequireFromString("2.50").Equal(interest.ChargedAmount))
	assert.True(t, interest.LateFee.IsZero())
	assert.True(t, interest.Discount.IsZero())
	assert.True(t, interest.OtherAdditions.IsZero())

	// The settlement date carries over.
	assert.Equal(t, records[0].SettlementDate, interest.SettlementDate)
}

func TestDeriveInterestRowsNeverCascades(t *testing.T) {
	records := []models.CollectionRecord{
		{
			Payer:       "JOAO DA SILVA",
			SourceFile:  "francesinha-2024-03",
			GrossAmount: decimal.RequireFromString("100.00"),
			LateFee:     decimal.RequireFromString("2.50"),
		},
	}

	derived := DeriveInterestRows(records)
	require.Len(t, derived, 1)

	// Feeding the output back in produces nothing new.
	again := DeriveInterestRows(append(records, derived...))
	assert.Len(t, again, 1)
	assert.Empty(t, DeriveInterestRows(derived))
}

func TestDeriveInterestRowsZeroOrNegativeFee(t *testing.T) {
	records := []models.CollectionRecord{
		{Payer: "A", SourceFile: "f", LateFee: decimal.Zero},
		{Payer: "B", SourceFile: "f", LateFee: decimal.RequireFromString("-1.00")},
	}
	assert.Empty(t, DeriveInterestRows(records))
}
