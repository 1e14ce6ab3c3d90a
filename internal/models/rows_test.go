package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBR(s string) (time.Time, error) {
	return time.Parse("02/01/2006", s)
}

func TestTransactionRowRoundTrip(t *testing.T) {
	original := Transaction{
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.RequireFromString("-9.90"),
		Type:       TypeDebit,
		ID:         "202403051",
		Memo:       "TARIFA COBRANÇA",
		Payee:      "BANCO",
		SourceFile: "extrato-2024-03",
	}

	row := NewTransactionRow(original, "02/01/2006")
	assert.Equal(t, "05/03/2024", row.Date)
	assert.Equal(t, "DEBIT", row.Type)

	back, err := row.Transaction(parseBR)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestTransactionRowTypeFallback(t *testing.T) {
	// Rows written by other tools may lack the type column; the amount
	// sign decides then.
	row := TransactionRow{Date: "05/03/2024", Amount: decimal.RequireFromString("-1.00")}
	tx, err := row.Transaction(parseBR)
	require.NoError(t, err)
	assert.Equal(t, TypeDebit, tx.Type)
}

func TestTransactionRowBadDate(t *testing.T) {
	row := TransactionRow{Date: "bogus"}
	_, err := row.Transaction(parseBR)
	assert.Error(t, err)
}

func TestCollectionRowRoundTrip(t *testing.T) {
	original := CollectionRecord{
		Payer:              "JOAO DA SILVA",
		OurNumber:          "12345",
		YourNumber:         "A1",
		ExpectedCreditDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		DueDate:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		GrossAmount:        decimal.RequireFromString("100.00"),
		LateFee:            decimal.RequireFromString("2.50"),
		ChargedAmount:      decimal.RequireFromString("102.50"),
		SourceFile:         "francesinha-2024-03",
	}

	row := NewCollectionRow(original, "02/01/2006")
	// Zero dates travel as empty cells.
	assert.Equal(t, "", row.SettlementDate)
	assert.Equal(t, "", row.PaymentDeadline)

	back, err := row.CollectionRecord(parseBR)
	require.NoError(t, err)
	assert.True(t, original.GrossAmount.Equal(back.GrossAmount))
	assert.True(t, original.LateFee.Equal(back.LateFee))
	assert.Equal(t, original.Payer, back.Payer)
	assert.Equal(t, original.ExpectedCreditDate, back.ExpectedCreditDate)
	assert.False(t, back.IsSettled())
}
