// Package models defines the core data types shared by the reconciliation
// engine: bank-statement transactions, Francesinha collection records and
// the ledger entries produced from them.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the side of a bank-statement transaction.
type TransactionType string

const (
	// TypeDebit marks transactions that take money out of the account.
	TypeDebit TransactionType = "DEBIT"
	// TypeCredit marks transactions that bring money into the account.
	TypeCredit TransactionType = "CREDIT"
)

const (
	// SettlementMemo is the exact memo text the bank writes on the batch
	// credit for cleared collection slips. Lines carrying it are aggregated
	// by date instead of going through the rule cascade.
	SettlementMemo = "CRÉD.LIQUIDAÇÃO COBRANÇA"

	// InterestOrigin tags the synthetic rows derived from collection records
	// that carry a late-payment fee.
	InterestOrigin = "Juros de Mora"
)

// Transaction is one bank-statement line from an OFX file, already
// normalized by the parser. It is immutable once parsed.
type Transaction struct {
	Date       time.Time
	Amount     decimal.Decimal
	Type       TransactionType
	ID         string
	Memo       string
	Payee      string
	SourceFile string
}

// TypeFromAmount derives the transaction type from the amount sign.
// Negative amounts are debits. This is the single type-derivation
// convention used for OFX data; the TRNTYPE field from the source file is
// kept for audit only and never drives the DEBIT/CREDIT partition.
func TypeFromAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeDebit
	}
	return TypeCredit
}

// AbsAmount returns the transaction amount with the sign stripped, which is
// how amounts appear on ledger entries.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsSettlement reports whether this line is part of a collection settlement
// batch rather than an ordinary statement line.
func (t Transaction) IsSettlement() bool {
	return t.Memo == SettlementMemo
}

// CollectionRecord is one row of a Francesinha bank-slip collection report.
type CollectionRecord struct {
	Payer              string
	OurNumber          string
	YourNumber         string
	ExpectedCreditDate time.Time
	DueDate            time.Time
	PaymentDeadline    time.Time
	GrossAmount        decimal.Decimal
	LateFee            decimal.Decimal
	Discount           decimal.Decimal
	OtherAdditions     decimal.Decimal
	// SettlementDate is zero for slips that have not been paid yet.
	SettlementDate time.Time
	ChargedAmount  decimal.Decimal
	SourceFile     string
}

// IsSettled reports whether the slip has an actual settlement date.
func (r CollectionRecord) IsSettled() bool {
	return !r.SettlementDate.IsZero()
}

// IsInterest reports whether this record is a synthetic interest row
// derived from a late-paid slip, rather than a row read from a report.
func (r CollectionRecord) IsInterest() bool {
	return r.SourceFile == InterestOrigin
}

// LedgerEntry is the canonical output unit of a reconciliation run, shaped
// for the accounting-software import CSV: dates as DD/MM/YYYY, amounts with
// two decimals and a comma separator.
type LedgerEntry struct {
	// Selected is a batch-edit aid only. It never reaches persistence or
	// export, hence the csv:"-" tag.
	Selected   bool   `csv:"-"`
	Debit      string `csv:"Debito"`
	Credit     string `csv:"Credito"`
	History    string `csv:"Historico"`
	Date       string `csv:"Data"`
	Amount     string `csv:"Valor"`
	Complement string `csv:"Complemento"`
	Origin     string `csv:"Origem"`
}

// IsReconciled reports whether the entry received at least one account code.
// Entries failing this are flagged for manual fill, never dropped.
func (e LedgerEntry) IsReconciled() bool {
	return e.Debit != "" || e.Credit != ""
}
