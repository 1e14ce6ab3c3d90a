package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is the normalized CSV shape of a bank-statement line, the
// interchange format between the ofx subcommand and the reconcile step.
type TransactionRow struct {
	Date       string          `csv:"Data"`
	Amount     decimal.Decimal `csv:"Valor"`
	Type       string          `csv:"Tipo"`
	ID         string          `csv:"Id"`
	Memo       string          `csv:"Memo"`
	Payee      string          `csv:"Payee"`
	SourceFile string          `csv:"ArquivoOrigem"`
}

// CollectionRow is the normalized CSV shape of a Francesinha record.
type CollectionRow struct {
	Payer              string          `csv:"Sacado"`
	OurNumber          string          `csv:"NossoNumero"`
	YourNumber         string          `csv:"SeuNumero"`
	ExpectedCreditDate string          `csv:"DtPrevisaoCredito"`
	DueDate            string          `csv:"Vencimento"`
	PaymentDeadline    string          `csv:"DtLimitePgto"`
	GrossAmount        decimal.Decimal `csv:"ValorRS"`
	LateFee            decimal.Decimal `csv:"VlrMora"`
	Discount           decimal.Decimal `csv:"VlrDesc"`
	OtherAdditions     decimal.Decimal `csv:"VlrOutrosAcresc"`
	SettlementDate     string          `csv:"DtLiquid"`
	ChargedAmount      decimal.Decimal `csv:"VlrCobrado"`
	SourceFile         string          `csv:"ArquivoOrigem"`
}

// NewTransactionRow converts a parsed transaction into its CSV row shape.
func NewTransactionRow(t Transaction, dateLayout string) TransactionRow {
	return TransactionRow{
		Date:       t.Date.Format(dateLayout),
		Amount:     t.Amount,
		Type:       string(t.Type),
		ID:         t.ID,
		Memo:       t.Memo,
		Payee:      t.Payee,
		SourceFile: t.SourceFile,
	}
}

// Transaction converts the row back into the in-memory form. The parse
// function is supplied by the caller so this package stays free of date
// format policy.
func (r TransactionRow) Transaction(parseDate func(string) (time.Time, error)) (Transaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		Date:       date,
		Amount:     r.Amount,
		ID:         r.ID,
		Memo:       r.Memo,
		Payee:      r.Payee,
		SourceFile: r.SourceFile,
	}
	switch TransactionType(r.Type) {
	case TypeDebit, TypeCredit:
		t.Type = TransactionType(r.Type)
	default:
		t.Type = TypeFromAmount(r.Amount)
	}
	return t, nil
}

// NewCollectionRow converts a collection record into its CSV row shape.
// Zero dates become empty cells.
func NewCollectionRow(r CollectionRecord, dateLayout string) CollectionRow {
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	}
	return CollectionRow{
		Payer:              r.Payer,
		OurNumber:          r.OurNumber,
		YourNumber:         r.YourNumber,
		ExpectedCreditDate: format(r.ExpectedCreditDate),
		DueDate:            format(r.DueDate),
		PaymentDeadline:    format(r.PaymentDeadline),
		GrossAmount:        r.GrossAmount,
		LateFee:            r.LateFee,
		Discount:           r.Discount,
		OtherAdditions:     r.OtherAdditions,
		SettlementDate:     format(r.SettlementDate),
		ChargedAmount:      r.ChargedAmount,
		SourceFile:         r.SourceFile,
	}
}

// CollectionRecord converts the row back into the in-memory form. Empty
// date cells stay as zero times, which keeps unsettled slips unsettled.
func (r CollectionRow) CollectionRecord(parseDate func(string) (time.Time, error)) (CollectionRecord, error) {
	parse := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		return parseDate(s)
	}
	expected, err := parse(r.ExpectedCreditDate)
	if err != nil {
		return CollectionRecord{}, err
	}
	due, err := parse(r.DueDate)
	if err != nil {
		return CollectionRecord{}, err
	}
	deadline, err := parse(r.PaymentDeadline)
	if err != nil {
		return CollectionRecord{}, err
	}
	settled, err := parse(r.SettlementDate)
	if err != nil {
		return CollectionRecord{}, err
	}
	return CollectionRecord{
		Payer:              r.Payer,
		OurNumber:          r.OurNumber,
		YourNumber:         r.YourNumber,
		ExpectedCreditDate: expected,
		DueDate:            due,
		PaymentDeadline:    deadline,
		GrossAmount:        r.GrossAmount,
		LateFee:            r.LateFee,
		Discount:           r.Discount,
		OtherAdditions:     r.OtherAdditions,
		SettlementDate:     settled,
		ChargedAmount:      r.ChargedAmount,
		SourceFile:         r.SourceFile,
	}, nil
}
