package rules

import (
	"vcollos/concilia-csv/internal/models"
)

// Input is the slice of a transaction the cascade looks at.
type Input struct {
	Type  models.TransactionType
	Memo  string
	Payee string
}

// InputFromTransaction extracts the cascade input from a parsed transaction.
func InputFromTransaction(t models.Transaction) Input {
	return Input{Type: t.Type, Memo: t.Memo, Payee: t.Payee}
}

// EvalDebit returns the debit account code for the row, or "" when no rule
// matches. Only DEBIT-typed rows ever receive a debit code.
func (t *Table) EvalDebit(in Input) string {
	if in.Type != models.TypeDebit {
		return ""
	}
	return evalCascade(t.Debit, in)
}

// EvalCredit returns the credit account code for the row, or "" when no rule
// matches. Only CREDIT-typed rows ever receive a credit code.
func (t *Table) EvalCredit(in Input) string {
	if in.Type != models.TypeCredit {
		return ""
	}
	return evalCascade(t.Credit, in)
}

// EvalHistory returns the history code for the row, using the cascade that
// matches the row's type.
func (t *Table) EvalHistory(in Input) string {
	switch in.Type {
	case models.TypeDebit:
		return evalCascade(t.DebitHistory, in)
	case models.TypeCredit:
		return evalCascade(t.CreditHistory, in)
	}
	return ""
}

func evalCascade(cascade []Rule, in Input) string {
	for i := range cascade {
		if cascade[i].matches(in.Memo, in.Payee) {
			return cascade[i].Code
		}
	}
	return ""
}

// Complement builds the free-text description for an OFX-side ledger entry:
// a C-/D- prefix for the transaction side, the memo, and the payee when one
// exists. The complement doubles as the basis of the saved-rule key, so its
// shape must stay stable across runs.
func Complement(in Input) string {
	var prefix string
	switch in.Type {
	case models.TypeCredit:
		prefix = "C - "
	case models.TypeDebit:
		prefix = "D - "
	}

	if in.Payee != "" {
		return prefix + in.Memo + " | " + in.Payee
	}
	return prefix + in.Memo
}
