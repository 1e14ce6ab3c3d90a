package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTypeFromAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected TransactionType
	}{
		{"Negative is debit", "-100.50", TypeDebit},
		{"Positive is credit", "250.00", TypeCredit},
		{"Zero is credit", "0", TypeCredit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			assert.Equal(t, tc.expected, TypeFromAmount(amount))
		})
	}
}

func TestTransactionAbsAmount(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("-42.10")}
	assert.True(t, decimal.RequireFromString("42.10").Equal(tx.AbsAmount()))
}

func TestTransactionIsSettlement(t *testing.T) {
	assert.True(t, Transaction{Memo: SettlementMemo}.IsSettlement())
	assert.False(t, Transaction{Memo: "TARIFA COBRANÇA"}.IsSettlement())
	// Only the exact marker counts; a memo merely containing it does not.
	assert.False(t, Transaction{Memo: SettlementMemo + " EXTRA"}.IsSettlement())
}

func TestCollectionRecordIsSettled(t *testing.T) {
	assert.False(t, CollectionRecord{}.IsSettled())
	settled := CollectionRecord{SettlementDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
	assert.True(t, settled.IsSettled())
}

func TestCollectionRecordIsInterest(t *testing.T) {
	assert.True(t, CollectionRecord{SourceFile: InterestOrigin}.IsInterest())
	assert.False(t, CollectionRecord{SourceFile: "francesinha-2024-03"}.IsInterest())
}

func TestLedgerEntryIsReconciled(t *testing.T) {
	tests := []struct {
		name     string
		entry    LedgerEntry
		expected bool
	}{
		{"Debit only", LedgerEntry{Debit: "52877"}, true},
		{"Credit only", LedgerEntry{Credit: "15254"}, true},
		{"Both", LedgerEntry{Debit: "52877", Credit: "15254"}, true},
		{"History alone does not count", LedgerEntry{History: "8"}, false},
		{"Empty", LedgerEntry{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.entry.IsReconciled())
		})
	}
}
