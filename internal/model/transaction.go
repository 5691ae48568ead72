package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction relative to the account.
type TransactionType string

const (
	Debit  TransactionType = "Debit"
	Credit TransactionType = "Credit"
)

// Valid reports whether t is Debit or Credit.
func (t TransactionType) Valid() bool {
	return t == Debit || t == Credit
}

// Currency is an ISO 4217 code supported by the generator.
type Currency string

const (
	CAD Currency = "CAD"
	USD Currency = "USD"
)

// Currencies lists every supported currency.
var Currencies = []Currency{CAD, USD}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

// Transaction is one row of a generated dataset.
type Transaction struct {
	Date        time.Time // serialized as a calendar date; the clock part only drives ordering
	Type        TransactionType
	Description string
	Amount      decimal.Decimal // always >= 0
	Balance     decimal.Decimal // running balance after this transaction
	Currency    Currency
}

// SignedAmount returns Amount negated for debits.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}
