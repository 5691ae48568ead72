package verify

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnkit/internal/generator"
	"github.com/cleared-dev/txnkit/internal/model"
)

// Check names reported in ValidationError.
const (
	CheckAmount    = "amount"
	CheckPrecision = "precision"
	CheckType      = "type"
	CheckCurrency  = "currency"
	CheckOrder     = "order"
	CheckBalance   = "balance"
	CheckOverdraft = "overdraft"
)

// ValidationError describes a single violated dataset invariant.
type ValidationError struct {
	Check       string
	Row         int // 1-based data row
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [row %d]: %s", e.Check, e.Row, e.Description)
}

// Options tunes validation.
type Options struct {
	// OpeningBalance, when valid, lets the first row's balance be checked too.
	OpeningBalance decimal.NullDecimal
}

var hundred = decimal.NewFromInt(100)

// Transactions checks a generated dataset: non-negative cent amounts, known
// types and a single supported currency, chronological order, a consistent
// running balance, and no debit below the overdraft floor.
func Transactions(txns []model.Transaction, opts Options) []ValidationError {
	var errs []ValidationError
	add := func(check string, row int, format string, args ...any) {
		errs = append(errs, ValidationError{Check: check, Row: row, Description: fmt.Sprintf(format, args...)})
	}

	var currency model.Currency
	for i, txn := range txns {
		row := i + 1

		if txn.Amount.IsNegative() {
			add(CheckAmount, row, "amount %s is negative", txn.Amount.StringFixed(2))
		}
		if !hasCents(txn.Amount) {
			add(CheckPrecision, row, "amount %s has more than 2 decimal places", txn.Amount)
		}
		if !hasCents(txn.Balance) {
			add(CheckPrecision, row, "balance %s has more than 2 decimal places", txn.Balance)
		}

		if !txn.Type.Valid() {
			add(CheckType, row, "unknown transaction type %q", txn.Type)
		}

		switch {
		case !txn.Currency.Valid():
			add(CheckCurrency, row, "unsupported currency %q", txn.Currency)
		case currency == "":
			currency = txn.Currency
		case txn.Currency != currency:
			add(CheckCurrency, row, "currency %s differs from %s", txn.Currency, currency)
		}

		if i > 0 && txn.Date.Before(txns[i-1].Date) {
			add(CheckOrder, row, "date %s is before %s", txn.Date.Format("2006-01-02"), txns[i-1].Date.Format("2006-01-02"))
		}

		var prev decimal.Decimal
		havePrev := false
		if i > 0 {
			prev, havePrev = txns[i-1].Balance, true
		} else if opts.OpeningBalance.Valid {
			prev, havePrev = opts.OpeningBalance.Decimal, true
		}
		if havePrev && txn.Type.Valid() {
			want := prev.Add(txn.SignedAmount()).Round(2)
			if !want.Equal(txn.Balance) {
				add(CheckBalance, row, "balance %s, expected %s", txn.Balance.StringFixed(2), want.StringFixed(2))
			}
		}

		if txn.Type == model.Debit && txn.Balance.LessThan(generator.OverdraftFloor) {
			add(CheckOverdraft, row, "debit leaves balance %s below %s", txn.Balance.StringFixed(2), generator.OverdraftFloor.StringFixed(2))
		}
	}
	return errs
}

func hasCents(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Truncate(0))
}
