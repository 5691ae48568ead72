package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnkit/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// scripted replays fixed values; IntN reduces modulo n.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

var start = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

func defaultOpts(count int) Options {
	return Options{
		Count:          count,
		StartDate:      start,
		InitialBalance: dec("3500.00"),
		Currency:       model.CAD,
	}
}

func TestGenerate_Count(t *testing.T) {
	g := New(NewSource(1))
	txns := g.Generate(defaultOpts(75))
	assert.Len(t, txns, 75)
}

func TestGenerate_ZeroAndNegativeCount(t *testing.T) {
	g := New(NewSource(1))
	assert.Empty(t, g.Generate(defaultOpts(0)))
	assert.Empty(t, g.Generate(defaultOpts(-3)))
}

func TestGenerate_Deterministic(t *testing.T) {
	a := New(NewSource(42)).Generate(defaultOpts(50))
	b := New(NewSource(42)).Generate(defaultOpts(50))
	require.Len(t, b, len(a))
	for i := range a {
		assert.True(t, a[i].Date.Equal(b[i].Date))
		assert.Equal(t, a[i].Description, b[i].Description)
		assert.True(t, a[i].Amount.Equal(b[i].Amount))
		assert.True(t, a[i].Balance.Equal(b[i].Balance))
	}

	c := New(NewSource(43)).Generate(defaultOpts(50))
	same := true
	for i := range a {
		if a[i].Description != c[i].Description || !a[i].Amount.Equal(c[i].Amount) {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should produce different datasets")
}

func TestGenerate_BalanceChain(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		opts := defaultOpts(300)
		txns := New(NewSource(seed)).Generate(opts)

		prev := opts.InitialBalance
		for i, txn := range txns {
			want := prev.Add(txn.SignedAmount()).Round(2)
			assert.True(t, want.Equal(txn.Balance), "seed %d row %d: want %s got %s", seed, i, want, txn.Balance)
			prev = txn.Balance
		}
	}
}

func TestGenerate_AmountsAndDirection(t *testing.T) {
	txns := New(NewSource(7)).Generate(defaultOpts(500))
	prev := dec("3500.00")
	for i, txn := range txns {
		assert.False(t, txn.Amount.IsNegative(), "row %d amount %s", i, txn.Amount)
		assert.True(t, txn.Amount.Equal(txn.Amount.Round(2)), "row %d has more than 2 decimal places", i)
		switch txn.Type {
		case model.Debit:
			assert.True(t, txn.Balance.LessThanOrEqual(prev), "row %d debit should not raise balance", i)
		case model.Credit:
			assert.True(t, txn.Balance.GreaterThanOrEqual(prev), "row %d credit should not lower balance", i)
		default:
			t.Fatalf("row %d: unexpected type %q", i, txn.Type)
		}
		assert.Equal(t, model.CAD, txn.Currency)
		prev = txn.Balance
	}
}

func TestGenerate_AmountsWithinCategoryRange(t *testing.T) {
	byMerchant := make(map[string]Template)
	for _, list := range [][]Template{DefaultCatalog.Debits, DefaultCatalog.Credits} {
		for _, tpl := range list {
			for _, m := range tpl.Merchants {
				byMerchant[m] = tpl
			}
		}
	}

	txns := New(NewSource(11)).Generate(defaultOpts(1000))
	for i, txn := range txns {
		merchant := txn.Description
		if txn.Type == model.Debit {
			idx := strings.LastIndex(merchant, " #")
			require.Positive(t, idx, "row %d: debit description %q lacks #NNNN suffix", i, merchant)
			merchant = merchant[:idx]
		}
		tpl, ok := byMerchant[merchant]
		require.True(t, ok, "row %d: unknown merchant %q", i, merchant)

		inRange := txn.Amount.GreaterThanOrEqual(tpl.Min) && txn.Amount.LessThanOrEqual(tpl.Max)
		forced := txn.Type == model.Credit &&
			txn.Amount.GreaterThanOrEqual(ForcedCreditMin) && txn.Amount.LessThanOrEqual(ForcedCreditMax)
		assert.True(t, inRange || forced, "row %d: %s %s outside [%s, %s]", i, txn.Description, txn.Amount, tpl.Min, tpl.Max)
	}
}

func TestGenerate_DebitSuffix(t *testing.T) {
	txns := New(NewSource(3)).Generate(defaultOpts(200))
	for _, txn := range txns {
		if txn.Type != model.Debit {
			assert.NotContains(t, txn.Description, "#")
			continue
		}
		idx := strings.LastIndex(txn.Description, "#")
		require.Positive(t, idx)
		suffix := txn.Description[idx+1:]
		require.Len(t, suffix, 4)
		assert.GreaterOrEqual(t, suffix, "1000")
		assert.LessOrEqual(t, suffix, "9999")
	}
}

func TestGenerate_DatesNonDecreasing(t *testing.T) {
	txns := New(NewSource(5)).Generate(defaultOpts(200))
	require.NotEmpty(t, txns)
	assert.True(t, txns[0].Date.Equal(start))
	for i := 1; i < len(txns); i++ {
		gap := txns[i].Date.Sub(txns[i-1].Date)
		assert.GreaterOrEqual(t, gap, time.Duration(0), "row %d goes back in time", i)
		assert.LessOrEqual(t, gap, 3*24*time.Hour+23*time.Hour, "row %d advances too far", i)
	}
}

func TestGenerate_DefaultStartDate(t *testing.T) {
	g := New(NewSource(1))
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	opts := defaultOpts(1)
	opts.StartDate = time.Time{}
	txns := g.Generate(opts)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Date.Equal(now.AddDate(0, 0, -90)))
}

func TestGenerate_OverdraftForcesCredit(t *testing.T) {
	src := &scripted{
		// debit draw, debit amount (GROCERY 112.50), forced credit amount (3000.00)
		floats: []float64{0.9, 0.5, 0.5},
		// GROCERY, WHOLE FOODS, suffix 1000, DEPOSIT, PAYROLL DEPOSIT, +1 day, +2 hours
		ints: []int{0, 0, 0, 0, 0, 1, 2},
	}
	opts := defaultOpts(1)
	opts.InitialBalance = dec("-400.00")

	txns := New(src).Generate(opts)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, model.Credit, txn.Type)
	assert.Equal(t, "PAYROLL DEPOSIT", txn.Description)
	assert.Equal(t, "3000.00", txn.Amount.StringFixed(2))
	assert.Equal(t, "2600.00", txn.Balance.StringFixed(2))
}

func TestGenerate_DebitAtFloorIsKept(t *testing.T) {
	src := &scripted{
		// debit draw, GROCERY at the low end: 25.00
		floats: []float64{0.9, 0},
		ints:   []int{0, 0, 0},
	}
	opts := defaultOpts(1)
	opts.InitialBalance = dec("-475.00")

	txns := New(src).Generate(opts)
	require.Len(t, txns, 1)
	assert.Equal(t, model.Debit, txns[0].Type)
	assert.Equal(t, "WHOLE FOODS #1000", txns[0].Description)
	assert.Equal(t, "-500.00", txns[0].Balance.StringFixed(2))
}

func TestGenerate_NoDebitBreachesFloor(t *testing.T) {
	for seed := uint64(100); seed < 110; seed++ {
		opts := defaultOpts(2000)
		opts.InitialBalance = decimal.Zero
		for i, txn := range New(NewSource(seed)).Generate(opts) {
			if txn.Type == model.Debit {
				assert.True(t, txn.Balance.GreaterThanOrEqual(OverdraftFloor), "seed %d row %d: balance %s", seed, i, txn.Balance)
			}
		}
	}
}

func TestDefaultCatalog(t *testing.T) {
	for _, list := range [][]Template{DefaultCatalog.Debits, DefaultCatalog.Credits} {
		for _, tpl := range list {
			assert.NotEmpty(t, tpl.Merchants, tpl.Category)
			assert.True(t, tpl.Min.LessThanOrEqual(tpl.Max), tpl.Category)
		}
	}
	require.Len(t, DefaultCatalog.Debits, 8)
	require.Len(t, DefaultCatalog.Credits, 4)
	assert.Equal(t, "DEPOSIT", DefaultCatalog.Credits[0].Category)
	assert.Equal(t, "1500", DefaultCatalog.Credits[0].Min.String())
	assert.Equal(t, "4000", DefaultCatalog.Credits[0].Max.String())
}
