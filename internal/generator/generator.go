package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnkit/internal/model"
)

// CreditProbability is the chance that a generated transaction is a credit.
const CreditProbability = 0.25

// DefaultLookback is how far before now a dataset starts when no start date is given.
const DefaultLookback = 90 * 24 * time.Hour

var (
	// OverdraftFloor is the lowest balance a generated transaction may leave.
	OverdraftFloor = decimal.NewFromInt(-500)
	// ForcedCreditMin and ForcedCreditMax bound the credit injected when a
	// transaction would push the balance below OverdraftFloor.
	ForcedCreditMin = decimal.NewFromInt(2000)
	ForcedCreditMax = decimal.NewFromInt(4000)
)

// Source is the randomness the generator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Options controls a single dataset.
type Options struct {
	Count          int
	StartDate      time.Time // zero means DefaultLookback before now
	InitialBalance decimal.Decimal
	Currency       model.Currency
}

// Generator produces synthetic chequing transactions.
type Generator struct {
	rng     Source
	catalog Catalog
	now     func() time.Time
}

// New creates a Generator drawing from rng with the default catalog.
func New(rng Source) *Generator {
	return &Generator{rng: rng, catalog: DefaultCatalog, now: time.Now}
}

// Generate returns opts.Count transactions in chronological order, each
// carrying the running balance after it is applied.
func (g *Generator) Generate(opts Options) []model.Transaction {
	if opts.Count <= 0 {
		return nil
	}

	current := opts.StartDate
	if current.IsZero() {
		current = g.now().Add(-DefaultLookback)
	}
	balance := opts.InitialBalance

	txns := make([]model.Transaction, 0, opts.Count)
	for range opts.Count {
		txnType, desc, amount := g.draw()

		signed := amount
		if txnType == model.Debit {
			signed = amount.Neg()
		}
		next := balance.Add(signed).Round(2)

		if next.LessThan(OverdraftFloor) {
			txnType, desc, amount = g.forcedCredit()
			next = balance.Add(amount).Round(2)
		}

		txns = append(txns, model.Transaction{
			Date:        current,
			Type:        txnType,
			Description: desc,
			Amount:      amount,
			Balance:     next,
			Currency:    opts.Currency,
		})
		balance = next

		current = current.Add(time.Duration(g.rng.IntN(4))*24*time.Hour + time.Duration(g.rng.IntN(24))*time.Hour)
	}
	return txns
}

func (g *Generator) draw() (model.TransactionType, string, decimal.Decimal) {
	if g.rng.Float64() < CreditProbability {
		t := g.pick(g.catalog.Credits)
		return model.Credit, g.merchant(t), g.uniform(t.Min, t.Max)
	}

	t := g.pick(g.catalog.Debits)
	merchant := g.merchant(t)
	amount := g.uniform(t.Min, t.Max)
	return model.Debit, fmt.Sprintf("%s #%d", merchant, 1000+g.rng.IntN(9000)), amount
}

func (g *Generator) forcedCredit() (model.TransactionType, string, decimal.Decimal) {
	t := g.pick(g.catalog.Credits)
	return model.Credit, g.merchant(t), g.uniform(ForcedCreditMin, ForcedCreditMax)
}

func (g *Generator) pick(list []Template) Template {
	return list[g.rng.IntN(len(list))]
}

func (g *Generator) merchant(t Template) string {
	return t.Merchants[g.rng.IntN(len(t.Merchants))]
}

// uniform draws from [lo, hi] rounded to cents.
func (g *Generator) uniform(lo, hi decimal.Decimal) decimal.Decimal {
	f := decimal.NewFromFloat(g.rng.Float64())
	return lo.Add(hi.Sub(lo).Mul(f)).Round(2)
}
