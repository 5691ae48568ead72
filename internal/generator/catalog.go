package generator

import "github.com/shopspring/decimal"

// Template is a transaction category with the merchants that appear under it
// and the inclusive range its amounts are drawn from.
type Template struct {
	Category  string
	Merchants []string
	Min       decimal.Decimal
	Max       decimal.Decimal
}

// Catalog groups the debit and credit templates. Both lists must be non-empty.
type Catalog struct {
	Debits  []Template
	Credits []Template
}

func tmpl(category, lo, hi string, merchants ...string) Template {
	return Template{
		Category:  category,
		Merchants: merchants,
		Min:       decimal.RequireFromString(lo),
		Max:       decimal.RequireFromString(hi),
	}
}

// DefaultCatalog is the built-in set of chequing account templates.
var DefaultCatalog = Catalog{
	Debits: []Template{
		tmpl("GROCERY", "25", "200", "WHOLE FOODS", "TRADER JOE'S", "SAFEWAY", "KROGER", "COSTCO"),
		tmpl("RESTAURANT", "5", "75", "STARBUCKS", "CHIPOTLE", "MCDONALD'S", "SUBWAY", "PANERA BREAD"),
		tmpl("GAS", "30", "80", "SHELL", "CHEVRON", "EXXON", "BP", "MOBIL"),
		tmpl("UTILITY", "50", "200", "ELECTRIC CO", "WATER DEPT", "GAS COMPANY", "INTERNET PROVIDER"),
		tmpl("SUBSCRIPTION", "5", "25", "NETFLIX", "SPOTIFY", "AMAZON PRIME", "APPLE ICLOUD", "YOUTUBE PREMIUM"),
		tmpl("SHOPPING", "20", "300", "AMAZON", "TARGET", "WALMART", "BEST BUY", "HOME DEPOT"),
		tmpl("TRANSFER", "50", "500", "E-TRANSFER TO", "WIRE TRANSFER", "INTERAC SEND"),
		tmpl("WITHDRAWAL", "40", "300", "ATM WITHDRAWAL", "CASH ADVANCE"),
	},
	Credits: []Template{
		tmpl("DEPOSIT", "1500", "4000", "PAYROLL DEPOSIT", "DIRECT DEPOSIT", "SALARY"),
		tmpl("TRANSFER", "50", "500", "E-TRANSFER FROM", "WIRE RECEIVED", "INTERAC RECEIVED"),
		tmpl("REFUND", "10", "200", "REFUND FROM", "CREDIT ADJUSTMENT", "CASHBACK REWARD"),
		tmpl("INTEREST", "0.50", "15.00", "INTEREST PAYMENT", "SAVINGS INTEREST"),
	},
}
