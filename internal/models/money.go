package models

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func init() {
	// prices travel as JSON numbers, as the remote catalog sends them
	decimal.MarshalJSONWithoutQuotes = true
}

// StoreCurrency is the currency of every catalog price.
var StoreCurrency = currency.USD

type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency currency.Unit   `json:"-"`
}

func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.StringFixed(2)
}
