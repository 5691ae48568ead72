package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnkit/internal/model"
)

// document is the JSON shape of one transaction.
type document struct {
	Date            string      `json:"date"`
	TransactionType string      `json:"transaction_type"`
	Description     string      `json:"description"`
	Amount          json.Number `json:"amount"`
	Balance         json.Number `json:"balance"`
	Currency        string      `json:"currency"`
}

// WriteJSON writes transactions as a pretty-printed JSON array.
func WriteJSON(w io.Writer, txns []model.Transaction) error {
	docs := make([]document, 0, len(txns))
	for _, txn := range txns {
		docs = append(docs, document{
			Date:            txn.Date.Format(dateFormat),
			TransactionType: string(txn.Type),
			Description:     txn.Description,
			Amount:          json.Number(txn.Amount.StringFixed(2)),
			Balance:         json.Number(txn.Balance.StringFixed(2)),
			Currency:        string(txn.Currency),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encoding transactions JSON: %w", err)
	}
	return nil
}

// ReadJSON reads a JSON array written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.Transaction, error) {
	var docs []document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding transactions JSON: %w", err)
	}

	txns := make([]model.Transaction, 0, len(docs))
	for i, d := range docs {
		date, err := time.Parse(dateFormat, d.Date)
		if err != nil {
			return nil, fmt.Errorf("item %d: parsing date %q: %w", i, d.Date, err)
		}
		amount, err := decimal.NewFromString(d.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("item %d: parsing amount %q: %w", i, d.Amount, err)
		}
		balance, err := decimal.NewFromString(d.Balance.String())
		if err != nil {
			return nil, fmt.Errorf("item %d: parsing balance %q: %w", i, d.Balance, err)
		}
		txns = append(txns, model.Transaction{
			Date:        date,
			Type:        model.TransactionType(d.TransactionType),
			Description: d.Description,
			Amount:      amount,
			Balance:     balance,
			Currency:    model.Currency(d.Currency),
		})
	}
	return txns, nil
}
