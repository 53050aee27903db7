package posting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerpal-dev/ledgerpal/internal/bank"
	"github.com/ledgerpal-dev/ledgerpal/internal/model"
	"github.com/ledgerpal-dev/ledgerpal/internal/resources"
)

// Build turns one raw CSV row into a Posting by extracting the bank fields
// and resolving them through the resource store. It has no side effects.
func Build(row []string, ext *bank.Extractor, store *resources.Store) (model.Posting, error) {
	date, err := ext.Date(row)
	if err != nil {
		return model.Posting{}, err
	}

	rawAmount := strings.TrimSpace(ext.Extract(row, bank.FieldAmount))
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return model.Posting{}, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}

	accountNumber := ext.Extract(row, bank.FieldAccountNumber)
	payee := store.Payee(ext.Extract(row, bank.FieldDescription))

	return model.Posting{
		SourceAccounts:      store.LedgerAccount(accountNumber),
		Currency:            store.Currency(accountNumber),
		Date:                date,
		CheckNumber:         ext.Extract(row, bank.FieldCheckNumber),
		Payee:               payee,
		DestinationAccounts: store.PayeeAccounts(payee),
		Amount:              amount,
	}, nil
}
