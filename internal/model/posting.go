package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one ledger entry built from a single bank CSV row. The source
// side is the bank account the money moves through; the destination side is
// the set of expense (or income) accounts the payee's rule splits it across.
// Percentages are per account and must sum to 100 on the destination side.
type Posting struct {
	SourceAccounts      map[string]decimal.Decimal // account name -> percent
	Currency            string
	Date                time.Time
	CheckNumber         string
	Payee               string
	DestinationAccounts map[string]decimal.Decimal // account name -> percent
	Amount              decimal.Decimal            // negative = money leaving the source account
}

// RulePercentageError reports a destination split whose percentages do not
// sum to exactly 100. It is raised both when rules are loaded and again when
// a posting is rendered.
type RulePercentageError struct {
	Payee string
	Sum   decimal.Decimal
}

func (e *RulePercentageError) Error() string {
	if e.Payee == "" {
		return fmt.Sprintf("rule percentages sum to %s, want 100", e.Sum)
	}
	return fmt.Sprintf("rule percentages for payee %q sum to %s, want 100", e.Payee, e.Sum)
}

var hundred = decimal.NewFromInt(100)

// Validate checks that the destination percentages sum to exactly 100.
func (p Posting) Validate() error {
	sum := decimal.Zero
	for _, pct := range p.DestinationAccounts {
		sum = sum.Add(pct)
	}
	if !sum.Equal(hundred) {
		return &RulePercentageError{Payee: p.Payee, Sum: sum}
	}
	return nil
}
