package posting

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ledgerpal-dev/ledgerpal/internal/model"
)

const (
	accountIndent = "    "
	// amountColumn is where the rightmost character of an amount lands,
	// counted from the start of the indented account line.
	amountColumn = 62

	dateLayout = "2006/01/02"
)

// Render formats a Posting as a ledger text block. The destination split is
// re-validated immediately before formatting, so a rule mutated (or a posting
// built by hand) after load still cannot produce an unbalanced block.
//
// The side carrying explicit amounts is the destination set for expenses
// (amount < 0) and the source set for income. The other side balances with a
// bare account name, except for multi-way splits where the balancing amount
// is written out so the split stays auditable.
func Render(p model.Posting) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	amountSide, balanceSide := p.DestinationAccounts, p.SourceAccounts
	if p.Amount.Sign() >= 0 {
		amountSide, balanceSide = p.SourceAccounts, p.DestinationAccounts
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s * %s\n", p.Date.Format(dateLayout), p.Payee)

	for _, name := range sortedNames(amountSide) {
		writeAmountLine(&b, name, FormatAmount(p.Amount, amountSide[name], p.Currency))
	}

	balanceNames := sortedNames(balanceSide)
	if len(balanceNames) == 0 {
		return "", fmt.Errorf("posting for payee %q has no balancing account", p.Payee)
	}
	balance := balanceNames[0]
	if len(amountSide) > 1 {
		writeAmountLine(&b, balance, formatCurrency(p.Amount.Abs().Neg(), p.Currency))
	} else {
		fmt.Fprintf(&b, "%s%s\n", accountIndent, balance)
	}
	return b.String(), nil
}

// FormatAmount formats the share of amount assigned by percent, unsigned,
// with two decimal places, paired with the currency code. Alphabetic codes
// follow the amount ("10.00 USD"); symbol currencies precede it ("$ 10.00").
func FormatAmount(amount, percent decimal.Decimal, currency string) string {
	share := amount.Mul(percent).Div(hundred).Abs()
	return formatCurrency(share, currency)
}

var hundred = decimal.NewFromInt(100)

func formatCurrency(value decimal.Decimal, currency string) string {
	if isAlphabetic(currency) {
		return value.StringFixed(2) + " " + currency
	}
	return currency + " " + value.StringFixed(2)
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func writeAmountLine(b *strings.Builder, account, amount string) {
	pad := amountColumn - utf8.RuneCountInString(accountIndent+account) - utf8.RuneCountInString(amount)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(b, "%s%s%s%s\n", accountIndent, account, strings.Repeat(" ", pad), amount)
}

func sortedNames(accounts map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
