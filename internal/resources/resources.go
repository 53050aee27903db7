package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ledgerpal-dev/ledgerpal/internal/model"
)

// FileName is the resource configuration file looked up next to the user.
const FileName = ".ledgerpalrc"

// DefaultCurrency is used for account numbers with no configured currency.
const DefaultCurrency = "$"

// UnknownExpenses is the destination for payees with no matching rule.
const UnknownExpenses = "Expenses:Unknown"

// Account maps a bank account number to a ledger account and currency.
type Account struct {
	Account  string `yaml:"account"`
	Currency string `yaml:"currency"`
}

// Config is the user-authored resource file. Rules are keyed by ledger
// account in the file because that avoids repeating long account names; the
// store re-keys them by payee at load time.
type Config struct {
	Accounts map[string]Account            `yaml:"accounts"`
	Aliases  map[string]string             `yaml:"aliases"`
	Rules    map[string]map[string]float64 `yaml:"rules"`
}

// Store holds the loaded mapping data. It is read-only after Load.
type Store struct {
	accounts  map[string]Account
	aliases   map[string]string
	aliasKeys []string                              // match order: longest first, then lexicographic
	rules     map[string]map[string]decimal.Decimal // payee -> account -> percent
}

// Load builds a Store from a Config, inverting the rules to be payee-keyed
// and validating that every payee's percentages sum to exactly 100.
func Load(cfg Config) (*Store, error) {
	s := &Store{
		accounts: cfg.Accounts,
		aliases:  cfg.Aliases,
		rules:    invertRules(cfg.Rules),
	}
	if s.accounts == nil {
		s.accounts = map[string]Account{}
	}
	if s.aliases == nil {
		s.aliases = map[string]string{}
	}

	for key := range s.aliases {
		s.aliasKeys = append(s.aliasKeys, key)
	}
	sort.Slice(s.aliasKeys, func(i, j int) bool {
		a, b := s.aliasKeys[i], s.aliasKeys[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	payees := make([]string, 0, len(s.rules))
	for payee := range s.rules {
		payees = append(payees, payee)
	}
	sort.Strings(payees)
	for _, payee := range payees {
		sum := decimal.Zero
		for _, pct := range s.rules[payee] {
			sum = sum.Add(pct)
		}
		if !sum.Equal(decimal.NewFromInt(100)) {
			return nil, &model.RulePercentageError{Payee: payee, Sum: sum}
		}
	}
	return s, nil
}

// invertRules re-keys account -> payee -> percent as payee -> account -> percent.
func invertRules(rules map[string]map[string]float64) map[string]map[string]decimal.Decimal {
	inverted := make(map[string]map[string]decimal.Decimal)
	for account, payees := range rules {
		for payee, pct := range payees {
			if inverted[payee] == nil {
				inverted[payee] = make(map[string]decimal.Decimal)
			}
			inverted[payee][account] = decimal.NewFromFloat(pct)
		}
	}
	return inverted
}

// LoadFile reads and parses a resource file. The file is authored as JSON,
// which the YAML decoder accepts as-is.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resources: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing resources %s: %w", path, err)
	}
	return Load(cfg)
}

// SearchPaths returns the candidate resource file locations, in priority
// order: the working directory, the output file's directory, then home.
func SearchPaths(outputPath string) []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, FileName))
	}
	paths = append(paths, filepath.Join(filepath.Dir(outputPath), FileName))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	return paths
}

// Discover loads the first existing resource file among paths. If none
// exists it returns an empty store, so the tool stays usable before the user
// has written any configuration.
func Discover(paths []string) (*Store, error) {
	for _, p := range paths {
		s, err := LoadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return Load(Config{})
}

// LedgerAccount returns the ledger account for a bank account number at
// 100%. Unmapped numbers (or mapped ones without an account name) resolve to
// "Assets:<number>".
func (s *Store) LedgerAccount(accountNumber string) map[string]decimal.Decimal {
	name := s.accounts[accountNumber].Account
	if name == "" {
		name = "Assets:" + accountNumber
	}
	return map[string]decimal.Decimal{name: decimal.NewFromInt(100)}
}

// Currency returns the currency code for a bank account number, "$" when
// unmapped.
func (s *Store) Currency(accountNumber string) string {
	if c := s.accounts[accountNumber].Currency; c != "" {
		return c
	}
	return DefaultCurrency
}

// Payee resolves a raw bank description to a canonical payee. The first
// alias whose key is contained in the description wins; keys are tried
// longest first so the most specific alias takes precedence. Descriptions
// with no matching alias pass through unchanged.
func (s *Store) Payee(description string) string {
	for _, key := range s.aliasKeys {
		if key != "" && strings.Contains(description, key) {
			return s.aliases[key]
		}
	}
	return description
}

// PayeeAccounts returns a copy of the payee's destination split, or
// {"Expenses:Unknown": 100} when no rule exists for the payee.
func (s *Store) PayeeAccounts(payee string) map[string]decimal.Decimal {
	rule, ok := s.rules[payee]
	if !ok {
		return map[string]decimal.Decimal{UnknownExpenses: decimal.NewFromInt(100)}
	}
	out := make(map[string]decimal.Decimal, len(rule))
	for account, pct := range rule {
		out[account] = pct
	}
	return out
}

// AccountCount returns the number of configured account mappings.
func (s *Store) AccountCount() int { return len(s.accounts) }

// AliasCount returns the number of configured aliases.
func (s *Store) AliasCount() int { return len(s.aliases) }

// RuleCount returns the number of payees with a destination split.
func (s *Store) RuleCount() int { return len(s.rules) }
