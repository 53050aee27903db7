package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerpal-dev/ledgerpal/internal/bank"
	"github.com/ledgerpal-dev/ledgerpal/internal/export"
	"github.com/ledgerpal-dev/ledgerpal/internal/resources"
)

func newImportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <bank> <input.csv>",
		Short: "Convert a bank CSV export into ledger postings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolving input path: %w", err)
			}
			return runImport(cmd, args[0], input, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "ledger file to append postings to (default: input with .ledger extension)")

	return cmd
}

func runImport(cmd *cobra.Command, bankName, input, output string) error {
	def, ok := bank.DefaultRegistry().Get(bankName)
	if !ok {
		return fmt.Errorf("unknown bank %q (available: %s)", bankName, strings.Join(bank.DefaultRegistry().Names(), ", "))
	}

	if output == "" {
		output = export.DefaultOutputPath(input)
	}

	store, err := resources.Discover(resources.SearchPaths(output))
	if err != nil {
		return fmt.Errorf("loading resources: %w", err)
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	// Postings are appended, so an existing journal is copied aside first.
	if _, statErr := os.Stat(output); statErr == nil {
		backup, err := export.Backup(output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s to %s\n", filepath.Base(output), filepath.Base(backup))
	}

	out, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	count, err := export.Export(in, out, def, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d postings to %s\n", count, output)
	return nil
}
