package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/ledgerpal-dev/ledgerpal/internal/bank"
	"github.com/ledgerpal-dev/ledgerpal/internal/posting"
	"github.com/ledgerpal-dev/ledgerpal/internal/resources"
)

// modeHeader marks the output as a ledger file for editors.
const modeHeader = "; -*- ledger -*-\n\n"

// Export reads a bank CSV from r and appends one rendered posting per data
// row to w, in row order. The first CSV row is assumed to be a header and is
// skipped. Any row failure aborts the run; postings already written stay in
// the output.
func Export(r io.Reader, w io.Writer, def bank.Definition, store *resources.Store) (int, error) {
	ext, err := bank.NewExtractor(def)
	if err != nil {
		return 0, err
	}

	if def.Encoding != "" {
		dec, err := decoder(def.Encoding)
		if err != nil {
			return 0, fmt.Errorf("bank %s: %w", def.Name, err)
		}
		r = transform.NewReader(r, dec)
	}

	cr := csv.NewReader(r)
	cr.Comma = def.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading header row: %w", err)
	}

	if _, err := io.WriteString(w, modeHeader); err != nil {
		return 0, fmt.Errorf("writing ledger header: %w", err)
	}

	count := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}

		p, err := posting.Build(row, ext, store)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}

		block, err := posting.Render(p)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}

		if _, err := io.WriteString(w, block); err != nil {
			return count, fmt.Errorf("row %d: writing posting: %w", count+2, err)
		}
		count++
	}
	return count, nil
}

func decoder(name string) (transform.Transformer, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc.NewDecoder(), nil
}
