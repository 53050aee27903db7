package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpal-dev/ledgerpal/internal/bank"
	"github.com/ledgerpal-dev/ledgerpal/internal/resources"
)

const rbcHeader = "Type,Account,Date,Check,Desc1,Desc2,Amount,X,Y\n"

func emptyStore(t *testing.T) *resources.Store {
	t.Helper()
	s, err := resources.Load(resources.Config{})
	require.NoError(t, err)
	return s
}

func TestExport(t *testing.T) {
	input := rbcHeader +
		"Chequing,00335-1234567,5/5/2014,,VERSEMENT SUR HYP,OTHEQUE,-756.38,,\n" +
		"Chequing,00335-1234567,5/6/2014,,IGA DES SOURCES,,-50.25,,\n"

	var out bytes.Buffer
	count, err := Export(strings.NewReader(input), &out, bank.RBC(), emptyStore(t))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, "; -*- ledger -*-\n\n"+
		"\n"+
		"2014/05/05 * VERSEMENT SUR HYP OTHEQUE\n"+
		"    Expenses:Unknown                                  $ 756.38\n"+
		"    Assets:00335-1234567\n"+
		"\n"+
		"2014/05/06 * IGA DES SOURCES\n"+
		"    Expenses:Unknown                                   $ 50.25\n"+
		"    Assets:00335-1234567\n",
		out.String())
}

func TestExport_RowOrderPreserved(t *testing.T) {
	input := rbcHeader +
		"Chequing,1,5/1/2014,,FIRST,,-1.00,,\n" +
		"Chequing,1,5/2/2014,,SECOND,,-2.00,,\n" +
		"Chequing,1,5/3/2014,,THIRD,,-3.00,,\n"

	var out bytes.Buffer
	_, err := Export(strings.NewReader(input), &out, bank.RBC(), emptyStore(t))
	require.NoError(t, err)

	text := out.String()
	assert.Less(t, strings.Index(text, "FIRST"), strings.Index(text, "SECOND"))
	assert.Less(t, strings.Index(text, "SECOND"), strings.Index(text, "THIRD"))
}

func TestExport_FailFastKeepsPartialOutput(t *testing.T) {
	input := rbcHeader +
		"Chequing,1,5/1/2014,,FIRST,,-1.00,,\n" +
		"Chequing,1,NOTADATE,,SECOND,,-2.00,,\n" +
		"Chequing,1,5/3/2014,,THIRD,,-3.00,,\n"

	var out bytes.Buffer
	count, err := Export(strings.NewReader(input), &out, bank.RBC(), emptyStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Equal(t, 1, count)

	// The posting written before the failure stays in the output.
	assert.Contains(t, out.String(), "FIRST")
	assert.NotContains(t, out.String(), "SECOND")
	assert.NotContains(t, out.String(), "THIRD")
}

func TestExport_HeaderOnly(t *testing.T) {
	var out bytes.Buffer
	count, err := Export(strings.NewReader(rbcHeader), &out, bank.RBC(), emptyStore(t))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, "; -*- ledger -*-\n\n", out.String())
}

func TestExport_EmptyInput(t *testing.T) {
	var out bytes.Buffer
	count, err := Export(strings.NewReader(""), &out, bank.RBC(), emptyStore(t))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, out.String())
}

func TestExport_Latin1Input(t *testing.T) {
	// "Chèques" in ISO-8859-1: e-grave is a single 0xE8 byte.
	input := rbcHeader +
		"Ch\xe8ques,1,5/1/2014,,VERSEMENT,,-1.00,,\n"

	var out bytes.Buffer
	count, err := Export(strings.NewReader(input), &out, bank.RBC(), emptyStore(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExport_UnknownEncoding(t *testing.T) {
	def := bank.RBC()
	def.Encoding = "NOT-A-CHARSET"

	var out bytes.Buffer
	_, err := Export(strings.NewReader(rbcHeader), &out, def, emptyStore(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestExport_InvalidDefinition(t *testing.T) {
	def := bank.RBC()
	delete(def.Columns, bank.FieldAmount)

	var out bytes.Buffer
	_, err := Export(strings.NewReader(rbcHeader), &out, def, emptyStore(t))
	require.Error(t, err)

	var missing *bank.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ledger")
	require.NoError(t, os.WriteFile(path, []byte("existing postings\n"), 0o644))

	backup, err := Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak1", backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "existing postings\n", string(data))
}

func TestBackup_NumbersIncrement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ledger")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	first, err := Backup(path)
	require.NoError(t, err)
	second, err := Backup(path)
	require.NoError(t, err)

	assert.Equal(t, path+".bak1", first)
	assert.Equal(t, path+".bak2", second)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "RBC.ledger"), DefaultOutputPath(filepath.Join("in", "RBC.csv")))
	assert.Equal(t, "noext.ledger", DefaultOutputPath("noext"))
}
