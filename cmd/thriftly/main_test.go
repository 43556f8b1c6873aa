package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/thriftly/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkingStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>1200.00
<FITID>2024012001
<NAME>ACME PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// setupEnv points the CLI at a fresh database and an empty home directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("THRIFTLY_STORAGE_BACKEND", "sqlite")
	t.Setenv("THRIFTLY_STORAGE_PATH", filepath.Join(dir, "data", "thriftly.db"))
	t.Setenv("THRIFTLY_FEED_PAGE_SIZE", "10")
	t.Setenv("THRIFTLY_LOGGING_LEVEL", "error")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, "thriftly %s", strings.Join(args, " "))
	return out
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"categories", "transactions", "feed", "balance", "facets", "import-ofx", "browse", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	setupEnv(t)
	assert.Contains(t, mustExecute(t, "version"), "thriftly dev")
}

func TestCategoriesLifecycle(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "categories", "add", "Food", "--icon", "utensils", "--color", "green")
	mustExecute(t, "categories", "add", "Rent", "--icon", "house")

	_, err := execute(t, "", "categories", "add", "  food ")
	require.Error(t, err)
	msg, ok := common.UserMessage(err)
	require.True(t, ok)
	assert.Contains(t, msg, "already exists")

	out := mustExecute(t, "categories", "update", "rent", "--name", "Housing", "--color", "orange")
	assert.Contains(t, out, `Updated category "Housing"`)

	out = mustExecute(t, "categories", "list")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "orange")
	assert.NotContains(t, out, "Rent")

	out, err = execute(t, "n\n", "categories", "delete", "Housing")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion canceled")
	assert.Contains(t, mustExecute(t, "categories", "list"), "Housing")

	out, err = execute(t, "yes\n", "categories", "delete", "Housing")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted category "Housing"`)
	assert.NotContains(t, mustExecute(t, "categories", "list"), "Housing")
}

func TestCategoriesAdd_PromptsForName(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "Travel\n", "categories", "add", "--icon", "plane")
	require.NoError(t, err)
	assert.Contains(t, out, `Created category "Travel"`)
}

func TestCategoriesUpdate_NothingToChange(t *testing.T) {
	setupEnv(t)
	mustExecute(t, "categories", "add", "Food")

	_, err := execute(t, "", "categories", "update", "Food")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestTransactionsAndReadViews(t *testing.T) {
	setupEnv(t)
	mustExecute(t, "categories", "add", "Food", "--icon", "utensils")
	mustExecute(t, "categories", "add", "Salary", "--icon", "briefcase")

	mustExecute(t, "transactions", "add", "--amount", "-12.5", "--category", "food", "--tag", "lunch", "--tag", " ")
	mustExecute(t, "transactions", "add", "--amount", "2000", "--category", "Salary")

	out := mustExecute(t, "feed")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "#lunch")
	assert.Contains(t, out, "+2000.00")
	assert.NotContains(t, out, "--pages")

	out = mustExecute(t, "balance")
	assert.Contains(t, out, "+1987.50")
	assert.Contains(t, out, "-12.50")

	out = mustExecute(t, "balance", "--tag", "lunch")
	assert.Contains(t, out, "-12.50")
	assert.NotContains(t, out, "+1987.50")

	out = mustExecute(t, "facets")
	assert.Contains(t, out, "Categories")
	assert.Contains(t, out, "#lunch")

	_, err := execute(t, "", "transactions", "add", "--amount", "0", "--category", "Food")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = execute(t, "", "transactions", "add", "--amount", "-1", "--category", "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = execute(t, "", "feed", "--category", "Nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFeed_Pages(t *testing.T) {
	setupEnv(t)
	t.Setenv("THRIFTLY_FEED_PAGE_SIZE", "2")
	mustExecute(t, "categories", "add", "Food")
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		mustExecute(t, "transactions", "add", "--amount", "-5", "--category", "Food", "--date", date)
	}

	out := mustExecute(t, "feed")
	assert.Contains(t, out, "Jan 3")
	assert.NotContains(t, out, "Jan 1,")
	assert.Contains(t, out, "--pages")

	out = mustExecute(t, "feed", "--pages", "2")
	assert.Contains(t, out, "Jan 1")
	assert.NotContains(t, out, "--pages")

	_, err := execute(t, "", "feed", "--pages", "0")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestTransactionsUpdateAndDelete(t *testing.T) {
	setupEnv(t)
	mustExecute(t, "categories", "add", "Food")
	mustExecute(t, "categories", "add", "Fun")

	out := mustExecute(t, "transactions", "add", "--amount", "-7", "--category", "Food", "--date", "2024-03-10")
	start := strings.LastIndex(out, "(")
	end := strings.LastIndex(out, ")")
	require.True(t, start >= 0 && end > start)
	id := out[start+1 : end]

	mustExecute(t, "transactions", "update", id, "--amount", "-9", "--category", "Fun", "--tag", "movies")
	out = mustExecute(t, "feed")
	assert.Contains(t, out, "-9.00")
	assert.Contains(t, out, "Fun")
	assert.Contains(t, out, "#movies")

	_, err := execute(t, "", "transactions", "delete", id, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, mustExecute(t, "feed"), "No transactions")
}

func TestDeletedCategoryShowsUnknown(t *testing.T) {
	setupEnv(t)
	mustExecute(t, "categories", "add", "Food")
	mustExecute(t, "transactions", "add", "--amount", "-3", "--category", "Food")

	mustExecute(t, "categories", "delete", "Food", "--yes")

	out := mustExecute(t, "feed")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "-3.00")
}

func TestImportOFX(t *testing.T) {
	dir := setupEnv(t)
	statement := filepath.Join(dir, "checking.qfx")
	require.NoError(t, os.WriteFile(statement, []byte(checkingStatement), 0o600))

	out, err := execute(t, "", "import-ofx", "--category", "Checking", statement)
	require.Error(t, err, "category must exist unless --create-category is set")
	assert.Empty(t, out)

	out = mustExecute(t, "import-ofx", "--category", "Checking", "--create-category", "--dry-run", statement)
	assert.Contains(t, out, "2 transactions found, 0 already imported, 2 new")
	assert.Contains(t, out, "Dry run complete")
	assert.Contains(t, mustExecute(t, "feed"), "No transactions")

	assert.Contains(t, mustExecute(t, "categories", "list"), "No categories yet", "dry runs create nothing")

	out = mustExecute(t, "import-ofx", "--category", "Checking", "--create-category", "--payee-tags", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "Imported 2 transactions into Checking")

	out = mustExecute(t, "import-ofx", "--category", "Checking", statement)
	assert.Contains(t, out, "2 transactions found, 2 already imported, 0 new")

	out = mustExecute(t, "feed")
	assert.Contains(t, out, "#acme-payroll")
	assert.Contains(t, out, "+1200.00")
	assert.Contains(t, out, "-25.50")
}

func TestImportOFX_Rules(t *testing.T) {
	dir := setupEnv(t)
	configDir := filepath.Join(dir, ".config", "thriftly")
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	rules := `import:
  rules:
    - name: payroll
      payee: acme
      regex: true
      direction: income
      category: Salary
      tags: [work]
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(rules), 0o600))

	statement := filepath.Join(dir, "checking.qfx")
	require.NoError(t, os.WriteFile(statement, []byte(checkingStatement), 0o600))

	out := mustExecute(t, "import-ofx", "--category", "Checking", "--create-category", statement)
	assert.Contains(t, out, "Imported 2 transactions")

	out = mustExecute(t, "categories", "list")
	assert.Contains(t, out, "Checking")
	assert.Contains(t, out, "Salary")

	out = mustExecute(t, "feed", "--category", "Salary")
	assert.Contains(t, out, "+1200.00")
	assert.Contains(t, out, "#work")
	assert.NotContains(t, out, "-25.50")

	out = mustExecute(t, "import-ofx", "--category", "Checking", "--no-rules", "--dry-run", statement)
	assert.Contains(t, out, "1 already imported, 1 new", "without rules the payroll line no longer matches its stored copy")
}

func TestImportOFX_SkipsInvalidLines(t *testing.T) {
	dir := setupEnv(t)
	statement := filepath.Join(dir, "checking.qfx")
	zeroed := strings.Replace(checkingStatement, "<TRNAMT>1200.00", "<TRNAMT>0.00", 1)
	require.NoError(t, os.WriteFile(statement, []byte(zeroed), 0o600))

	out := mustExecute(t, "import-ofx", "--category", "Checking", "--create-category", "--dry-run", statement)
	assert.Contains(t, out, "2 transactions found, 0 already imported, 1 new")
	assert.Contains(t, out, "Skipped 1 invalid transactions")

	out = mustExecute(t, "import-ofx", "--category", "Checking", "--create-category", "--payee-tags", statement)
	assert.Contains(t, out, "Skipped 1 invalid transactions")
	assert.Contains(t, out, "Imported 1 transactions into Checking")

	out = mustExecute(t, "feed")
	assert.Contains(t, out, "#starbucks-store-1234")
	assert.NotContains(t, out, "#acme-payroll")
}

func TestImportOFX_NoFiles(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "", "import-ofx", "--category", "Checking", filepath.Join(dir, "*.qfx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("THRIFTLY_STORAGE_BACKEND", "postgres")

	_, err := execute(t, "", "categories", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestMemoryBackend(t *testing.T) {
	setupEnv(t)
	t.Setenv("THRIFTLY_STORAGE_BACKEND", "memory")

	mustExecute(t, "categories", "add", "Food")
	assert.Contains(t, mustExecute(t, "categories", "list"), "No categories yet", "memory storage lasts one run")
}
