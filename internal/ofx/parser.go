// Package ofx turns OFX/QFX bank and credit card statements into transaction
// payloads ready for the transaction store.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/pattern"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	slugRegex     = regexp.MustCompile(`[^a-z0-9]+`)
)

// Options controls how statement lines become transactions.
type Options struct {
	// Category is the category id given to every imported transaction.
	Category string
	// Tags are added to every imported transaction.
	Tags []string
	// TypeTags tags each transaction with its OFX type, e.g. "debit".
	TypeTags bool
	// PayeeTags tags each transaction with its slugified payee.
	PayeeTags bool
}

// Entry is one parsed statement line.
type Entry struct {
	FITID   string
	Account string
	Payee   string
	Type    string
	Input   model.TransactionInput
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	opts Options
}

// NewParser creates a parser applying opts to every entry.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX document into entries in statement order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Debug("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, account string) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		entries = append(entries, p.convertTransaction(ofxTx, account))
	}
	return entries
}

// convertTransaction keeps the OFX sign: debits are negative, which is
// already how expenses are stored.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, account string) Entry {
	amount, _ := ofxTx.TrnAmt.Float64()
	payee := extractPayee(ofxTx)
	trnType := ofxTx.TrnType.String()

	tags := make([]string, 0, len(p.opts.Tags)+2)
	tags = appendTag(tags, p.opts.Tags...)
	if p.opts.TypeTags {
		tags = appendTag(tags, Slug(trnType))
	}
	if p.opts.PayeeTags {
		tags = appendTag(tags, Slug(payee))
	}

	return Entry{
		FITID:   string(ofxTx.FiTID),
		Account: account,
		Payee:   payee,
		Type:    trnType,
		Input: model.TransactionInput{
			Category:  p.opts.Category,
			Tags:      tags,
			Amount:    amount,
			Timestamp: model.Timestamp(ofxTx.DtPosted.Time),
		},
	}
}

func appendTag(tags []string, values ...string) []string {
	for _, v := range model.NormalizeTags(values) {
		if !slices.Contains(tags, v) {
			tags = append(tags, v)
		}
	}
	return tags
}

// Slug lower-cases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	return strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// extractPayee tries to get a clean payee name from OFX data.
func extractPayee(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Inputs returns the transaction payloads of entries.
func Inputs(entries []Entry) []model.TransactionInput {
	inputs := make([]model.TransactionInput, 0, len(entries))
	for _, e := range entries {
		inputs = append(inputs, e.Input)
	}
	return inputs
}

// SkipInvalid drops entries the transaction store would reject, such as
// zero-amount lines. It returns the remaining entries and how many were
// dropped.
func SkipInvalid(entries []Entry) ([]Entry, int) {
	valid := make([]Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if err := model.ValidateTransactionInput(e.Input); err != nil {
			slog.Debug("Skipping invalid statement line", "fitid", e.FITID, "payee", e.Payee, "error", err)
			skipped++
			continue
		}
		valid = append(valid, e)
	}
	return valid, skipped
}

// SkipExisting drops entries that look like transactions already stored:
// same timestamp, amount and category. Each stored transaction cancels at
// most one entry, so identical lines within one statement survive a first
// import. It returns the remaining entries and how many were skipped.
func SkipExisting(existing []model.Transaction, entries []Entry) ([]Entry, int) {
	type key struct {
		timestamp int64
		amount    float64
		category  string
	}

	stored := make(map[key]int, len(existing))
	for _, txn := range existing {
		stored[key{txn.Timestamp, txn.Amount, txn.Category}]++
	}

	fresh := make([]Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		k := key{e.Input.Timestamp, e.Input.Amount, e.Input.Category}
		if stored[k] > 0 {
			stored[k]--
			skipped++
			continue
		}
		fresh = append(fresh, e)
	}
	return fresh, skipped
}

// ApplyRules files each entry matched by a rule under the category resolve
// returns for it and adds the rule's tags. Entries no rule matches keep the
// import's default category. It returns how many entries matched.
func ApplyRules(entries []Entry, matcher *pattern.Matcher, resolve func(pattern.Rule) (string, error)) (int, error) {
	if matcher == nil || matcher.Len() == 0 {
		return 0, nil
	}

	matched := 0
	for i := range entries {
		rule, ok := matcher.First(entries[i].Payee, entries[i].Input.Amount)
		if !ok {
			continue
		}
		category, err := resolve(rule)
		if err != nil {
			return matched, fmt.Errorf("rule %q: %w", rule.Label(), err)
		}
		entries[i].Input.Category = category
		entries[i].Input.Tags = appendTag(slices.Clone(entries[i].Input.Tags), rule.Tags...)
		matched++
	}
	return matched, nil
}
