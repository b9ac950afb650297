// Package importer converts OFX/QFX bank statements into transaction
// drafts for the tracker.
package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Entry is one statement line ready to become a transaction draft.
type Entry struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
var tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)

// preprocess fixes common formatting issues in OFX files: stray leading
// whitespace, mixed-case SEVERITY values, and SGML-style tags missing
// their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// Parse reads an OFX/QFX statement and returns its transactions as
// entries. Amounts are flipped so debits come out as positive spending.
func (p *Parser) Parse(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, convert(ofxTx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, convert(ofxTx))
			}
		}
	}

	return entries, nil
}

// convert maps one OFX transaction to an entry. OFX records debits as
// negative amounts; spending is tracked positive here, so the sign flips
// and credits (refunds) come out negative.
func convert(ofxTx ofxgo.Transaction) Entry {
	amountFloat, _ := ofxTx.TrnAmt.Float64()

	description := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = strings.TrimSpace(string(ofxTx.Payee.Name))
	}
	if description == "" {
		description = strings.TrimSpace(string(ofxTx.Memo))
	}

	return Entry{
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		Amount:      decimal.NewFromFloat(-amountFloat),
	}
}
