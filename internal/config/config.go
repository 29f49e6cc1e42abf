// Package config defines the external StatementConfig document the rest
// of the pipeline is driven by, and the immutable registry built from a
// directory of them.
package config

import "regexp"

// TransactionField names one column of a transaction row.
type TransactionField string

const (
	FieldDate        TransactionField = "date"
	FieldDescription TransactionField = "description"
	FieldAmount      TransactionField = "amount"
	FieldBalance     TransactionField = "balance"
)

// Config is one bank/account-type/version layout definition, loaded from
// JSON (field list per SPEC_FULL.md §6). BankName, AccountType and
// AccountExamples are descriptive and not read by the pipeline. The
// Transaction*Alignment fields and TransactionAmountInvert are loaded but
// not read either: column gates always span a header's x1..x2 widened by
// TransactionAlignmentTol, and values in the invert column are always
// negated.
type Config struct {
	Key             string   `json:"key"`
	BankName        string   `json:"bank_name"`
	AccountType     string   `json:"account_type"`
	AccountTerms    []string `json:"account_terms"`
	AccountExamples []string `json:"account_examples"`

	ApplyYPatch           bool `json:"apply_y_patch"`
	ApplyYPatchLineHeight int  `json:"apply_y_patch_line_height"`

	OpeningBalanceTerms        []string `json:"opening_balance_terms"`
	OpeningBalanceFormats      []string `json:"opening_balance_formats"`
	OpeningBalanceAlignment    string   `json:"opening_balance_alignment"`
	OpeningBalanceAlignmentTol int      `json:"opening_balance_alignment_tol"`
	OpeningBalanceInvert       bool     `json:"opening_balance_invert"`

	ClosingBalanceTerms        []string `json:"closing_balance_terms"`
	ClosingBalanceFormats      []string `json:"closing_balance_formats"`
	ClosingBalanceAlignment    string   `json:"closing_balance_alignment"`
	ClosingBalanceAlignmentTol int      `json:"closing_balance_alignment_tol"`
	ClosingBalanceInvert       bool     `json:"closing_balance_invert"`

	StartDateTerms        []string `json:"start_date_terms"`
	StartDateFormats      []string `json:"start_date_formats"`
	StartDateAlignment    string   `json:"start_date_alignment"`
	StartDateAlignmentTol int      `json:"start_date_alignment_tol"`

	AccountNumberTerms        []string `json:"account_number_terms"`
	AccountNumberPatterns     []string `json:"account_number_patterns"`
	AccountNumberAlignment    string   `json:"account_number_alignment"`
	AccountNumberAlignmentTol int      `json:"account_number_alignment_tol"`

	TransactionTerms             []string             `json:"transaction_terms"`
	TransactionTermsStop         []string             `json:"transaction_terms_stop"`
	TransactionFormats           [][]TransactionField `json:"transaction_formats"`
	TransactionNewLineTol        int                  `json:"transaction_new_line_tol"`
	TransactionStartDateRequired bool                 `json:"transaction_start_date_required"`
	TransactionAlignmentTol      int                  `json:"transaction_alignment_tol"`

	TransactionDateFormats   []string `json:"transaction_date_formats"`
	TransactionDateHeaders   []string `json:"transaction_date_headers"`
	TransactionDateAlignment string   `json:"transaction_date_alignment"`

	TransactionAmountFormats   []string `json:"transaction_amount_formats"`
	TransactionAmountHeaders   []string `json:"transaction_amount_headers"`
	TransactionAmountAlignment string  `json:"transaction_amount_alignment"`

	TransactionBalanceFormats   []string `json:"transaction_balance_formats"`
	TransactionBalanceHeaders   []string `json:"transaction_balance_headers"`
	TransactionBalanceAlignment string  `json:"transaction_balance_alignment"`

	TransactionDescriptionHeaders   []string `json:"transaction_description_headers"`
	TransactionDescriptionAlignment string  `json:"transaction_description_alignment"`
	TransactionDescriptionExclude   []string `json:"transaction_description_exclude"`

	TransactionAmountInvertHeaders   []string `json:"transaction_amount_invert_headers"`
	TransactionAmountInvertAlignment string  `json:"transaction_amount_invert_alignment"`
	TransactionAmountInvert          bool     `json:"transaction_amount_invert"`
	TransactionBalanceInvert         bool     `json:"transaction_balance_invert"`
}

// Compiled is a Config with its regex fields compiled once, used by the
// rest of the pipeline instead of the raw JSON document.
type Compiled struct {
	Config
	AccountNumberPatterns   []*regexp.Regexp
	DescriptionExcludeRegex []*regexp.Regexp
}

func compile(c Config) *Compiled {
	cc := &Compiled{Config: c}
	for _, p := range c.AccountNumberPatterns {
		cc.AccountNumberPatterns = append(cc.AccountNumberPatterns, regexp.MustCompile(p))
	}
	for _, p := range c.TransactionDescriptionExclude {
		cc.DescriptionExcludeRegex = append(cc.DescriptionExcludeRegex, regexp.MustCompile(p))
	}
	return cc
}
