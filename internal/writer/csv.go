package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/insightdelivered/statement-extractor/internal/statement"
)

// CSVWriter writes a StatementData's transaction rows to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes sd's transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, sd *statement.StatementData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, sd)
}

// Write writes sd's transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, sd *statement.StatementData) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		if sd.Key != "" {
			writer.Write([]string{"# Config", sd.Key})
		}
		if sd.AccountNumber != "" {
			writer.Write([]string{"# Account Number", sd.AccountNumber})
		}
		if sd.OpeningBalance != nil {
			writer.Write([]string{"# Opening Balance", formatAmount(*sd.OpeningBalance)})
		}
		if sd.ClosingBalance != nil {
			writer.Write([]string{"# Closing Balance", formatAmount(*sd.ClosingBalance)})
		}
		if sd.StartDate != nil {
			writer.Write([]string{"# Start Date", formatDate(*sd.StartDate)})
		}
	}

	header := []string{"Date", "Description", "Type", "Amount", "Balance"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range sd.ProtoTransactions {
		row := []string{
			formatDatePtr(txn.Date),
			txn.Description,
			transactionType(txn.Amount),
			formatAmountPtr(txn.Amount),
			formatAmountPtr(txn.Balance),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// transactionType applies the sign convention the transaction machine's
// invert columns establish: a negated (originally "paid in"/"money in")
// amount is a credit, everything else a debit.
func transactionType(amount *float64) string {
	if amount == nil {
		return ""
	}
	if *amount < 0 {
		return "CREDIT"
	}
	return "DEBIT"
}

func formatDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02")
}

func formatDatePtr(millis *int64) string {
	if millis == nil {
		return ""
	}
	return formatDate(*millis)
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatAmountPtr(amount *float64) string {
	if amount == nil {
		return ""
	}
	v := *amount
	if v < 0 {
		v = -v
	}
	return formatAmount(v)
}
