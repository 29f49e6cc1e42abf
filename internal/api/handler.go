// Package api exposes the conversion pipeline over HTTP as Fiber handlers:
// a health probe and a multipart PDF-upload endpoint that returns parsed
// transactions plus a ready-to-download CSV body.
package api

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-extractor/internal/orchestrator"
	"github.com/insightdelivered/statement-extractor/internal/pdfextract"
	"github.com/insightdelivered/statement-extractor/internal/statement"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

const version = "2.0.0"

// ConvertResponse is the JSON shape returned by /api/convert.
type ConvertResponse struct {
	Success        bool                         `json:"success"`
	Error          string                       `json:"error,omitempty"`
	Config         string                       `json:"config,omitempty"`
	AccountNumber  string                       `json:"accountNumber,omitempty"`
	OpeningBalance *float64                     `json:"openingBalance,omitempty"`
	ClosingBalance *float64                     `json:"closingBalance,omitempty"`
	Transactions   []statement.ProtoTransaction `json:"transactions,omitempty"`
	CSV            string                       `json:"csv,omitempty"`
	TotalDebit     float64                      `json:"totalDebit"`
	TotalCredit    float64                      `json:"totalCredit"`
	Count          int                          `json:"count"`
	Version        string                       `json:"version"`
	RequestID      string                       `json:"requestId"`
}

// Handler holds the dependencies every route needs: the orchestrator
// (itself holding the config registry) and a request-scoped logger.
type Handler struct {
	orch *orchestrator.Orchestrator
	log  zerolog.Logger
}

// NewHandler builds a Handler over orch, logging through log.
func NewHandler(orch *orchestrator.Orchestrator, log zerolog.Logger) *Handler {
	return &Handler{orch: orch, log: log}
}

// HandleHealth answers a liveness probe.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": version})
}

// HandleConvert accepts a multipart "file" upload, extracts and parses it,
// and returns the resulting transactions and CSV as JSON.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	log := h.log.With().Str("requestId", requestID).Logger()

	fail := func(status int, msg string) error {
		return c.Status(status).JSON(ConvertResponse{
			Success:   false,
			Error:     msg,
			Version:   version,
			RequestID: requestID,
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(fiber.StatusBadRequest, "no file uploaded (expected multipart field \"file\")")
	}

	tmpFile, err := os.CreateTemp("", requestID+"-*.pdf")
	if err != nil {
		return fail(fiber.StatusInternalServerError, "failed to stage upload")
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if err := c.SaveFile(fileHeader, tmpFile.Name()); err != nil {
		return fail(fiber.StatusInternalServerError, fmt.Sprintf("failed to save upload: %v", err))
	}

	store, err := pdfextract.Extract(tmpFile.Name())
	if err != nil {
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("extraction failed")
		return fail(fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	sd, err := h.orch.Run(store)
	if err != nil {
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("no config matched")
		return fail(fiber.StatusUnprocessableEntity, err.Error())
	}

	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sd); err != nil {
		return fail(fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	totalDebit, totalCredit := summarize(sd)
	log.Info().Str("config", sd.Key).Int("transactions", len(sd.ProtoTransactions)).Msg("converted")

	return c.JSON(ConvertResponse{
		Success:        true,
		Config:         sd.Key,
		AccountNumber:  sd.AccountNumber,
		OpeningBalance: sd.OpeningBalance,
		ClosingBalance: sd.ClosingBalance,
		Transactions:   sd.ProtoTransactions,
		CSV:            buf.String(),
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		Count:          len(sd.ProtoTransactions),
		Version:        version,
		RequestID:      requestID,
	})
}

func summarize(sd *statement.StatementData) (debit, credit float64) {
	for _, txn := range sd.ProtoTransactions {
		if txn.Amount == nil {
			continue
		}
		if *txn.Amount < 0 {
			credit += -*txn.Amount
		} else {
			debit += *txn.Amount
		}
	}
	return debit, credit
}
