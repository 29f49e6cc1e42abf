package pdfextract

import (
	"os"

	"github.com/pkg/errors"

	"github.com/insightdelivered/statement-extractor/internal/pipelineerr"
	"github.com/insightdelivered/statement-extractor/internal/token"
)

// Extract reads the PDF at filePath and returns a token.Store built by
// interpreting each page's content stream (§4.1), trying the structured
// substrate first and falling back to raw byte scanning per §4.1.1. A
// document that yields no tokens from either substrate fails with
// ExtractFailed.
func Extract(filePath string) (*token.Store, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, pipelineerr.NewExtractFailed(err)
	}

	var cm *cmap
	if cmaps := findCMaps(data); len(cmaps) > 0 {
		cm = mergeCMaps(cmaps)
	}

	tokens, failedPages, structErr := extractStructured(filePath, cm)

	// The structured substrate covers the document: either it opened fine
	// with every page readable, or it failed to open at all and raw is the
	// only option. A partial failure (some pages unreadable) still pulls in
	// the raw substrate's view of the whole document as extra coverage for
	// whatever the structured path missed.
	if structErr != nil || failedPages > 0 {
		rawTokens := extractRaw(data, cm)
		tokens = append(tokens, rawTokens...)
	}

	if len(tokens) == 0 {
		if structErr != nil {
			return nil, pipelineerr.NewExtractFailed(errors.Wrap(structErr, "structured substrate"))
		}
		return nil, pipelineerr.NewExtractFailed(errors.New("no text tokens found in document"))
	}

	store := token.NewStore()
	for _, tok := range tokens {
		store.AppendToken(tok)
	}
	return store, nil
}
