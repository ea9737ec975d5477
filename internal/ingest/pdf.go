package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"leaselens/internal/contextutil"
)

// Page is a single page of an ingested document.
type Page struct {
	Text   string
	Source string // Base filename of the origin document
	Number int    // 1-based page number
}

// ExtractPages extracts per-page text from a PDF file. A page that fails to
// load is skipped and ingestion continues with the remaining pages.
func ExtractPages(ctx context.Context, filePath string) ([]Page, error) {
	logger := contextutil.LoggerFromContext(ctx)

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	source := filepath.Base(filePath)
	numPages := r.NumPage()

	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			logger.WarnContext(ctx, "skipping unreadable page", "source", source, "page", i)
			continue
		}

		text, err := pageText(p)
		if err != nil {
			logger.WarnContext(ctx, "skipping page with extraction error", "source", source, "page", i, "error", err)
			continue
		}

		pages = append(pages, Page{
			Text:   text,
			Source: source,
			Number: i,
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no readable pages in %s", source)
	}

	return pages, nil
}

// pageText extracts a page's plain text. The pdf library panics on some
// malformed content streams; those surface as errors here so a bad page does
// not abort the whole document.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page extraction failed: %v", r)
		}
	}()
	return p.GetPlainText(nil)
}
