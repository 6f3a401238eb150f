package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/javier/voice-cv/internal/types"
)

// pdfTimeout bounds a single headless-browser print run.
const pdfTimeout = 60 * time.Second

// A4 paper in inches.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// RenderPDF renders the résumé to PDF through a headless browser, so the
// output matches the printable HTML exactly.
func RenderPDF(ctx context.Context, data types.Resume) ([]byte, error) {
	html, err := RenderHTML(data)
	if err != nil {
		return nil, err
	}
	return PrintHTML(ctx, html)
}

// PrintHTML prints an HTML document to PDF.
func PrintHTML(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "failed to print PDF", Cause: err}
	}

	return pdf, nil
}
