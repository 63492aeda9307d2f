package printing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaperSize(t *testing.T) {
	size, err := ParsePaperSize(" letter ")
	require.NoError(t, err)
	assert.Equal(t, PaperSizeLetter, size)

	_, err = ParsePaperSize("RECEIPT_80MM")
	assert.Error(t, err)
}

func TestPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: ChromedpConfig{Scale: 1.0}}

	t.Run("A4 portrait", func(t *testing.T) {
		p := r.printParams(&RenderRequest{PaperSize: PaperSizeA4, Margins: DefaultMargins()})

		assert.InDelta(t, mmToInches(210), p.paperWidth, 0.01)
		assert.InDelta(t, mmToInches(297), p.paperHeight, 0.01)
		assert.InDelta(t, mmToInches(15), p.marginTop, 0.01)
		assert.False(t, p.landscape)
		assert.Empty(t, p.footerTemplate)
	})

	t.Run("footer reserves a bottom margin", func(t *testing.T) {
		p := r.printParams(&RenderRequest{
			PaperSize:  PaperSizeA5,
			Landscape:  true,
			FooterHTML: "<span class=\"pageNumber\"></span>",
		})

		assert.InDelta(t, mmToInches(148), p.paperWidth, 0.01)
		assert.True(t, p.landscape)
		assert.InDelta(t, mmToInches(10), p.marginBottom, 0.01)
	})
}

func TestCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))

	wrapped := completeHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestChromedpRenderer_RejectsBadRequests(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "  "})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF")))
	assert.Equal(t, 2, estimatePageCount([]byte("/Type /Pages /Type /Page /Type /Page")))
}
