package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"pdf-template-designer/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// Render scale bounds. Scale 1 renders at the PDF's native 72 DPI, so
// pixel dimensions match PDF points and overlay coordinates line up.
const (
	minRenderScale = 0.25
	maxRenderScale = 4.0
	baseDPI        = 72.0
)

// PDFRenderer rasterizes template PDFs to PNG pages. It implements
// domain.PageRenderer by resolving refs against a local PDF directory.
type PDFRenderer struct {
	pdfDir string
	logger domain.Logger
}

// NewPDFRenderer creates a renderer serving PDFs from the given directory.
func NewPDFRenderer(pdfDir string, logger domain.Logger) *PDFRenderer {
	return &PDFRenderer{
		pdfDir: pdfDir,
		logger: logger,
	}
}

// RenderPage rasterizes one page (1-indexed) at the given scale and
// returns the PNG bytes plus the pixel dimensions of the result.
func (r *PDFRenderer) RenderPage(ctx context.Context, ref string, pageNumber int, scale float64) (*domain.PageRaster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale < minRenderScale {
		scale = minRenderScale
	}
	if scale > maxRenderScale {
		scale = maxRenderScale
	}

	doc, err := r.open(ref)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if pageNumber < 1 || pageNumber > doc.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrPageNotFound, pageNumber, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageNumber-1, baseDPI*scale)
	if err != nil {
		r.logger.Error("Failed to rasterize PDF page", err, "ref", ref, "page", pageNumber)
		return nil, fmt.Errorf("%w: page %d: %v", domain.ErrRenderFailed, pageNumber, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode page %d: %v", domain.ErrRenderFailed, pageNumber, err)
	}

	bounds := img.Bounds()
	raster := &domain.PageRaster{
		PageNumber: pageNumber,
		Width:      float64(bounds.Dx()),
		Height:     float64(bounds.Dy()),
		PNG:        buf.Bytes(),
	}
	r.logger.Debug("Rendered PDF page",
		"ref", ref,
		"page", pageNumber,
		"scale", scale,
		"width", raster.Width,
		"height", raster.Height,
	)
	return raster, nil
}

// PageCount reports how many pages the referenced PDF has.
func (r *PDFRenderer) PageCount(ctx context.Context, ref string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	doc, err := r.open(ref)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// open resolves a ref inside the PDF directory and opens it. Refs are
// flattened to their base name so a ref can never escape the directory.
func (r *PDFRenderer) open(ref string) (*fitz.Document, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty pdf ref", domain.ErrRenderFailed)
	}
	path := filepath.Join(r.pdfDir, filepath.Base(ref))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRenderFailed, ref, err)
	}
	doc, err := fitz.New(path)
	if err != nil {
		r.logger.Error("Failed to open PDF", err, "ref", ref)
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrRenderFailed, ref, err)
	}
	return doc, nil
}
