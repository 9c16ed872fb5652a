//go:build cgo
// +build cgo

package controller

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// renderPDFToPNGs rasterizes up to maxPages pages of a PDF into PNG files in
// outDir. It returns the page sizes in cm and the written file paths.
func renderPDFToPNGs(pdfPath, outDir string, dpi, maxPages int) (sizes [][2]float64, pngPaths []string, err error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf %q: %w", pdfPath, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	base := filepath.Base(pdfPath)
	base = base[:len(base)-len(filepath.Ext(base))]

	for n := 0; n < pages; n++ {
		img, err := doc.ImageDPI(n, float64(dpi))
		if err != nil {
			return nil, nil, fmt.Errorf("render page %d: %w", n+1, err)
		}

		out := filepath.Join(outDir, fmt.Sprintf("%s-page%d.png", base, n+1))
		if err := savePNG(out, img); err != nil {
			return nil, nil, err
		}

		b := img.Bounds()
		wcm := float64(b.Dx()) / float64(dpi) * 2.54
		hcm := float64(b.Dy()) / float64(dpi) * 2.54
		sizes = append(sizes, [2]float64{wcm, hcm})
		pngPaths = append(pngPaths, out)
	}
	return sizes, pngPaths, nil
}

func savePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, m)
}
