package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"
)

// outputDirPerm is the permission used for report directories.
const outputDirPerm = 0o755

// Page collects charts into one HTML document.
type Page struct {
	page *components.Page
	size int
}

// NewPage creates an empty page with the given browser title.
func NewPage(title string) *Page {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)

	return &Page{page: page}
}

// Add appends charts to the page.
func (p *Page) Add(charts ...components.Charter) *Page {
	p.page.AddCharts(charts...)
	p.size += len(charts)

	return p
}

// Len reports the number of charts on the page.
func (p *Page) Len() int {
	return p.size
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	err := p.page.Render(w)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// Save renders the page into path, creating parent directories.
func (p *Page) Save(path string) error {
	err := os.MkdirAll(filepath.Dir(path), outputDirPerm)
	if err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	err = p.Render(file)
	if err != nil {
		_ = file.Close()

		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	return nil
}
