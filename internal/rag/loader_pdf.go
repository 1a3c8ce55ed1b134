package rag

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts text from a PDF, one document per page so retrieved
// chunks can cite their page number
func loadPDF(path string) ([]Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	numPages := reader.NumPage()
	docs := make([]Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single broken page should not sink the whole file
			LogWarn("pdf page extraction failed", map[string]interface{}{
				"path": path,
				"page": i,
				"err":  err.Error(),
			})
			continue
		}
		docs = append(docs, Document{
			Content: text,
			Source:  path,
			Page:    i,
		})
	}
	return docs, nil
}
