package rag

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// loadDOCX extracts paragraph text from a Word document. A .docx file is a
// zip archive; the body lives in word/document.xml with text runs in <w:t>
// elements grouped under <w:p> paragraphs.
func loadDOCX(path string) ([]Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	var body io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open docx body: %w", err)
			}
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("docx has no word/document.xml")
	}
	defer body.Close()

	text, err := extractDOCXText(body)
	if err != nil {
		return nil, fmt.Errorf("parse docx body: %w", err)
	}

	return []Document{{
		Content: text,
		Source:  path,
	}}, nil
}

func extractDOCXText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
