package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath places bare filenames inside the outputs directory
// under the store path. Paths with an explicit directory are kept as given.
func ResolveOutputPath(baseDir, path string) string {
	if filepath.Dir(path) == "." {
		return filepath.Join(baseDir, "outputs", path)
	}
	return path
}

// savedAnswer is the JSON shape written by SaveAnswer for .json targets
type savedAnswer struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Collection string `json:"collection"`
	Model      string `json:"model"`
}

// SaveAnswer writes an answer to disk in a format chosen by the file
// extension: .txt, .md or .json
func SaveAnswer(answer *Answer, path string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data = []byte(fmt.Sprintf("Q: %s\n\nA: %s\n", answer.Question, answer.Text))
	case ".md":
		data = []byte(fmt.Sprintf("## Q\n\n%s\n\n## A\n\n%s\n", answer.Question, answer.Text))
	case ".json":
		var err error
		data, err = json.MarshalIndent(savedAnswer{
			Question:   answer.Question,
			Answer:     answer.Text,
			Collection: answer.Collection,
			Model:      answer.Model,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode answer: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported save format %q (use .txt, .md or .json)", filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}
