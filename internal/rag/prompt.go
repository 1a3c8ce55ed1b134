package rag

import (
	"fmt"
	"path/filepath"
	"strings"
)

const answerPromptTemplate = `Answer the question using ONLY the context provided below. If the context does not contain the answer, say so clearly - do not make things up.

Context:
%s

Question: %s

Answer:`

// BuildPrompt assembles the grounded prompt for the generation model
func BuildPrompt(question string, chunks []ScoredChunk) string {
	return fmt.Sprintf(answerPromptTemplate, FormatContext(chunks), question)
}

// FormatContext renders retrieved chunks as labelled blocks. Each block
// cites its source file (and page, when the format has pages) so the model
// can be asked where an answer came from.
func FormatContext(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return "(no context available)"
	}
	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		label := filepath.Base(chunk.Source)
		if chunk.Page > 0 {
			label = fmt.Sprintf("%s, p.%d", label, chunk.Page)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, chunk.Content))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
