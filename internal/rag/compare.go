package rag

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CompareRow is one question answered by one model
type CompareRow struct {
	Question       string
	Model          string
	Answer         string
	LatencySeconds float64
}

// CompareModels runs every question against every model in order and
// collects the answers. A model failure becomes an ERROR row with zero
// latency rather than aborting the matrix; a cancelled context stops the
// run and returns what finished so far.
func CompareModels(ctx context.Context, engine *Engine, collection string, questions, models []string) ([]CompareRow, error) {
	rows := make([]CompareRow, 0, len(questions)*len(models))
	for _, question := range questions {
		for _, model := range models {
			if err := ctx.Err(); err != nil {
				return rows, err
			}
			answer, err := engine.AskWithModel(ctx, collection, question, model)
			if err != nil {
				rows = append(rows, CompareRow{
					Question: question,
					Model:    model,
					Answer:   fmt.Sprintf("ERROR: %v", err),
				})
				LogWarn("compare run failed", map[string]interface{}{
					"model": model,
					"err":   err.Error(),
				})
				continue
			}
			rows = append(rows, CompareRow{
				Question:       question,
				Model:          model,
				Answer:         answer.Text,
				LatencySeconds: answer.Latency.Seconds(),
			})
		}
	}
	return rows, nil
}

// ReadQuestionFile loads questions from a text file, one per line. Blank
// lines are skipped.
func ReadQuestionFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	var questions []string
	for _, line := range strings.Split(string(data), "\n") {
		if q := strings.TrimSpace(line); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// WriteCompareCSV writes comparison rows as CSV with a header
func WriteCompareCSV(w io.Writer, rows []CompareRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"question", "model", "answer", "latency_s"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Question,
			row.Model,
			row.Answer,
			strconv.FormatFloat(row.LatencySeconds, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// compareRecord is the JSON shape of one comparison row
type compareRecord struct {
	Question       string  `json:"question"`
	Model          string  `json:"model"`
	Answer         string  `json:"answer"`
	LatencySeconds float64 `json:"latency_s"`
}

// WriteCompareJSON writes comparison rows as a JSON array of records with
// the same fields as the CSV columns
func WriteCompareJSON(w io.Writer, rows []CompareRow) error {
	records := make([]compareRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, compareRecord{
			Question:       row.Question,
			Model:          row.Model,
			Answer:         row.Answer,
			LatencySeconds: row.LatencySeconds,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode comparison: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
