package rag

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleAnswer() *Answer {
	return &Answer{
		Question:   "What is Go?",
		Text:       "A programming language.",
		Collection: "docs",
		Model:      "llama3.2",
		Latency:    1500 * time.Millisecond,
	}
}

func TestSaveAnswerTxt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.txt")
	if err := SaveAnswer(sampleAnswer(), path); err != nil {
		t.Fatalf("SaveAnswer() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Q: What is Go?\n\nA: A programming language.\n"
	if string(data) != want {
		t.Errorf("txt output = %q, want %q", data, want)
	}
}

func TestSaveAnswerMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.md")
	if err := SaveAnswer(sampleAnswer(), path); err != nil {
		t.Fatalf("SaveAnswer() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "## Q\n\nWhat is Go?\n\n## A\n\nA programming language.\n"
	if string(data) != want {
		t.Errorf("md output = %q, want %q", data, want)
	}
}

func TestSaveAnswerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "answer.json")
	if err := SaveAnswer(sampleAnswer(), path); err != nil {
		t.Fatalf("SaveAnswer() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("saved json does not parse: %v", err)
	}
	want := map[string]string{
		"question":   "What is Go?",
		"answer":     "A programming language.",
		"collection": "docs",
		"model":      "llama3.2",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("json field %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestSaveAnswerUnsupportedExtension(t *testing.T) {
	err := SaveAnswer(sampleAnswer(), filepath.Join(t.TempDir(), "answer.xml"))
	if err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestWriteCompareCSV(t *testing.T) {
	rows := []CompareRow{
		{Question: "q1", Model: "m1", Answer: "fine answer", LatencySeconds: 1.234},
		{Question: "q1", Model: "m2", Answer: "ERROR: model \"m2\" not found", LatencySeconds: 0},
		{Question: "q2, with comma", Model: "m1", Answer: "quoted \"answer\"", LatencySeconds: 0.5},
	}

	var buf bytes.Buffer
	if err := WriteCompareCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCompareCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want header + 3 rows", len(records))
	}
	header := records[0]
	wantHeader := []string{"question", "model", "answer", "latency_s"}
	for i, col := range wantHeader {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}
	if records[1][3] != "1.23" {
		t.Errorf("latency formatted as %q, want 1.23", records[1][3])
	}
	if records[2][3] != "0.00" {
		t.Errorf("error row latency = %q, want 0.00", records[2][3])
	}
	if records[3][0] != "q2, with comma" {
		t.Errorf("comma question round-tripped as %q", records[3][0])
	}
}

func TestWriteCompareJSON(t *testing.T) {
	rows := []CompareRow{
		{Question: "q1", Model: "m1", Answer: "fine answer", LatencySeconds: 1.234},
		{Question: "q1", Model: "m2", Answer: "ERROR: model \"m2\" not found", LatencySeconds: 0},
	}

	var buf bytes.Buffer
	if err := WriteCompareJSON(&buf, rows); err != nil {
		t.Fatalf("WriteCompareJSON() error = %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0]["question"] != "q1" || got[0]["model"] != "m1" || got[0]["answer"] != "fine answer" {
		t.Errorf("first record = %v", got[0])
	}
	if got[0]["latency_s"].(float64) != 1.234 {
		t.Errorf("latency_s = %v, want 1.234", got[0]["latency_s"])
	}
	if got[1]["latency_s"].(float64) != 0 {
		t.Errorf("error row latency_s = %v, want 0", got[1]["latency_s"])
	}
}

func TestWriteCompareJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCompareJSON(&buf, nil); err != nil {
		t.Fatalf("WriteCompareJSON() error = %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("empty output is not valid JSON: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("records = %d, want 0", len(got))
	}
}

func TestReadQuestionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.txt")
	content := "What is Go?\n\n  How do goroutines work?  \n\nWhy garbage collection?\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	questions, err := ReadQuestionFile(path)
	if err != nil {
		t.Fatalf("ReadQuestionFile() error = %v", err)
	}
	want := []string{"What is Go?", "How do goroutines work?", "Why garbage collection?"}
	if len(questions) != len(want) {
		t.Fatalf("questions = %v, want %v", questions, want)
	}
	for i := range want {
		if questions[i] != want[i] {
			t.Errorf("question[%d] = %q, want %q", i, questions[i], want[i])
		}
	}
}

func TestReadQuestionFileMissing(t *testing.T) {
	if _, err := ReadQuestionFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveOutputPath(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		in   string
		want string
	}{
		{"answer.md", filepath.Join(base, "outputs", "answer.md")},
		{filepath.Join("some", "dir", "answer.md"), filepath.Join("some", "dir", "answer.md")},
		{filepath.Join(base, "answer.md"), filepath.Join(base, "answer.md")},
		{"./answer.md", filepath.Join(base, "outputs", "answer.md")},
	}
	for _, tt := range tests {
		if got := ResolveOutputPath(base, tt.in); got != tt.want {
			t.Errorf("ResolveOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
