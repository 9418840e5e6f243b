package excel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "term,definition,phonetic\n" +
		"cat,mèo,/kæt/\n" +
		"\"check in\",đăng ký,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := readCSV(path)
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][0] != "cat" || rows[1][1] != "mèo" {
		t.Errorf("unexpected row: %v", rows[1])
	}
	if rows[2][0] != "check in" {
		t.Errorf("quoted field not parsed: %v", rows[2])
	}
}

func TestReadCSV_VariableFieldCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	content := "cat,mèo\nbook,sách,/bʊk/,noun\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := readCSV(path)
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestCell(t *testing.T) {
	row := []string{" cat ", "mèo"}
	if got := cell(row, 0); got != "cat" {
		t.Errorf("cell(0) = %q, want trimmed value", got)
	}
	if got := cell(row, 5); got != "" {
		t.Errorf("cell(5) = %q, want empty for out-of-range", got)
	}
	if got := cell(row, -1); got != "" {
		t.Errorf("cell(-1) = %q, want empty for negative index", got)
	}
}
