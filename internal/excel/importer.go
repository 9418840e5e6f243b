package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	SetName        string // Word set to import into (created if missing)
	TermColumn     int    // 0-based column index of the term
	DefColumn      int    // 0-based column index of the definition
	PhoneticColumn int    // Optional column of the phonetic transcription (-1 to skip)
	TypeColumn     int    // Optional column of the word type (-1 to skip)
	ExampleColumn  int    // Optional column of the example sentence (-1 to skip)
	TopicColumn    int    // Optional column of the topic label (-1 to skip)
	SheetName      string // Name of the sheet to import (Excel only)
	StartRow       int    // The row to start importing from (1-based, skips header)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:     0,
		DefColumn:      1,
		PhoneticColumn: 2,
		TypeColumn:     3,
		ExampleColumn:  4,
		TopicColumn:    5,
		SheetName:      "Sheet1",
		StartRow:       2,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file into the configured set
func ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	if config.SetName == "" {
		return nil, fmt.Errorf("set name is required")
	}

	set, err := database.NewSetRepository().GetOrCreate(ctx, config.SetName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve word set: %v", err)
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	wordRepo := database.NewWordRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := importRow(ctx, wordRepo, set.ID, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importRow creates or updates one word from a sheet row
func importRow(ctx context.Context, repo *database.WordRepository, setID string, row []string, config ImportConfig, result *ImportResult) error {
	term := cell(row, config.TermColumn)
	definition := cell(row, config.DefColumn)

	if term == "" || definition == "" {
		result.Skipped++
		return nil
	}

	phonetic := cell(row, config.PhoneticColumn)
	wordType := cell(row, config.TypeColumn)
	example := cell(row, config.ExampleColumn)
	topic := cell(row, config.TopicColumn)

	existing, err := repo.GetByTermAndSet(ctx, term, setID)
	if err == nil {
		// Refresh the descriptive fields, keep the learning state.
		update := models.WordUpdate{Definition: &definition}
		if phonetic != "" {
			update.Phonetic = &phonetic
		}
		if wordType != "" {
			update.WordType = &wordType
		}
		if example != "" {
			update.Example = &example
		}
		if topic != "" {
			update.Topic = &topic
		}
		if _, err := repo.Update(ctx, existing.ID, update); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	word := &models.WordRecord{
		SetID:      setID,
		Term:       term,
		Definition: definition,
		Phonetic:   phonetic,
		WordType:   wordType,
		Example:    example,
		Topic:      topic,
	}
	if err := repo.Create(ctx, word); err != nil {
		return err
	}
	result.Created++
	return nil
}

// readExcel loads all rows from one sheet of an Excel file
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV loads all rows from a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
