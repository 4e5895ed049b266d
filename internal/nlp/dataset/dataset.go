// Package dataset loads the labeled training corpus from a CSV file or a
// PostgreSQL table. Both sources produce the same row shape: a query text
// and its intent label.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/nlp/intent"
)

// LoadCSV reads labeled examples from a CSV file with "text" and "intent"
// columns, in any column order. Rows with an empty text or intent are
// rejected rather than silently skipped.
func LoadCSV(path string) ([]intent.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses labeled examples from CSV content.
func ReadCSV(r io.Reader) ([]intent.Example, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", intent.ErrDatasetFormat, err)
	}

	textCol, intentCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "text":
			textCol = i
		case "intent":
			intentCol = i
		}
	}
	if textCol < 0 || intentCol < 0 {
		return nil, fmt.Errorf("%w: dataset must have 'text' and 'intent' columns, got %v", intent.ErrDatasetFormat, header)
	}

	var examples []intent.Example
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", intent.ErrDatasetFormat, line, err)
		}
		if len(record) <= textCol || len(record) <= intentCol {
			return nil, fmt.Errorf("%w: line %d has %d columns", intent.ErrDatasetFormat, line, len(record))
		}

		text := strings.TrimSpace(record[textCol])
		label := strings.TrimSpace(record[intentCol])
		if text == "" || label == "" {
			return nil, fmt.Errorf("%w: line %d has an empty text or intent", intent.ErrDatasetFormat, line)
		}
		examples = append(examples, intent.Example{Text: text, Intent: label})
	}

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: dataset has no rows", intent.ErrDatasetFormat)
	}
	return examples, nil
}

// LoadPostgres reads labeled examples from the training_queries table.
// Rows come back ordered by id so retraining sees a stable corpus.
func LoadPostgres(ctx context.Context, db *sql.DB) ([]intent.Example, error) {
	rows, err := db.QueryContext(ctx, "SELECT text, intent FROM training_queries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query training corpus: %w", err)
	}
	defer rows.Close()

	var examples []intent.Example
	for rows.Next() {
		var ex intent.Example
		if err := rows.Scan(&ex.Text, &ex.Intent); err != nil {
			return nil, fmt.Errorf("failed to scan training row: %w", err)
		}
		if ex.Text == "" || ex.Intent == "" {
			return nil, fmt.Errorf("%w: training_queries contains an empty text or intent", intent.ErrDatasetFormat)
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read training corpus: %w", err)
	}

	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: training_queries table is empty", intent.ErrDatasetFormat)
	}
	return examples, nil
}
