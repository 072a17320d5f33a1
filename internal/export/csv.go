// Package export writes categorized transactions back out as CSV.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRow is the stable export shape. The unparsable amount sentinel is
// written as an empty cell.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// WriteCSV writes transactions to a CSV file, creating parent directories as
// needed.
func WriteCSV(transactions []models.Transaction, path string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close file")
		}
	}()

	rows := make([]csvRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = csvRow{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.AmountString(),
			Category:    tx.Category,
		}
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Info("Wrote transactions to CSV")
	return nil
}
