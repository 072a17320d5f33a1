// Package ingest parses uploaded transaction tables into Transaction records.
//
// Supported inputs are delimiter-separated text files: CSV (comma), TSV
// (tab) and TXT (comma, falling back to tab). Every file must carry Date,
// Description and Amount columns; a file missing any of them is rejected
// before categorization is ever invoked. Column order is free and extra
// columns are ignored.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// rawRow maps the required input columns by header name.
type rawRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

var requiredColumns = []string{"Date", "Description", "Amount"}

// Reader ingests transaction tables from disk.
type Reader struct {
	logger logging.Logger
}

// NewReader creates a table reader.
func NewReader(logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Reader{logger: logger}
}

// ReadFile parses the file at path into freshly-ingested transactions.
// All failures are *parsererror.IngestionError.
func (r *Reader) ReadFile(path string) ([]models.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.readDelimited(path, ',')
	case ".tsv":
		return r.readDelimited(path, '\t')
	case ".txt":
		txs, err := r.readDelimited(path, ',')
		if err == nil {
			return txs, nil
		}
		txs, tabErr := r.readDelimited(path, '\t')
		if tabErr == nil {
			return txs, nil
		}
		return nil, &parsererror.IngestionError{
			FilePath: path,
			Reason:   "file must be comma or tab-separated",
			Err:      err,
		}
	default:
		return nil, &parsererror.IngestionError{
			FilePath: path,
			Reason:   "unsupported file format, expected CSV, TSV or TXT",
		}
	}
}

func (r *Reader) readDelimited(path string, delimiter rune) ([]models.Transaction, error) {
	r.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "delimiter", Value: string(delimiter)},
	).Debug("Reading transaction table")

	if err := r.checkHeader(path, delimiter); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &parsererror.IngestionError{FilePath: path, Reason: "cannot open file", Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.WithError(closeErr).Warn("Failed to close input file")
		}
	}()

	csvReader := csv.NewReader(file)
	csvReader.Comma = delimiter
	csvReader.TrimLeadingSpace = true

	var rows []rawRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, &parsererror.IngestionError{FilePath: path, Reason: "cannot parse table", Err: err}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		date, err := models.ParseDate(row.Date)
		if err != nil {
			return nil, &parsererror.IngestionError{
				FilePath: path,
				Reason:   fmt.Sprintf("row %d: unparsable date '%s'", i+1, row.Date),
				Err:      err,
			}
		}
		// A non-numeric amount becomes the unparsable sentinel, not an error.
		amount := models.ParseAmount(row.Amount)
		transactions = append(transactions, models.NewTransaction(date, row.Description, amount))
	}

	r.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Ingested transactions")
	return transactions, nil
}

// checkHeader verifies the required columns are all present before any row
// parsing starts.
func (r *Reader) checkHeader(path string, delimiter rune) error {
	file, err := os.Open(path)
	if err != nil {
		return &parsererror.IngestionError{FilePath: path, Reason: "cannot open file", Err: err}
	}
	defer func() { _ = file.Close() }()

	csvReader := csv.NewReader(file)
	csvReader.Comma = delimiter
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return &parsererror.IngestionError{FilePath: path, Reason: "cannot read header", Err: err}
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &parsererror.IngestionError{
			FilePath: path,
			Reason:   "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return nil
}
