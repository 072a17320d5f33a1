// Package recategorize implements manual category correction of a single
// row in an already-categorized CSV file.
package recategorize

import (
	"encoding/csv"
	"fmt"
	"os"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	rowIndex   int
	category   string
)

// csvRow mirrors the categorized export shape so corrections round-trip
// without touching the other columns.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// Cmd represents the recategorize command.
var Cmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Manually override the category of one transaction row",
	Long: `Set the category of a single row (0-based, in file order) in a categorized
CSV file. Use this to correct rule or classifier assignments before feeding
the file back to the train command.`,
	RunE: recategorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Categorized CSV file to correct")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file (defaults to rewriting the input)")
	Cmd.Flags().IntVarP(&rowIndex, "row", "r", -1, "0-based row index to recategorize")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Category to assign")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("row")
	_ = Cmd.MarkFlagRequired("category")
}

func recategorizeFunc(cmd *cobra.Command, args []string) error {
	if category == "" {
		return &parsererror.ValidationError{Field: "category name", Value: category, Reason: "must not be empty"}
	}
	if len(category) > models.MaxCategoryNameLength {
		return &parsererror.ValidationError{Field: "category name", Value: category, Reason: fmt.Sprintf("must not exceed %d characters", models.MaxCategoryNameLength)}
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return &parsererror.IngestionError{FilePath: inputFile, Reason: "cannot open file", Err: err}
	}

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	var rows []csvRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		_ = file.Close()
		return &parsererror.IngestionError{FilePath: inputFile, Reason: "cannot parse table", Err: err}
	}
	_ = file.Close()

	if rowIndex < 0 || rowIndex >= len(rows) {
		return &parsererror.ValidationError{
			Field:  "row",
			Value:  fmt.Sprint(rowIndex),
			Reason: fmt.Sprintf("must be between 0 and %d", len(rows)-1),
		}
	}
	previous := rows[rowIndex].Category
	rows[rowIndex].Category = category

	target := outputFile
	if target == "" {
		target = inputFile
	}
	out, err := os.Create(target)
	if err != nil {
		return &parsererror.PersistenceError{Store: "recategorize", Op: "create", Err: err}
	}
	defer func() { _ = out.Close() }()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return &parsererror.PersistenceError{Store: "recategorize", Op: "write", Err: err}
	}

	cmd.Printf("Row %d: %s -> %s\n", rowIndex, previous, category)
	root.Log.Infof("Recategorized row %d in %s", rowIndex, target)
	return nil
}
