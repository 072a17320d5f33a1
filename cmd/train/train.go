// Package train implements explicit classifier training from an
// already-categorized CSV file.
package train

import (
	"encoding/csv"
	"errors"
	"os"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/classifier"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var inputFile string

// trainRow maps the columns required for training.
type trainRow struct {
	Description string `csv:"Description"`
	Category    string `csv:"Category"`
}

// Cmd represents the train command.
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train the text classifier from a categorized CSV file",
	Long: `Fit the text classifier on a CSV file carrying Description and Category
columns (for example the output of a previous categorize run, after manual
review). The fitted state is persisted and reused by later categorize runs.`,
	RunE: trainFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Categorized CSV file to learn from")
	_ = Cmd.MarkFlagRequired("input")
}

func trainFunc(cmd *cobra.Command, args []string) error {
	logger := root.Logger()

	file, err := os.Open(inputFile)
	if err != nil {
		return &parsererror.IngestionError{FilePath: inputFile, Reason: "cannot open file", Err: err}
	}
	defer func() { _ = file.Close() }()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	var rows []trainRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return &parsererror.IngestionError{FilePath: inputFile, Reason: "cannot parse table", Err: err}
	}

	examples := make([]classifier.Example, 0, len(rows))
	for _, row := range rows {
		if row.Category == "" || row.Category == models.CategoryUncategorized ||
			row.Category == models.CategoryFallback {
			continue
		}
		examples = append(examples, classifier.Example{Text: row.Description, Label: row.Category})
	}

	clf := classifier.New(root.Cfg.ModelPath(), logger)
	if err := clf.Train(examples); err != nil {
		if errors.Is(err, classifier.ErrInsufficientData) {
			cmd.PrintErrln("Not enough qualifying examples to train; previous model state kept")
			return nil
		}
		return err
	}

	root.Log.Infof("Classifier trained on %d examples", len(examples))
	return nil
}
