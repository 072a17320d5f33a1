package recategorize_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/fincat/cmd/recategorize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCategorizedCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categorized.csv")
	content := "Date,Description,Amount,Category\n" +
		"2024-01-15,STARBUCKS #1234,5.50,Food\n" +
		"2024-01-16,Mystery Vendor,12.00,Other\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runWith(t *testing.T, flags map[string]string) error {
	t.Helper()
	for name, value := range flags {
		require.NoError(t, recategorize.Cmd.Flags().Set(name, value))
	}
	return recategorize.Cmd.RunE(recategorize.Cmd, nil)
}

func TestRecategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "recategorize", recategorize.Cmd.Use)
	assert.Contains(t, recategorize.Cmd.Short, "override the category")
	assert.NotNil(t, recategorize.Cmd.RunE)
}

func TestRecategorizeCommand_Flags(t *testing.T) {
	inputFlag := recategorize.Cmd.Flags().Lookup("input")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "i", inputFlag.Shorthand)

	rowFlag := recategorize.Cmd.Flags().Lookup("row")
	require.NotNil(t, rowFlag)
	assert.Equal(t, "r", rowFlag.Shorthand)
	assert.Equal(t, "-1", rowFlag.DefValue)

	categoryFlag := recategorize.Cmd.Flags().Lookup("category")
	require.NotNil(t, categoryFlag)
	assert.Equal(t, "c", categoryFlag.Shorthand)
}

func TestRecategorize_UpdatesSingleRowInPlace(t *testing.T) {
	path := writeCategorizedCSV(t)

	err := runWith(t, map[string]string{
		"input":    path,
		"output":   "",
		"row":      "1",
		"category": "Gas",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	// Untouched rows round-trip unchanged.
	assert.Equal(t, "2024-01-15,STARBUCKS #1234,5.50,Food", lines[1])
	assert.Equal(t, "2024-01-16,Mystery Vendor,12.00,Gas", lines[2])
}

func TestRecategorize_WritesToSeparateOutput(t *testing.T) {
	path := writeCategorizedCSV(t)
	outPath := filepath.Join(t.TempDir(), "corrected.csv")

	err := runWith(t, map[string]string{
		"input":    path,
		"output":   outPath,
		"row":      "0",
		"category": "Entertainment",
	})
	require.NoError(t, err)

	// The input stays untouched, the output carries the correction.
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(original), "STARBUCKS #1234,5.50,Food")

	corrected, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(corrected), "STARBUCKS #1234,5.50,Entertainment")
}

func TestRecategorize_RowOutOfRange(t *testing.T) {
	path := writeCategorizedCSV(t)

	err := runWith(t, map[string]string{
		"input":    path,
		"output":   "",
		"row":      "5",
		"category": "Gas",
	})
	assert.Error(t, err)
}

func TestRecategorize_OverLongCategory(t *testing.T) {
	path := writeCategorizedCSV(t)

	err := runWith(t, map[string]string{
		"input":    path,
		"output":   "",
		"row":      "0",
		"category": strings.Repeat("x", 51),
	})
	assert.Error(t, err)
}
