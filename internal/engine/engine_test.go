package engine

import (
	"fmt"
	"testing"

	"fjacquet/fincat/internal/classifier"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves a fixed rule snapshot.
type stubSource struct {
	configs []models.CategoryConfig
}

func (s *stubSource) All() []models.CategoryConfig { return s.configs }

// fakeClassifier records calls and serves canned predictions keyed by text.
type fakeClassifier struct {
	trained     []classifier.Example
	trainErr    error
	predictions map[string]classifier.Prediction
	state       classifier.State
}

func (f *fakeClassifier) Train(examples []classifier.Example) error {
	f.trained = examples
	return f.trainErr
}

func (f *fakeClassifier) Predict(texts []string) ([]classifier.Prediction, classifier.State) {
	out := make([]classifier.Prediction, len(texts))
	for i, text := range texts {
		if p, ok := f.predictions[text]; ok {
			out[i] = p
		} else {
			out[i] = classifier.Prediction{Label: models.CategoryFallback, Confidence: 0.0}
		}
	}
	return out, f.state
}

func foodAndGasRules() rules.RuleSource {
	return &stubSource{configs: []models.CategoryConfig{
		{Name: "Food", Keywords: []string{"starbucks", "grocery"}},
		{Name: "Gas", Keywords: []string{"shell", "chevron"}},
	}}
}

func txns(descriptions ...string) []models.Transaction {
	out := make([]models.Transaction, len(descriptions))
	for i, d := range descriptions {
		out[i] = models.NewTransaction("2024-01-15", d, models.ParseAmount("10.00"))
	}
	return out
}

func categories(transactions []models.Transaction) []string {
	out := make([]string, len(transactions))
	for i, tx := range transactions {
		out[i] = tx.Category
	}
	return out
}

func TestCategorize_RulesOnly(t *testing.T) {
	e := New(foodAndGasRules(), nil, nil)

	result := e.Categorize(txns("STARBUCKS #1234", "Shell Oil 5512", "Mystery Vendor"))

	assert.Equal(t, []string{"Food", "Gas", models.CategoryUncategorized}, categories(result))
}

func TestCategorize_DoesNotMutateInput(t *testing.T) {
	e := New(foodAndGasRules(), nil, nil)
	input := txns("STARBUCKS #1234")
	input[0].Category = "Stale"

	result := e.Categorize(input)

	assert.Equal(t, "Stale", input[0].Category)
	assert.Equal(t, "Food", result[0].Category)
}

func TestCategorize_RuleOverwritesPriorCategory(t *testing.T) {
	// Re-running categorization is idempotent: a rule match re-evaluates
	// and overwrites whatever label the row already carries.
	e := New(foodAndGasRules(), nil, nil)
	input := txns("Shell Oil 5512")
	input[0].Category = "Food"

	result := e.Categorize(input)

	assert.Equal(t, []string{"Gas"}, categories(result))
}

func TestCategorize_PreservesExistingLabelOnUnmatchedRows(t *testing.T) {
	// A rule-unmatched row carrying a manual label keeps it: no implicit
	// reset to "Uncategorized", and the row reaches neither training nor
	// prediction.
	fake := &fakeClassifier{
		predictions: map[string]classifier.Prediction{
			"Mystery Vendor": {Label: "Gas", Confidence: 0.99},
		},
		state: classifier.StateTrained,
	}
	e := New(foodAndGasRules(), fake, nil, WithMinTrainingRows(1))

	input := txns("STARBUCKS #1234", "Mystery Vendor", "Unknown Bakery")
	input[1].Category = "Food"

	result := e.Categorize(input)

	assert.Equal(t, "Food", result[1].Category)
	require.Len(t, fake.trained, 1)
	assert.Equal(t, classifier.Example{Text: "STARBUCKS #1234", Label: "Food"}, fake.trained[0])
	// Only the genuinely uncategorized row went through the classifier.
	assert.Equal(t, models.CategoryFallback, result[2].Category)
}

func TestCategorize_SkipsClassifierBelowMinimum(t *testing.T) {
	fake := &fakeClassifier{
		predictions: map[string]classifier.Prediction{
			"Mystery Vendor": {Label: "Food", Confidence: 0.99},
		},
		state: classifier.StateTrained,
	}
	e := New(foodAndGasRules(), fake, nil)

	// Two rule matches are below the default minimum of ten, so the
	// classifier never runs and the remainder stays uncategorized.
	result := e.Categorize(txns("STARBUCKS #1234", "Shell Oil 5512", "Mystery Vendor"))

	assert.Nil(t, fake.trained)
	assert.Equal(t, []string{"Food", "Gas", models.CategoryUncategorized}, categories(result))
}

func TestCategorize_TrainsOnMatchedAndPredictsRemainder(t *testing.T) {
	fake := &fakeClassifier{
		predictions: map[string]classifier.Prediction{
			"Corner Cafe":    {Label: "Food", Confidence: 0.92},
			"Mystery Vendor": {Label: "Gas", Confidence: 0.40},
		},
		state: classifier.StateTrained,
	}
	e := New(foodAndGasRules(), fake, nil)

	input := make([]models.Transaction, 0, 12)
	for i := 0; i < 5; i++ {
		input = append(input, models.NewTransaction("2024-01-15", fmt.Sprintf("Starbucks store %d", i), models.ParseAmount("5.00")))
	}
	for i := 0; i < 5; i++ {
		input = append(input, models.NewTransaction("2024-01-16", fmt.Sprintf("Shell station %d", i), models.ParseAmount("40.00")))
	}
	input = append(input, models.NewTransaction("2024-01-17", "Corner Cafe", models.ParseAmount("8.00")))
	input = append(input, models.NewTransaction("2024-01-18", "Mystery Vendor", models.ParseAmount("12.00")))

	result := e.Categorize(input)

	// Training set is exactly the rule-categorized rows.
	require.Len(t, fake.trained, 10)
	assert.Equal(t, classifier.Example{Text: "Starbucks store 0", Label: "Food"}, fake.trained[0])
	assert.Equal(t, classifier.Example{Text: "Shell station 4", Label: "Gas"}, fake.trained[9])

	// High-confidence prediction accepted, low-confidence one falls back.
	assert.Equal(t, "Food", result[10].Category)
	assert.Equal(t, models.CategoryFallback, result[11].Category)
}

func TestCategorize_ConfidenceThresholdIsExclusive(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expected   string
	}{
		{name: "above threshold accepted", confidence: 0.71, expected: "Food"},
		{name: "exactly at threshold rejected", confidence: 0.70, expected: models.CategoryFallback},
		{name: "below threshold rejected", confidence: 0.69, expected: models.CategoryFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClassifier{
				predictions: map[string]classifier.Prediction{
					"Mystery Vendor": {Label: "Food", Confidence: tt.confidence},
				},
				state: classifier.StateTrained,
			}
			e := New(foodAndGasRules(), fake, nil, WithMinTrainingRows(1))

			result := e.Categorize(txns("STARBUCKS #1234", "Mystery Vendor"))

			assert.Equal(t, tt.expected, result[1].Category)
		})
	}
}

func TestCategorize_TrainFailureStillPredicts(t *testing.T) {
	// A failed training round leaves any previously fitted model in effect,
	// so prediction still runs.
	fake := &fakeClassifier{
		trainErr: classifier.ErrInsufficientData,
		predictions: map[string]classifier.Prediction{
			"Mystery Vendor": {Label: "Gas", Confidence: 0.95},
		},
		state: classifier.StateTrained,
	}
	e := New(foodAndGasRules(), fake, nil, WithMinTrainingRows(1))

	result := e.Categorize(txns("STARBUCKS #1234", "Mystery Vendor"))

	assert.Equal(t, "Gas", result[1].Category)
}

func TestCategorize_UntrainedClassifierFallsBack(t *testing.T) {
	fake := &fakeClassifier{state: classifier.StateUntrained}
	e := New(foodAndGasRules(), fake, nil, WithMinTrainingRows(1))

	result := e.Categorize(txns("STARBUCKS #1234", "Mystery Vendor"))

	assert.Equal(t, models.CategoryFallback, result[1].Category)
}

func TestCategorize_AllRowsMatchSkipsClassifier(t *testing.T) {
	fake := &fakeClassifier{state: classifier.StateTrained}
	e := New(foodAndGasRules(), fake, nil, WithMinTrainingRows(1))

	result := e.Categorize(txns("STARBUCKS #1234", "Shell Oil 5512"))

	assert.Nil(t, fake.trained)
	assert.Equal(t, []string{"Food", "Gas"}, categories(result))
}

func TestCategorize_EmptyInput(t *testing.T) {
	e := New(foodAndGasRules(), &fakeClassifier{}, nil)

	result := e.Categorize(nil)

	assert.Empty(t, result)
}
