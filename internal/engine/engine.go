// Package engine orchestrates transaction categorization: a keyword-rule
// pass first, then a classifier trained on the rule-matched rows is applied
// to the remainder under a confidence threshold.
package engine

import (
	"fjacquet/fincat/internal/classifier"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/rules"
)

const (
	// DefaultConfidenceThreshold is the minimum class probability required
	// to accept a classifier prediction instead of the fallback label.
	DefaultConfidenceThreshold = 0.7

	// DefaultMinTrainingRows is the minimum number of rule-categorized
	// rows required before the classifier step runs at all.
	DefaultMinTrainingRows = 10
)

// Classifier is the text-classifier surface the engine consumes.
type Classifier interface {
	Train(examples []classifier.Example) error
	Predict(texts []string) ([]classifier.Prediction, classifier.State)
}

// Engine combines keyword rules with the classifier fallback.
type Engine struct {
	ruleSource          rules.RuleSource
	classifier          Classifier
	confidenceThreshold float64
	minTrainingRows     int
	logger              logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfidenceThreshold overrides the prediction acceptance threshold.
func WithConfidenceThreshold(threshold float64) Option {
	return func(e *Engine) { e.confidenceThreshold = threshold }
}

// WithMinTrainingRows overrides the minimum rule-categorized row count
// required for the classifier step.
func WithMinTrainingRows(n int) Option {
	return func(e *Engine) { e.minTrainingRows = n }
}

// New creates a categorization engine reading live rules from ruleSource.
// A nil clf disables the classifier step (pure rule-based mode).
func New(ruleSource rules.RuleSource, clf Classifier, logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	e := &Engine{
		ruleSource:          ruleSource,
		classifier:          clf,
		confidenceThreshold: DefaultConfidenceThreshold,
		minTrainingRows:     DefaultMinTrainingRows,
		logger:              logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categorize assigns a category to every transaction and returns a new
// slice; the input is not mutated.
//
// Every record is re-evaluated against every rule on every call, and a rule
// match overwrites whatever label the row carries, so repeated calls are
// idempotent with respect to rules alone. A rule-unmatched row that already
// carries a label other than "Uncategorized" keeps it untouched: there is no
// implicit reset, and such rows take part in neither training nor prediction.
// The rest of the unmatched rows are handed to the classifier, trained on
// this call's rule-categorized rows, but only when at least minTrainingRows
// rows were rule-categorized. Below that the classifier step is skipped
// entirely and the remainder stays "Uncategorized", even if a fitted model
// from a previous session exists. Classifier failures degrade to the fallback
// label; nothing here returns an error for well-formed input.
func (e *Engine) Categorize(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)

	ruleSet := rules.NewSet(e.ruleSource)

	var matched, uncategorized []int
	for i := range out {
		if category, ok := ruleSet.Match(out[i].Description); ok {
			out[i].Category = category
			matched = append(matched, i)
			continue
		}
		// A previously assigned label survives re-categorization.
		if out[i].Category != "" && out[i].Category != models.CategoryUncategorized {
			continue
		}
		out[i].Category = models.CategoryUncategorized
		uncategorized = append(uncategorized, i)
	}

	e.logger.WithFields(
		logging.Field{Key: "matched", Value: len(matched)},
		logging.Field{Key: "remaining", Value: len(uncategorized)},
	).Debug("Rule pass complete")

	if e.classifier == nil || len(uncategorized) == 0 {
		return out
	}
	if len(matched) < e.minTrainingRows {
		e.logger.WithField(logging.FieldReason, "too few rule-categorized rows").
			Debug("Skipping classifier step")
		return out
	}

	examples := make([]classifier.Example, 0, len(matched))
	for _, i := range matched {
		examples = append(examples, classifier.Example{
			Text:  out[i].Description,
			Label: out[i].Category,
		})
	}
	if err := e.classifier.Train(examples); err != nil {
		// Prior fitted state, if any, remains in effect for prediction.
		e.logger.WithError(err).Debug("Classifier training skipped")
	}

	texts := make([]string, len(uncategorized))
	for j, i := range uncategorized {
		texts[j] = out[i].Description
	}

	predictions, state := e.classifier.Predict(texts)
	if state != classifier.StateTrained {
		e.logger.WithField(logging.FieldState, state.String()).
			Debug("Classifier predictions degraded")
	}
	for j, i := range uncategorized {
		if predictions[j].Confidence > e.confidenceThreshold {
			out[i].Category = predictions[j].Label
		} else {
			out[i].Category = models.CategoryFallback
		}
	}

	return out
}
