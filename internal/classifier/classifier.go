// Package classifier implements the trainable text classifier that backs up
// keyword rules: a TF-IDF model over transaction descriptions mapping each to
// a category label with a confidence score.
//
// The model degrades to a safe default instead of failing: when untrained or
// internally faulted, every prediction is the fallback label with zero
// confidence. The fitted state is persisted so it survives process restarts.
package classifier

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/jbrukh/bayesian"
)

const (
	// MinSamplesPerLabel is the minimum number of examples a label needs
	// to take part in a training round. Labels falling short are dropped
	// from the round entirely.
	MinSamplesPerLabel = 5

	// MinTotalSamples is the minimum number of examples that must remain
	// after label filtering for training to proceed.
	MinTotalSamples = 10
)

// ErrInsufficientData is returned by Train when too few qualifying examples
// remain after filtering. The previously fitted state is left untouched.
var ErrInsufficientData = errors.New("classifier: not enough qualifying training examples")

// Example is one (description, category) training pair.
type Example struct {
	Text  string
	Label string
}

// Prediction is the label and confidence produced for one input text.
// Confidence is the maximum class probability, in [0,1].
type Prediction struct {
	Label      string
	Confidence float64
}

// State reports how a prediction batch was produced, so callers can tell
// "no data yet" apart from "internal fault". Both degrade to the fallback
// label at the assignment boundary.
type State int

const (
	// StateTrained means predictions came from the fitted model.
	StateTrained State = iota
	// StateUntrained means no model has been successfully fitted yet.
	StateUntrained
	// StateFaulted means the model exists but prediction failed internally.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateTrained:
		return "trained"
	case StateUntrained:
		return "untrained"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// artifact is the gob envelope written to disk. A single-label training set
// degenerates to a constant model, which the underlying library cannot
// represent, so the envelope carries that case separately.
type artifact struct {
	SingleLabel string
	ModelData   []byte
}

// TextClassifier maps free-text descriptions to category labels.
// Safe for the single-writer sessions this system is designed for; internal
// state is still lock-guarded so concurrent readers do not race a train call.
type TextClassifier struct {
	path   string
	logger logging.Logger

	mu          sync.RWMutex
	model       *bayesian.Classifier
	singleLabel string
}

// New creates a classifier persisting its fitted state at path. Any
// previously persisted state is restored; a missing or corrupt artifact
// leaves the classifier untrained.
func New(path string, logger logging.Logger) *TextClassifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	c := &TextClassifier{path: path, logger: logger}

	if err := c.restore(); err != nil {
		c.logger.WithError(err).WithField(logging.FieldFile, path).
			Warn("No usable classifier state, starting untrained")
	}
	return c
}

// IsTrained reports whether a model has been successfully fitted or restored.
func (c *TextClassifier) IsTrained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil || c.singleLabel != ""
}

// Train fits the model on the given examples.
//
// Every label must have at least MinSamplesPerLabel examples; labels falling
// short are excluded from the round entirely. If fewer than MinTotalSamples
// examples remain, Train returns ErrInsufficientData and the previous fitted
// state stays in effect. On success the fitted state is swapped in and
// persisted.
func (c *TextClassifier) Train(examples []Example) error {
	perLabel := make(map[string]int)
	for _, ex := range examples {
		perLabel[ex.Label]++
	}

	qualifying := make([]Example, 0, len(examples))
	labels := make([]string, 0, len(perLabel))
	seen := make(map[string]bool)
	for _, ex := range examples {
		if perLabel[ex.Label] < MinSamplesPerLabel {
			continue
		}
		qualifying = append(qualifying, ex)
		if !seen[ex.Label] {
			seen[ex.Label] = true
			labels = append(labels, ex.Label)
		}
	}

	if len(qualifying) < MinTotalSamples {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldCount, Value: len(qualifying)},
			logging.Field{Key: logging.FieldReason, Value: "below minimum"},
		).Info("Skipping classifier training")
		return ErrInsufficientData
	}

	// All qualifying examples share one label: the fitted model is the
	// constant function predicting that label.
	if len(labels) == 1 {
		c.mu.Lock()
		c.singleLabel = labels[0]
		c.model = nil
		c.mu.Unlock()
		return c.save()
	}

	classes := make([]bayesian.Class, len(labels))
	for i, l := range labels {
		classes[i] = bayesian.Class(l)
	}

	model := bayesian.NewClassifierTfIdf(classes...)
	for _, ex := range qualifying {
		tokens := tokenize(ex.Text)
		if len(tokens) == 0 {
			continue
		}
		model.Learn(tokens, bayesian.Class(ex.Label))
	}
	model.ConvertTermsFreqToTfIdf()

	c.mu.Lock()
	c.model = model
	c.singleLabel = ""
	c.mu.Unlock()

	c.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(qualifying)},
		logging.Field{Key: "labels", Value: len(labels)},
	).Info("Classifier trained")

	return c.save()
}

// Predict maps each text to a predicted label and confidence.
//
// When untrained, every input gets the fallback label with zero confidence
// and the state is StateUntrained. An internal fault likewise degrades to the
// fallback for the affected inputs and reports StateFaulted; Predict never
// returns an error.
func (c *TextClassifier) Predict(texts []string) (predictions []Prediction, state State) {
	predictions = make([]Prediction, len(texts))
	for i := range predictions {
		predictions[i] = Prediction{Label: models.CategoryFallback, Confidence: 0.0}
	}

	c.mu.RLock()
	model, singleLabel := c.model, c.singleLabel
	c.mu.RUnlock()

	if model == nil && singleLabel == "" {
		return predictions, StateUntrained
	}

	if singleLabel != "" {
		for i := range predictions {
			predictions[i] = Prediction{Label: singleLabel, Confidence: 1.0}
		}
		return predictions, StateTrained
	}

	// The library panics on malformed internal state; collapse that to the
	// degrade-to-default policy instead of propagating.
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField(logging.FieldReason, fmt.Sprint(r)).Error("Classifier prediction faulted")
			for i := range predictions {
				predictions[i] = Prediction{Label: models.CategoryFallback, Confidence: 0.0}
			}
			state = StateFaulted
		}
	}()

	state = StateTrained
	for i, text := range texts {
		tokens := tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		scores, best, _, err := model.SafeProbScores(tokens)
		if err != nil {
			// Numeric underflow on this input only
			continue
		}
		predictions[i] = Prediction{
			Label:      string(model.Classes[best]),
			Confidence: scores[best],
		}
	}
	return predictions, state
}

// save persists the current fitted state. Failures are reported as
// PersistenceError; the in-memory model stays authoritative for the session.
func (c *TextClassifier) save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	art := artifact{SingleLabel: c.singleLabel}
	if c.model != nil {
		var buf bytes.Buffer
		if err := c.model.WriteGob(&buf); err != nil {
			return &parsererror.PersistenceError{Store: "classifier", Op: "encode", Err: err}
		}
		art.ModelData = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(c.path), models.PermissionDirectory); err != nil {
		return &parsererror.PersistenceError{Store: "classifier", Op: "mkdir", Err: err}
	}

	file, err := os.Create(c.path)
	if err != nil {
		return &parsererror.PersistenceError{Store: "classifier", Op: "create", Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close classifier artifact")
		}
	}()

	if err := gob.NewEncoder(file).Encode(art); err != nil {
		return &parsererror.PersistenceError{Store: "classifier", Op: "write", Err: err}
	}
	return nil
}

// restore loads persisted fitted state from disk, if any.
func (c *TextClassifier) restore() error {
	file, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close classifier artifact")
		}
	}()

	var art artifact
	if err := gob.NewDecoder(file).Decode(&art); err != nil {
		return fmt.Errorf("corrupt classifier artifact: %w", err)
	}

	var model *bayesian.Classifier
	if len(art.ModelData) > 0 {
		model, err = bayesian.NewClassifierFromReader(bytes.NewReader(art.ModelData))
		if err != nil {
			return fmt.Errorf("corrupt classifier model: %w", err)
		}
	}

	c.mu.Lock()
	c.model = model
	c.singleLabel = art.SingleLabel
	c.mu.Unlock()

	if model != nil || art.SingleLabel != "" {
		c.logger.WithField(logging.FieldFile, c.path).Debug("Restored classifier state")
	}
	return nil
}
