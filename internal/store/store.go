// Package store provides durable storage for the category rule set.
//
// Categories live in a YAML document as an ordered list of
// {name, keywords} entries. The file is seeded from compiled-in defaults on
// first start and rewritten after every successful mutation. Default
// category names cannot be removed; their keywords remain editable.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// CategoryStore owns the category→keywords mapping and its mutation API.
type CategoryStore struct {
	path       string
	mu         sync.RWMutex
	categories []models.CategoryConfig
	defaults   map[string]bool
	logger     logging.Logger
}

// NewCategoryStore creates a store backed by the YAML file at path.
// If the file is missing or unreadable the store starts from the default
// category set; a corrupt file is reported but not fatal.
func NewCategoryStore(path string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.GetLogger()
	}

	s := &CategoryStore{
		path:     path,
		defaults: make(map[string]bool),
		logger:   logger,
	}
	for _, c := range defaultCategories() {
		s.defaults[c.Name] = true
	}

	if err := s.load(); err != nil {
		s.logger.WithError(err).Warn("Failed to load categories, seeding defaults")
		s.categories = defaultCategories()
	}

	return s
}

func (s *CategoryStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.categories = defaultCategories()
			// Best effort: materialize the seed so later mutations
			// have a file to rewrite.
			if saveErr := s.persist(); saveErr != nil {
				s.logger.WithError(saveErr).Warn("Failed to write seeded categories file")
			}
			return nil
		}
		return fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("error parsing categories file: %w", err)
	}
	if len(cfg.Categories) == 0 {
		s.categories = defaultCategories()
		return nil
	}

	s.categories = cfg.Categories
	s.logger.WithField(logging.FieldCount, len(s.categories)).Debug("Loaded categories")
	return nil
}

// persist rewrites the YAML file from in-memory state. Callers hold the lock.
func (s *CategoryStore) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return &parsererror.PersistenceError{Store: "category", Op: "mkdir", Err: err}
	}

	data, err := yaml.Marshal(models.CategoriesConfig{Categories: s.categories})
	if err != nil {
		return &parsererror.PersistenceError{Store: "category", Op: "marshal", Err: err}
	}

	if err := os.WriteFile(s.path, data, models.PermissionDataFile); err != nil {
		return &parsererror.PersistenceError{Store: "category", Op: "write", Err: err}
	}
	return nil
}

// Categories returns all category names in rule-priority order.
func (s *CategoryStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Keywords returns the keyword list for a category, or nil when unknown.
func (s *CategoryStore) Keywords(category string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Name == category {
			out := make([]string, len(c.Keywords))
			copy(out, c.Keywords)
			return out
		}
	}
	return nil
}

// All returns a copy of the full ordered rule set.
func (s *CategoryStore) All() []models.CategoryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CategoryConfig, len(s.categories))
	for i, c := range s.categories {
		out[i] = models.CategoryConfig{Name: c.Name}
		out[i].Keywords = make([]string, len(c.Keywords))
		copy(out[i].Keywords, c.Keywords)
	}
	return out
}

// IsDefault reports whether the category name is deletion-protected.
func (s *CategoryStore) IsDefault(category string) bool {
	return s.defaults[category]
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &parsererror.ValidationError{Field: "category name", Value: name, Reason: "must not be empty"}
	}
	if len(name) > models.MaxCategoryNameLength {
		return &parsererror.ValidationError{Field: "category name", Value: name, Reason: fmt.Sprintf("must not exceed %d characters", models.MaxCategoryNameLength)}
	}
	return nil
}

// AddCategory appends a new category with the given keywords. Keywords are
// lowercased and de-duplicated; empty keywords are rejected.
func (s *CategoryStore) AddCategory(name string, keywords []string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return &parsererror.ValidationError{Field: "category name", Value: name, Reason: "already exists"}
		}
	}

	cleaned := make([]string, 0, len(keywords))
	seen := make(map[string]bool)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return &parsererror.ValidationError{Field: "keyword", Value: kw, Reason: "must not be empty"}
		}
		if !seen[kw] {
			seen[kw] = true
			cleaned = append(cleaned, kw)
		}
	}

	s.categories = append(s.categories, models.CategoryConfig{Name: name, Keywords: cleaned})
	if err := s.persist(); err != nil {
		// Roll back so in-memory state matches disk
		s.categories = s.categories[:len(s.categories)-1]
		return err
	}

	s.logger.WithField(logging.FieldCategory, name).Info("Category added")
	return nil
}

// RemoveCategory deletes a custom category. Default categories are protected.
func (s *CategoryStore) RemoveCategory(name string) error {
	if s.defaults[name] {
		return &parsererror.ValidationError{Field: "category name", Value: name, Reason: "default categories cannot be removed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.Name == name {
			removed := c
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			if err := s.persist(); err != nil {
				rest := append([]models.CategoryConfig{removed}, s.categories[i:]...)
				s.categories = append(s.categories[:i], rest...)
				return err
			}
			s.logger.WithField(logging.FieldCategory, name).Info("Category removed")
			return nil
		}
	}
	return &parsererror.ValidationError{Field: "category name", Value: name, Reason: "not found"}
}

// AddKeyword adds a keyword to an existing category. The keyword is
// lowercased; adding one that is already present is a no-op success.
func (s *CategoryStore) AddKeyword(category, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return &parsererror.ValidationError{Field: "keyword", Value: keyword, Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.Name != category {
			continue
		}
		for _, kw := range c.Keywords {
			if kw == keyword {
				return nil
			}
		}
		s.categories[i].Keywords = append(s.categories[i].Keywords, keyword)
		if err := s.persist(); err != nil {
			s.categories[i].Keywords = s.categories[i].Keywords[:len(s.categories[i].Keywords)-1]
			return err
		}
		s.logger.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: logging.FieldKeyword, Value: keyword},
		).Debug("Keyword added")
		return nil
	}
	return &parsererror.ValidationError{Field: "category name", Value: category, Reason: "not found"}
}

// RemoveKeyword removes a keyword from a category.
func (s *CategoryStore) RemoveKeyword(category, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.Name != category {
			continue
		}
		for j, kw := range c.Keywords {
			if kw == keyword {
				s.categories[i].Keywords = append(c.Keywords[:j], c.Keywords[j+1:]...)
				if err := s.persist(); err != nil {
					rest := append([]string{keyword}, s.categories[i].Keywords[j:]...)
					s.categories[i].Keywords = append(s.categories[i].Keywords[:j], rest...)
					return err
				}
				return nil
			}
		}
		return &parsererror.ValidationError{Field: "keyword", Value: keyword, Reason: "not found in category " + category}
	}
	return &parsererror.ValidationError{Field: "category name", Value: category, Reason: "not found"}
}
