package models

import "github.com/shopspring/decimal"

// CategoryConfig represents one category and its matching keywords as stored
// in the categories YAML file. Order in the file is significant: the rule
// engine resolves ties by first match in this order.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// Budget represents a spending budget for one category.
type Budget struct {
	Category string
	Amount   decimal.Decimal
	Period   string
}
