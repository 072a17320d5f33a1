package store

import "fjacquet/fincat/internal/models"

// defaultCategories is the seed rule set written on first start. These
// category names are deletion-protected; their keyword lists remain editable.
func defaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{
			Name:     "Food & Dining",
			Keywords: []string{"walmart", "grocery", "restaurant", "cafe", "coffee", "pizza", "mcdonald", "doordash", "safeway", "kroger"},
		},
		{
			Name:     "Transportation",
			Keywords: []string{"shell", "chevron", "gas", "uber", "lyft", "parking", "transit", "fuel", "exxon"},
		},
		{
			Name:     "Shopping",
			Keywords: []string{"amazon", "target", "ebay", "best buy", "ikea", "costco"},
		},
		{
			Name:     "Bills & Utilities",
			Keywords: []string{"electric", "water", "internet", "phone", "utility", "insurance", "comcast", "verizon"},
		},
		{
			Name:     "Entertainment",
			Keywords: []string{"netflix", "spotify", "cinema", "hulu", "steam", "theatre"},
		},
		{
			Name:     "Health & Fitness",
			Keywords: []string{"pharmacy", "gym", "doctor", "dental", "clinic", "cvs", "walgreens"},
		},
		{
			Name:     "Travel",
			Keywords: []string{"airline", "hotel", "airbnb", "flight", "booking.com", "expedia"},
		},
	}
}
