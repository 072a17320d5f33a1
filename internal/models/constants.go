package models

// Category labels with fixed meaning in the categorization pipeline.
const (
	// CategoryUncategorized marks a transaction no rule has matched yet.
	CategoryUncategorized = "Uncategorized"

	// CategoryFallback is assigned when the classifier is unavailable or
	// its prediction falls below the confidence threshold.
	CategoryFallback = "Other"
)

// Budget periods.
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// MaxCategoryNameLength bounds category names, matching the budgets table
// column width.
const MaxCategoryNameLength = 50

// File permissions.
const (
	PermissionDataFile  = 0644
	PermissionDirectory = 0755
)
