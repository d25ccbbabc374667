package models

import "github.com/shopspring/decimal"

// Category classifies an expense for display.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryLodging   Category = "lodging"
	CategoryActivity  Category = "activity"
	CategoryShopping  Category = "shopping"
	CategoryOther     Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryLodging, CategoryActivity, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// SplitMode is how an expense's amount is divided.
type SplitMode string

const (
	SplitEqual  SplitMode = "equal"
	SplitCustom SplitMode = "custom"
	// SplitRatio is accepted for compatibility and settled as an equal split.
	SplitRatio SplitMode = "ratio"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitEqual, SplitCustom, SplitRatio:
		return true
	}
	return false
}

// Expense represents a single payment made by one member on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Amount is the total paid, in the group's currency.
	Amount decimal.Decimal

	// Description is a short free-text label (e.g., "Ramen dinner").
	Description string

	// Category is used for grouping and icons.
	Category Category

	// PaidBy is the member ID of the payer.
	PaidBy string

	// SplitWith is the set of member IDs sharing the cost. Order is irrelevant.
	SplitWith []string

	// SplitMode selects equal or custom division.
	SplitMode SplitMode

	// CustomSplit maps member ID to the exact amount owed.
	// Only meaningful when SplitMode is SplitCustom.
	CustomSplit map[string]decimal.Decimal

	// Date is the Unix timestamp of when the expense happened.
	Date int64

	// Note is an optional longer description.
	Note string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// CreatedBy is the member ID who recorded the expense.
	CreatedBy string

	// UpdatedAt is the Unix timestamp of the last edit, zero if never edited.
	UpdatedAt int64

	// UpdatedBy is the member ID who last edited the expense.
	UpdatedBy string
}
