package store

import "fmt"

// LineItemMode controls how the importer turns rows into order items
type LineItemMode string

const (
	// LineItemModeFirstRow creates a single item from the row that created the order.
	// Later rows for the same order contribute nothing.
	LineItemModeFirstRow LineItemMode = "first_row"
	// LineItemModePerRow creates one item per distinct (order, product, seller) row
	LineItemModePerRow LineItemMode = "per_row"
)

// ParseLineItemMode converts a configuration value to a LineItemMode.
// An empty value selects LineItemModeFirstRow.
func ParseLineItemMode(s string) (LineItemMode, error) {
	switch LineItemMode(s) {
	case "", LineItemModeFirstRow:
		return LineItemModeFirstRow, nil
	case LineItemModePerRow:
		return LineItemModePerRow, nil
	}
	return "", fmt.Errorf("unknown line item mode %q", s)
}
