package domain

// Category is one aspect of the 5C credit evaluation framework.
type Category string

const (
	Character  Category = "Character"
	Capacity   Category = "Capacity"
	Capital    Category = "Capital"
	Collateral Category = "Collateral"
	Conditions Category = "Conditions"
)

// Categories returns the five categories in canonical order. Pipeline runs
// iterate in this order regardless of how the caller ordered its selection.
func Categories() []Category {
	return []Category{Character, Capacity, Capital, Collateral, Conditions}
}

// Valid reports whether c is a member of the fixed taxonomy.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CanonicalSubset restricts the canonical order to the selected categories,
// dropping duplicates and unknown values.
func CanonicalSubset(selected []Category) []Category {
	wanted := make(map[Category]bool, len(selected))
	for _, c := range selected {
		wanted[c] = true
	}

	var ordered []Category
	for _, c := range Categories() {
		if wanted[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// CategoryResult is one produced (category, analysis) pair. Results live in
// session state for the duration of a conversation; durably they exist only
// as persisted assistant messages.
type CategoryResult struct {
	Category Category
	Analysis string
}
