package scorer

import "fmt"

// Category is one of the six ordinal obesity classifications.
type Category string

const (
	NormalWeight      Category = "Normal_Weight"
	OverweightLevelI  Category = "Overweight_Level_I"
	OverweightLevelII Category = "Overweight_Level_II"
	ObesityTypeI      Category = "Obesity_Type_I"
	ObesityTypeII     Category = "Obesity_Type_II"
	ObesityTypeIII    Category = "Obesity_Type_III"
)

var categoryOrder = []Category{
	NormalWeight,
	OverweightLevelI,
	OverweightLevelII,
	ObesityTypeI,
	ObesityTypeII,
	ObesityTypeIII,
}

// Categories returns all categories in ordinal order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory accepts the exact category key.
func ParseCategory(s string) (Category, error) {
	for _, c := range categoryOrder {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: category %q", ErrUnknownOption, s)
}

// Rank returns the ordinal position of c, or -1 for an unknown category.
func (c Category) Rank() int {
	for i, known := range categoryOrder {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Category) Valid() bool { return c.Rank() >= 0 }

func (c Category) String() string { return string(c) }
